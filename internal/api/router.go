package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmarrero/promptdeck-be/internal/api/handlers"
	"github.com/dmarrero/promptdeck-be/internal/auth"
	"github.com/dmarrero/promptdeck-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	users services.UserServiceProvider,
	sessions services.SessionServiceProvider,
	projects services.ProjectServiceProvider,
	chat services.ChatServiceProvider,
	corsOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users, sessions)
	projectHandler := handlers.NewProjectHandler(projects)
	chatHandler := handlers.NewChatHandler(chat, sessions)

	r.Get("/", handlers.Home)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Use(auth.RequireSession(sessions))
		r.Get("/", projectHandler.List)
		r.Post("/", projectHandler.Create)
		r.Post("/{projectID}/prompts", projectHandler.AddPrompt)
	})

	r.Route("/chat", func(r chi.Router) {
		r.With(auth.RequireSession(sessions)).Get("/", chatHandler.Get)
		r.With(auth.RequireSession(sessions)).Get("/ws", chatHandler.ServeWS)
		// POST speaks text/plain end to end, including its auth error.
		r.Post("/", chatHandler.Post)
	})

	return r
}
