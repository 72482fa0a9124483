package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dmarrero/promptdeck-be/internal/api"
	"github.com/dmarrero/promptdeck-be/internal/config"
	"github.com/dmarrero/promptdeck-be/internal/logger"
	"github.com/dmarrero/promptdeck-be/internal/seed"
	"github.com/dmarrero/promptdeck-be/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up the in-memory stores
	userService := services.NewUserService(cfg.BcryptCost)
	sessionService := services.NewSessionService(cfg.SessionTTL)
	projectService := services.NewProjectService()
	chatService := services.NewChatService(projectService)

	if cfg.SeedDemo {
		if err := seed.Demo(userService, projectService); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed demo data")
		}
		log.Info().Msg("Seeded demo user demo@example.com")
	}

	// Set up router
	router := api.NewRouter(userService, sessionService, projectService, chatService, cfg.CORSOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
