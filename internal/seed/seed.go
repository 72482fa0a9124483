package seed

import (
	"fmt"

	"github.com/dmarrero/promptdeck-be/internal/services"
)

// Demo populates the stores with the stock demo account and project so the
// API is usable straight after startup. Intended for a fresh process; it
// fails if the demo email is already taken.
func Demo(users services.UserServiceProvider, projects services.ProjectServiceProvider) error {
	user, err := users.Register("demo@example.com", "demo123", "Demo User")
	if err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}

	project, err := projects.Create(user.ID, "Demo Project")
	if err != nil {
		return fmt.Errorf("seeding demo project: %w", err)
	}

	for _, prompt := range []string{
		"You are a helpful assistant.",
		"When asked, provide concise examples.",
	} {
		if _, err := projects.AddPrompt(project.ID, user.ID, prompt); err != nil {
			return fmt.Errorf("seeding demo prompt: %w", err)
		}
	}

	return nil
}
