package services

import (
	"fmt"
	"strings"
)

// Cutoffs for the canned answer: messages shorter than shortReplyLimit get
// restated in full, longer ones get truncated to summaryLimit characters.
const (
	shortReplyLimit = 40
	summaryLimit    = 120
	maxPromptsUsed  = 3
)

// ChatServiceProvider defines the interface for the simulated chat.
type ChatServiceProvider interface {
	ComposeReply(userID int64, projectID *int64, message string) string
}

// ChatService builds scripted replies from a user's message and, when a
// project is given, that project's most recent prompts. It only ever reads
// from the project store.
type ChatService struct {
	projects ProjectServiceProvider
}

// NewChatService creates a new ChatService.
func NewChatService(projects ProjectServiceProvider) *ChatService {
	return &ChatService{projects: projects}
}

// ComposeReply deterministically renders the reply text. Unknown projects
// and foreign projects are noted in the output rather than failing the
// whole reply.
func (s *ChatService) ComposeReply(userID int64, projectID *int64, message string) string {
	var sb strings.Builder
	sb.WriteString("🤖 Simulated reply:\n")

	if projectID != nil {
		project, ok := s.projects.Get(*projectID)
		switch {
		case !ok:
			fmt.Fprintf(&sb, "Project not found (id=%d). ", *projectID)
		case project.OwnerID != userID:
			sb.WriteString("You are not the owner of the project. ")
		default:
			fmt.Fprintf(&sb, "Project: %s\n", project.Name)
			if len(project.Prompts) > 0 {
				sb.WriteString("Using prompts (most recent first):\n")
				for i := len(project.Prompts) - 1; i >= 0 && i > len(project.Prompts)-1-maxPromptsUsed; i-- {
					fmt.Fprintf(&sb, "- %s\n", project.Prompts[i])
				}
			} else {
				sb.WriteString("(no prompts stored)\n")
			}
		}
	} else {
		sb.WriteString("(no project specified)\n")
	}

	cleaned := strings.TrimSpace(message)
	fmt.Fprintf(&sb, "\nUser message: %s\n", cleaned)

	echo := cleaned
	if echo == "" {
		echo = "..."
	}
	fmt.Fprintf(&sb, "\nAnswer: I heard you say '%s'. ", echo)

	runes := []rune(echo)
	if len(runes) < shortReplyLimit {
		fmt.Fprintf(&sb, "Here's a short suggestion: %s ✅", echo)
	} else {
		if len(runes) > summaryLimit {
			runes = runes[:summaryLimit]
		}
		fmt.Fprintf(&sb, "Summary: %s...", string(runes))
	}

	return sb.String()
}
