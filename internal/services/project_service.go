package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dmarrero/promptdeck-be/internal/models"
)

// ProjectServiceProvider defines the interface for project services.
type ProjectServiceProvider interface {
	Create(ownerID int64, name string) (models.Project, error)
	ListByOwner(ownerID int64) []models.Project
	AddPrompt(projectID, requesterID int64, prompt string) ([]string, error)
	Get(projectID int64) (models.Project, bool)
}

// ProjectService holds all projects and their prompt sequences in memory.
// The store owns the canonical prompt slices; everything handed out is a
// copy.
type ProjectService struct {
	mu       sync.RWMutex
	projects map[int64]models.Project
	nextID   int64
}

// NewProjectService creates a new ProjectService.
func NewProjectService() *ProjectService {
	return &ProjectService{
		projects: make(map[int64]models.Project),
		nextID:   1,
	}
}

// Create adds a project owned by the given user, starting with no prompts.
func (s *ProjectService) Create(ownerID int64, name string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, fmt.Errorf("%w: project name required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	project := models.Project{
		ID:      s.nextID,
		OwnerID: ownerID,
		Name:    name,
		Prompts: []string{},
	}
	s.nextID++
	s.projects[project.ID] = project

	return cloneProject(project), nil
}

// ListByOwner returns every project owned by the given user, sorted by id.
func (s *ProjectService) ListByOwner(ownerID int64) []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []models.Project{}
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			list = append(list, cloneProject(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// AddPrompt appends a prompt to a project and returns the updated sequence.
// Only the owner may append; the check is separate from authentication so
// callers can distinguish 403 from 401. Failed calls never mutate the
// sequence.
func (s *ProjectService) AddPrompt(projectID, requesterID int64, prompt string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if project.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: user %d does not own project %d", ErrForbidden, requesterID, projectID)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt required", ErrInvalidInput)
	}

	project.Prompts = append(project.Prompts, prompt)
	s.projects[projectID] = project

	out := make([]string, len(project.Prompts))
	copy(out, project.Prompts)
	return out, nil
}

// Get retrieves a single project by its id.
func (s *ProjectService) Get(projectID int64) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[projectID]
	if !ok {
		return models.Project{}, false
	}
	return cloneProject(project), true
}

func cloneProject(p models.Project) models.Project {
	prompts := make([]string, len(p.Prompts))
	copy(prompts, p.Prompts)
	p.Prompts = prompts
	return p
}
