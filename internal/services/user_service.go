package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmarrero/promptdeck-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(email, password, name string) (models.User, error)
	Authenticate(email, password string) (int64, error)
	GetByID(id int64) (models.User, bool)
}

// UserService holds all user accounts in memory, indexed by id and by
// normalized email.
type UserService struct {
	mu         sync.RWMutex
	users      map[int64]models.User
	emailIndex map[string]int64
	nextID     int64
	bcryptCost int
}

// NewUserService creates a new UserService. cost is the bcrypt work factor;
// pass bcrypt.DefaultCost unless tests need a cheaper one.
func NewUserService(cost int) *UserService {
	return &UserService{
		users:      make(map[int64]models.User),
		emailIndex: make(map[string]int64),
		nextID:     1,
		bcryptCost: cost,
	}
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Uniqueness and lookups operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account with a bcrypt-hashed password. The user
// record and the email index are written under one lock so two concurrent
// registrations can never claim the same address.
func (s *UserService) Register(email, password, name string) (models.User, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emailIndex[normalized]; taken {
		return models.User{}, fmt.Errorf("%w: %s", ErrDuplicateEmail, normalized)
	}

	user := models.User{
		ID:           s.nextID,
		Email:        normalized,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	s.nextID++
	s.users[user.ID] = user
	s.emailIndex[normalized] = user.ID

	return user, nil
}

// Authenticate verifies a user's credentials and returns their id. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(email, password string) (int64, error) {
	s.mu.RLock()
	id, ok := s.emailIndex[NormalizeEmail(email)]
	user := s.users[id]
	s.mu.RUnlock()

	if !ok {
		return 0, fmt.Errorf("%w: unknown email", ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, fmt.Errorf("%w: password mismatch", ErrInvalidCredentials)
	}
	return user.ID, nil
}

// GetByID retrieves a single user by their id.
func (s *UserService) GetByID(id int64) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	return user, ok
}
