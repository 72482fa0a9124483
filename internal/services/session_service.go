package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmarrero/promptdeck-be/internal/models"
)

// SessionServiceProvider defines the interface for session services.
type SessionServiceProvider interface {
	Issue(userID int64) string
	Resolve(token string) (int64, bool)
	Revoke(token string)
}

// SessionService maps opaque bearer tokens to users. Tokens are random
// UUIDs, so collisions are not handled and callers get at most one session
// per Issue call.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService creates a new SessionService. ttl bounds the lifetime of
// issued tokens; zero means sessions never expire.
func NewSessionService(ttl time.Duration) *SessionService {
	return &SessionService{
		sessions: make(map[string]models.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates a session for the given user and returns its token.
func (s *SessionService) Issue(userID int64) string {
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session.Token
}

// Resolve returns the user id behind a token. It reports false for unknown,
// revoked, or expired tokens; it never fails.
func (s *SessionService) Resolve(token string) (int64, bool) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return 0, false
	}
	if s.ttl > 0 && s.now().Sub(session.CreatedAt) > s.ttl {
		s.Revoke(token)
		return 0, false
	}
	return session.UserID, true
}

// Revoke deletes a session. Revoking an unknown or already-revoked token is
// a no-op.
func (s *SessionService) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
