package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one authenticated bearer session.
type Session struct {
	Token     string
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

// SessionManager holds bearer sessions in memory. Sessions expire after a
// fixed TTL; expired entries are dropped lazily on lookup and during sweeps.
type SessionManager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewSessionManager creates a manager with the given session lifetime.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create opens a new session for the user and returns it.
func (m *SessionManager) Create(userID int64, email string) *Session {
	session := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: time.Now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[session.Token] = session
	m.mu.Unlock()

	return session
}

// Validate returns the live session for a token, or false if the token is
// unknown or expired.
func (m *SessionManager) Validate(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		delete(m.sessions, token)
		return nil, false
	}
	return session, true
}

// Revoke drops a session. Revoking an unknown token is a no-op.
func (m *SessionManager) Revoke(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Sweep removes all expired sessions and returns how many were dropped.
func (m *SessionManager) Sweep() int {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for token, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, token)
			dropped++
		}
	}
	return dropped
}
