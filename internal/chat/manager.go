package chat

import (
	"log/slog"
	"sync"
)

// Manager hands out one Session per user identifier.
type Manager struct {
	svc AnswerService
	log *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager(svc AnswerService, log *slog.Logger) *Manager {
	return &Manager{
		svc:      svc,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Session returns the existing session for userID, creating one on
// first use.
func (m *Manager) Session(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}
	s := NewSession(userID, m.svc, m.log)
	m.sessions[userID] = s
	return s
}
