package session

import (
	"log/slog"
	"sync"

	"github.com/ugaemi/wantedsim-server/internal/config"
)

// Manager owns every live session.
type Manager struct {
	scenario *config.Scenario
	deps     Deps

	sessions map[string]*Session // code -> session
	mu       sync.RWMutex
}

// NewManager creates a manager whose sessions are built from sc.
func NewManager(sc *config.Scenario, deps Deps) *Manager {
	return &Manager{
		scenario: sc,
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// CreateSession creates and starts a session under a fresh code.
func (m *Manager) CreateSession() *Session {
	m.mu.Lock()
	code := GenerateCode(func(c string) bool {
		_, ok := m.sessions[c]
		return ok
	})
	s := NewSession(code, m.scenario, m.deps)
	m.sessions[code] = s
	m.mu.Unlock()

	s.Start()
	slog.Info("session created", "session", code)
	return s
}

// GetSession returns a session by code, or nil.
func (m *Manager) GetSession(code string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[code]
}

// RemoveSession stops and forgets a session.
func (m *Manager) RemoveSession(code string) {
	m.mu.Lock()
	s, ok := m.sessions[code]
	delete(m.sessions, code)
	m.mu.Unlock()

	if ok {
		s.Stop()
		slog.Info("session removed", "session", code)
	}
}

func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// FindSessionByClient returns the session a client observes, or nil.
func (m *Manager) FindSessionByClient(clientID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.HasObserver(clientID) {
			return s
		}
	}
	return nil
}

// Shutdown stops every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.Stop()
	}
}
