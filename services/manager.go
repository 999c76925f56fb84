package services

import (
	"sync"

	"github.com/google/uuid"
)

// SessionManager holds the live, uncommitted sessions keyed by tournament
// id. Each session is owned exclusively by whoever drives it; the manager
// only hands out references and never touches session state itself.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*TournamentSession
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*TournamentSession),
	}
}

// Add registers a session under a fresh tournament id and returns the id.
func (m *SessionManager) Add(session *TournamentSession) string {
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = session
	return id
}

func (m *SessionManager) Get(id string) (*TournamentSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Remove drops a live session. A removed session that was never finished
// simply never commits, which is the supported way to discard a
// tournament without persisting anything.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
