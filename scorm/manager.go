package scorm

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for operations against an unknown or
// already-closed session ID.
var ErrSessionNotFound = errors.New("scorm: session not found")

// SeedState carries the persisted enrollment state a new session resumes from
type SeedState struct {
	ScormData       map[string]string
	Progress        int
	CurrentLocation string
	SuspendData     string
}

// Manager owns the live bridge sessions, one per open course player. A
// session exists only between player open and player close; nothing outlives
// the player, so a later-opened surface can never see a stale bridge.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	flusher  Flusher
}

func NewManager(flusher Flusher) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		flusher:  flusher,
	}
}

// Open creates a session for one player instance, seeded from the
// enrollment's persisted working state when the user has one. The stored
// bookmark and suspend data are informational here: content is expected to
// re-read them itself via GetValue, which the seeded working state serves.
func (m *Manager) Open(userID, courseID string, seed SeedState) *Session {
	session := NewSession(uuid.NewString(), userID, courseID, seed.ScormData, seed.Progress, m.flusher)

	if seed.CurrentLocation != "" || seed.SuspendData != "" {
		log.Printf("[SCORM-RTE] Resuming course %s for user %s (location=%q, %d bytes suspend data)",
			courseID, userID, seed.CurrentLocation, len(seed.SuspendData))
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session
}

// Get looks up a live session by ID
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Call dispatches an RTE operation to a live session
func (m *Manager) Call(id, op, key, value string) (string, error) {
	session, ok := m.Get(id)
	if !ok {
		return "", ErrSessionNotFound
	}
	result, known := session.Call(op, key, value)
	if !known {
		return "", errors.New("scorm: unknown operation " + op)
	}
	return result, nil
}

// Close removes the session and performs its final flush. Closing is the
// only cancellation path and it always resolves with one last best-effort
// flush rather than an abort.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.Close()
	return nil
}

// Count reports the number of live sessions
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
