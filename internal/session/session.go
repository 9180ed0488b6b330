// Package session holds per-user interactive state in memory: the last
// fetched image, the last generated caption, nothing else. State lives
// only for the session's lifetime; a fresh fetch overwrites the image,
// and a stale image may be reused across generation attempts.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ringpost/ringpost/internal/model"
)

type Session struct {
	ID        string
	Image     *model.ImageAsset
	Caption   string
	CreatedAt time.Time
}

// Manager is an in-memory session store with TTL-based eviction.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewManager(ttl time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}

	// Sweep expired sessions to prevent unbounded growth
	go m.sweepLoop()

	return m
}

// Create starts a new session and returns a snapshot of it.
func (m *Manager) Create() *Session {
	s := Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}

	stored := s
	m.mu.Lock()
	m.sessions[s.ID] = &stored
	m.mu.Unlock()

	return &s
}

// Get returns a snapshot of the session for id, or nil when unknown or
// expired. Callers read the snapshot freely; all writes go through the
// manager so concurrent requests for one session never share fields.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	s := m.sessions[id]
	var snapshot *Session
	if s != nil {
		copied := *s
		snapshot = &copied
	}
	m.mu.RUnlock()

	if snapshot == nil {
		return nil
	}
	if time.Since(snapshot.CreatedAt) > m.ttl {
		m.Delete(id)
		return nil
	}
	return snapshot
}

// SetImage replaces the session's image and clears the previous caption,
// since it described the old image.
func (m *Manager) SetImage(id string, asset *model.ImageAsset) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sessions[id]
	if s == nil {
		return
	}
	s.Image = asset
	s.Caption = ""
}

// SetCaption stores the generated caption on the session.
func (m *Manager) SetCaption(id, caption string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sessions[id]
	if s == nil {
		return
	}
	s.Caption = caption
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-m.ttl)

		m.mu.Lock()
		for id, s := range m.sessions {
			if s.CreatedAt.Before(cutoff) {
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}
