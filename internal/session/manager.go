package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/snonux/proncoach/internal"
)

// Manager keeps sessions in memory and expires idle ones
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a session manager. Sessions untouched for longer than
// ttl are removed by Sweep; a zero ttl keeps them forever.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new session
func (m *Manager) Create() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := internal.GenerateSessionID()
	for m.sessions[id] != nil {
		id = internal.GenerateSessionID()
	}

	s := New(id, m.now())
	m.sessions[id] = s
	return *s
}

// Get returns a snapshot of the session
func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return snapshot(s), nil
}

// Update applies fn to the session under the manager lock. Changes made by a
// failing fn are discarded.
func (m *Manager) Update(id string, fn func(*Session) error) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	working := snapshot(s)
	if err := fn(&working); err != nil {
		return snapshot(s), err
	}
	working.UpdatedAt = m.now()
	*s = working
	return snapshot(s), nil
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes expired sessions and returns how many were removed
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func snapshot(s *Session) Session {
	c := *s
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	return c
}
