// apps/go-server/internal/store/memory.go
//
// In-memory registry of live play sessions.
// Live sessions own a goroutine and timers, so they cannot be persisted;
// only their outcomes reach the database, through the pipeline.
//
// Characteristics:
//   - Sessions keyed by their uuid.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Delete and Sweep close what they remove, so no timer outlives its entry.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/softskill/apps/go-server/internal/play"
)

// ErrNotFound is returned by Get for an unknown session id.
var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for live sessions.
type Store interface {
	// Save registers or replaces a session.
	Save(ctx context.Context, s *play.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*play.Session, error)

	// Delete closes and forgets a session. Unknown ids are ignored.
	Delete(ctx context.Context, id string)

	// Sweep closes sessions created before the cutoff and returns how many.
	Sweep(cutoff time.Time) int

	// CloseAll closes every session; used at shutdown.
	CloseAll()

	// Len reports the number of registered sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions map
	sessions map[string]*play.Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*play.Session)}
}

func (m *memory) Save(_ context.Context, s *play.Session) error {
	m.mu.Lock()
	prev := m.sessions[s.ID]
	m.sessions[s.ID] = s
	m.mu.Unlock()
	if prev != nil && prev != s {
		prev.Close()
	}
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*play.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

func (m *memory) Sweep(cutoff time.Time) int {
	var stale []*play.Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	// Close outside the lock: Close waits for the session loop.
	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

func (m *memory) CloseAll() {
	m.Sweep(time.Now().Add(time.Hour))
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
