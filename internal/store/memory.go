// internal/store/memory.go
//
// In-memory session store. Active games are ephemeral: they live for the
// duration of play and survive only as rows in the games table once
// finished. The store also serializes access so one session processes one
// input event at a time, matching the engine's single-writer contract.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/gridle-game/gridle/internal/game"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store is the persistence interface for active sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *game.Session) error
	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)
	// With runs fn holding the session's event lock, so input events on one
	// session are applied one at a time even under concurrent requests.
	With(ctx context.Context, id string, fn func(*game.Session) error) error
	// Delete removes a session. Unknown IDs are a no-op.
	Delete(ctx context.Context, id string) error
}

type entry struct {
	sess *game.Session
	mu   sync.Mutex // serializes input events for this session
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry)}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[s.ID()]; ok {
		e.sess = s
		return nil
	}
	m.sessions[s.ID()] = &entry{sess: s}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e.sess, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) With(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}
