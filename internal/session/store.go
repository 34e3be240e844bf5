package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"booking-assistant/internal/domain/entity"
)

// ErrSessionNotFound is returned by Get for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Store persists ConversationState between turns. The orchestrator itself
// is stateless; whichever transport drives it owns session persistence.
type Store interface {
	Get(ctx context.Context, id string) (*entity.ConversationState, error)
	Put(ctx context.Context, id string, state *entity.ConversationState) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	state     *entity.ConversationState
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory with lazy TTL expiry.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*entity.ConversationState, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		if ok {
			s.mu.Lock()
			delete(s.sessions, id)
			s.mu.Unlock()
		}
		return nil, ErrSessionNotFound
	}
	// Clones on both Put and Get keep callers from aliasing the stored
	// state across turns.
	return entry.state.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, id string, state *entity.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memoryEntry{
		state:     state.Clone(),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
