package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned by a Store for unknown or expired IDs.
var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions between requests.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a random session identifier.
func NewID() string { return uuid.NewString() }

type memEntry struct {
	s   *Session
	exp time.Time
}

// MemoryStore keeps sessions in process memory.  It is used when Redis is
// not configured or unreachable, and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore returns a MemoryStore whose entries expire ttl after
// their last Save.  A zero ttl keeps entries forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{items: make(map[string]memEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	e, ok := m.items[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !e.exp.IsZero() && m.now().After(e.exp) {
		m.mu.Lock()
		delete(m.items, id)
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return e.s.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	var exp time.Time
	if m.ttl > 0 {
		exp = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.items[s.ID] = memEntry{s: s.Clone(), exp: exp}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}
