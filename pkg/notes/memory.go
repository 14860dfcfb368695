package notes

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps notes in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	notes map[string]*Note
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{notes: make(map[string]*Note), now: time.Now}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return n.clone(), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Note, error) {
	s.mu.RLock()
	out := make([]*Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n.clone())
	}
	s.mu.RUnlock()
	sortNewest(out)
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, n *Note) (*Note, error) {
	stored, err := prepare(n, s.now())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[stored.ID]; ok {
		return nil, ErrExists
	}
	s.notes[stored.ID] = stored
	return stored.clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, p Patch) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := n.clone()
	if err := updated.apply(p, s.now()); err != nil {
		return nil, err
	}
	s.notes[id] = updated
	return updated.clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
