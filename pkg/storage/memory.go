package storage

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps diagrams in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Diagram
	now   func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Diagram), now: time.Now}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, d *Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.items[d.ID]; ok && d.ID != "" && d.CreatedAt.IsZero() {
		d.CreatedAt = old.CreatedAt
	}
	prepare(d, s.now())
	cp := *d
	s.items[d.ID] = &cp
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.items[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *d
	return &cp, nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Diagram, error) {
	s.mu.RLock()
	out := make([]*Diagram, 0, len(s.items))
	for _, d := range s.items {
		cp := *d
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Diagram) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return notFound(id)
	}
	delete(s.items, id)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
