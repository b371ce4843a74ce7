package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/lama/pkg/domain"
)

// Store implements ports.MaterialStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Material
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store, optionally seeded with materials.
func NewStore(seed ...domain.Material) *Store {
	s := &Store{
		data: make(map[string]domain.Material, len(seed)),
	}
	for _, m := range seed {
		s.data[m.Common().Name] = m
	}
	return s
}

// Save persists the material in memory. Materials are value types, so the
// stored copy is isolated from the caller.
func (s *Store) Save(ctx context.Context, m domain.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[m.Common().Name] = m
	return nil
}

// Load retrieves the material from memory.
func (s *Store) Load(ctx context.Context, name string) (domain.Material, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.data[name]
	if !ok {
		return nil, domain.ErrMaterialNotFound
	}
	return m, nil
}

// Delete removes the material.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
