package staging

import (
	"context"
	"sync"

	"github.com/cropwise/fieldadvisor/internal/domain/diagnosis"
)

// MemoryStorage keeps staged objects in a map. Used when no bucket is
// configured, typically in dev and tests.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStorage constructs the store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

// Put stores a copy of the data under key.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes the object. Deleting a missing key is not an error.
func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Len reports the number of staged objects.
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

var _ diagnosis.ObjectStorage = (*MemoryStorage)(nil)
