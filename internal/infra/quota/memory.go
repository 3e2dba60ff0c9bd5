package quota

import (
	"context"
	"sync"
	"time"

	"github.com/cropwise/fieldadvisor/internal/domain/diagnosis"
)

type counter struct {
	count     int
	expiresAt time.Time
}

// MemoryStore keeps demo scan counters in memory. Counters lapse lazily
// on the next increment after their TTL.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]counter
	now      func() time.Time
}

// NewMemoryStore constructs the store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: make(map[string]counter),
		now:      time.Now,
	}
}

// Increment bumps the session counter and returns the new count.
func (s *MemoryStore) Increment(_ context.Context, sessionID string, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	c, ok := s.counters[sessionID]
	if !ok || now.After(c.expiresAt) {
		c = counter{count: 0, expiresAt: now.Add(ttl)}
	}
	c.count++
	s.counters[sessionID] = c
	return c.count, nil
}

var _ diagnosis.QuotaStore = (*MemoryStore)(nil)
