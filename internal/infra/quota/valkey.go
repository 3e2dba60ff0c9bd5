package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/cropwise/fieldadvisor/internal/domain/diagnosis"
)

// ValkeyStore counts demo-session scans in a Valkey-compatible database.
// The counter key expires with the session TTL so quotas reset on their own.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs the store.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "diagquota"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Increment bumps the session counter, creating it with ttl when absent,
// and returns the new count.
func (s *ValkeyStore) Increment(ctx context.Context, sessionID string, ttl time.Duration) (int, error) {
	key := s.sessionKey(sessionID)
	count, err := s.client.Do(ctx, s.client.B().Incr().Key(key).Build()).AsInt64()
	if err != nil {
		return 0, err
	}
	if count == 1 && ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		if err := s.client.Do(ctx, s.client.B().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build()).Error(); err != nil {
			return int(count), err
		}
	}
	return int(count), nil
}

func (s *ValkeyStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, sessionID)
}

var _ diagnosis.QuotaStore = (*ValkeyStore)(nil)
