// Package redis provides a Redis-backed handoff store so export payloads
// survive across processes behind a load balancer.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
	"github.com/cedricxu312/MoodTune/internal/core/ports"
)

const keyPrefix = "moodtune:handoff:"

// HandoffStore stores JSON-encoded export payloads under TTL'd keys.
type HandoffStore struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ ports.HandoffStore = (*HandoffStore)(nil)

// NewHandoffStore wraps an existing Redis client.
func NewHandoffStore(client *goredis.Client, ttl time.Duration) *HandoffStore {
	return &HandoffStore{client: client, ttl: ttl}
}

func (s *HandoffStore) Put(ctx context.Context, token string, payload domain.ExportPayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("redis: marshal export payload: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+token, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: store export payload: %w", err)
	}
	return nil
}

func (s *HandoffStore) Take(ctx context.Context, token string) (domain.ExportPayload, error) {
	raw, err := s.client.GetDel(ctx, keyPrefix+token).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.ExportPayload{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ExportPayload{}, fmt.Errorf("redis: load export payload: %w", err)
	}

	var payload domain.ExportPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.ExportPayload{}, fmt.Errorf("redis: decode export payload: %w", err)
	}
	return payload, nil
}
