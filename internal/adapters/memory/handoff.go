// Package memory provides the in-process handoff store used when no Redis
// is configured. Entries expire; a single-process deployment needs nothing
// more durable, since export payloads only live between a mood request and
// its (optional) playlist export.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
	"github.com/cedricxu312/MoodTune/internal/core/ports"
)

type entry struct {
	payload   domain.ExportPayload
	expiresAt time.Time
}

// HandoffStore is a mutex-guarded map of export payloads with TTL.
type HandoffStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

var _ ports.HandoffStore = (*HandoffStore)(nil)

// NewHandoffStore creates a store whose entries expire after ttl.
func NewHandoffStore(ttl time.Duration) *HandoffStore {
	return &HandoffStore{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *HandoffStore) Put(_ context.Context, token string, payload domain.ExportPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}

	s.entries[token] = entry{payload: payload, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *HandoffStore) Take(_ context.Context, token string) (domain.ExportPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return domain.ExportPayload{}, domain.ErrNotFound
	}
	delete(s.entries, token)

	if s.now().After(e.expiresAt) {
		return domain.ExportPayload{}, domain.ErrNotFound
	}
	return e.payload, nil
}
