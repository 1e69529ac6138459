package ports

import (
	"context"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

// HandoffStore holds export payloads between the mood-processing flow and
// the playlist-export flow, keyed by a short-lived token. Entries expire;
// Take removes the entry so a token is good for one export.
type HandoffStore interface {
	Put(ctx context.Context, token string, payload domain.ExportPayload) error

	// Take returns and removes the payload for token, or domain.ErrNotFound
	// when the token is unknown or expired.
	Take(ctx context.Context, token string) (domain.ExportPayload, error)
}
