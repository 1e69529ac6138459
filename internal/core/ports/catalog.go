package ports

import (
	"context"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

// TrackCatalog confirms candidate songs against the external music catalog.
// Implementations return only confirmed, enriched tracks; candidates that
// cannot be found (or whose individual lookups fail) are skipped silently.
type TrackCatalog interface {
	ValidateTracks(ctx context.Context, candidates domain.CandidateSongMap) ([]domain.ValidatedTrack, error)
}
