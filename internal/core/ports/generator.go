package ports

import (
	"context"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

// SongGenerator issues natural-language requests to the text-generation
// collaborator and returns its raw text output. The two operations are
// independent; no state is shared between calls.
type SongGenerator interface {
	// AnalyzeMood asks for a mood label, themes, genres and (conditionally)
	// recognized artist names for the given free-text mood.
	AnalyzeMood(ctx context.Context, moodText string) (string, error)

	// RecommendSongs asks for song candidates matching the profile, using
	// an artist-constrained request when the profile names artists.
	RecommendSongs(ctx context.Context, profile domain.MoodProfile) (string, error)
}
