package ports

import (
	"context"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

// MoodRepository persists moods and their recommended tracks.
// Moods may belong to a user or be anonymous (nil userID).
type MoodRepository interface {
	SaveMood(ctx context.Context, mood string, userID *int64) (int64, error)
	SaveTrack(ctx context.Context, moodID int64, track domain.ValidatedTrack) error

	// UserMoodHistory returns a user's moods, newest first, each with its tracks.
	UserMoodHistory(ctx context.Context, userID int64) ([]domain.MoodRecord, error)

	// MoodByID returns a mood owned by userID, or domain.ErrNotFound.
	MoodByID(ctx context.Context, moodID, userID int64) (domain.MoodRecord, error)

	// DeleteMood removes a mood and its tracks. Returns domain.ErrNotFound
	// when the mood does not exist or belongs to another user.
	DeleteMood(ctx context.Context, moodID, userID int64) error
}
