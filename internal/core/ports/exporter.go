package ports

import (
	"context"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

// PlaylistExporter drives the user-authorized playlist-export flow against
// the external catalog: authorization-code exchange, playlist creation and
// track insertion.
type PlaylistExporter interface {
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	CurrentUserID(ctx context.Context, accessToken string) (string, error)
	CreatePlaylist(ctx context.Context, accessToken, userID string, meta domain.PlaylistMeta) (domain.CreatedPlaylist, error)

	// AddTracks adds the unique catalog URIs of tracks to the playlist and
	// returns how many were sent.
	AddTracks(ctx context.Context, accessToken, playlistID string, tracks []domain.ValidatedTrack) (int, error)
}
