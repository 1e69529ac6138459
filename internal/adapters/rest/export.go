package rest

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

// SpotifyLogin handles GET /api/spotify/login. The export token issued with
// a mood result rides along as the OAuth state parameter so the callback can
// recover the pending playlist.
func (h *Handler) SpotifyLogin(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "Export token is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": h.exporter.AuthorizationURL(token)})
}

// SpotifyCallback handles GET /api/spotify/callback. It redeems the
// authorization code, claims the pending export payload and creates the
// playlist on the authorizing user's account.
func (h *Handler) SpotifyCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		writeError(w, http.StatusBadRequest, "Missing code or state")
		return
	}

	ctx := r.Context()

	payload, err := h.handoff.Take(ctx, state)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusGone, "No playlist data found. Generate a playlist first!")
		return
	}
	if err != nil {
		h.log.Error("rest: failed to claim export payload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to export playlist")
		return
	}

	accessToken, err := h.exporter.ExchangeCode(ctx, code)
	if err != nil {
		h.log.Error("rest: authorization code exchange failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Spotify authorization failed")
		return
	}

	spotifyUserID, err := h.exporter.CurrentUserID(ctx, accessToken)
	if err != nil {
		h.log.Error("rest: failed to resolve spotify user", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to export playlist")
		return
	}

	playlist, err := h.exporter.CreatePlaylist(ctx, accessToken, spotifyUserID, payload.PlaylistMeta)
	if err != nil {
		h.log.Error("rest: playlist creation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to export playlist")
		return
	}

	added, err := h.exporter.AddTracks(ctx, accessToken, playlist.ID, payload.Tracks)
	if err != nil {
		h.log.Error("rest: failed to add tracks",
			zap.String("playlist_id", playlist.ID),
			zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to export playlist")
		return
	}

	h.log.Info("rest: playlist exported",
		zap.String("playlist_id", playlist.ID),
		zap.Int("tracks_added", added))

	writeJSON(w, http.StatusCreated, map[string]any{
		"playlist":    playlist,
		"tracksAdded": added,
	})
}
