package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

var exportScopes = []string{
	"playlist-modify-private",
	"playlist-modify-public",
	"user-read-private",
	"user-read-email",
}

// AuthorizationURL builds the user-consent URL for the export flow. The
// state value is round-tripped by the callback and carries the handoff token.
func (c *Client) AuthorizationURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {c.clientID},
		"scope":         {strings.Join(exportScopes, " ")},
		"redirect_uri":  {c.redirectURI},
		"state":         {state},
	}
	return c.accountsBaseURL + "/authorize?" + params.Encode()
}

// ExchangeCode trades an authorization code for a user access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	conf := &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  c.redirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.accountsBaseURL + "/api/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	tok, err := conf.Exchange(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), code)
	if err != nil {
		return "", fmt.Errorf("spotify: code exchange: %w", err)
	}

	return tok.AccessToken, nil
}

// CurrentUserID returns the catalog user id for the authorized token.
func (c *Client) CurrentUserID(ctx context.Context, accessToken string) (string, error) {
	var profile userProfile
	if err := c.doJSON(ctx, http.MethodGet, c.apiBaseURL+"/me", accessToken, nil, &profile); err != nil {
		return "", err
	}
	return profile.ID, nil
}

// CreatePlaylist creates a private playlist named and described by meta.
func (c *Client) CreatePlaylist(ctx context.Context, accessToken, userID string, meta domain.PlaylistMeta) (domain.CreatedPlaylist, error) {
	body := createPlaylistRequest{
		Name:        meta.Name,
		Description: meta.Description,
		Public:      false,
	}

	var created playlistResponse
	endpoint := fmt.Sprintf("%s/users/%s/playlists", c.apiBaseURL, url.PathEscape(userID))
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, body, &created); err != nil {
		return domain.CreatedPlaylist{}, err
	}

	return domain.CreatedPlaylist{
		ID:   created.ID,
		Name: created.Name,
		URL:  created.ExternalURLs.Spotify,
	}, nil
}

// AddTracks adds the unique catalog URIs of tracks to the playlist.
// Tracks without a URI are dropped; an empty set is a logged no-op.
func (c *Client) AddTracks(ctx context.Context, accessToken, playlistID string, tracks []domain.ValidatedTrack) (int, error) {
	seen := make(map[string]struct{}, len(tracks))
	uris := make([]string, 0, len(tracks))
	for _, track := range tracks {
		if track.CatalogURI == "" {
			continue
		}
		if _, dup := seen[track.CatalogURI]; dup {
			continue
		}
		seen[track.CatalogURI] = struct{}{}
		uris = append(uris, track.CatalogURI)
	}

	if len(uris) == 0 {
		c.log.Warn("spotify: no valid track uris to add", zap.String("playlist", playlistID))
		return 0, nil
	}

	endpoint := fmt.Sprintf("%s/playlists/%s/tracks", c.apiBaseURL, url.PathEscape(playlistID))
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, addTracksRequest{URIs: uris}, nil); err != nil {
		return 0, err
	}

	return len(uris), nil
}

// doJSON performs one authorized JSON round trip. out may be nil when the
// response body is irrelevant.
func (c *Client) doJSON(ctx context.Context, method, endpoint, accessToken string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("spotify: marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("spotify: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("spotify: status %d for %s %s", resp.StatusCode, method, endpoint)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify: decode response: %w", err)
	}
	return nil
}
