// Package spotify provides the music-catalog adapter: candidate validation
// via track search with an application token, and the user-authorized
// playlist-export operations.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
	"github.com/cedricxu312/MoodTune/internal/core/ports"
)

const (
	defaultAPIBaseURL      = "https://api.spotify.com/v1"
	defaultAccountsBaseURL = "https://accounts.spotify.com"
)

// Config carries credentials and endpoint overrides for the adapter.
// Base URLs default to the public Spotify endpoints.
type Config struct {
	ClientID        string
	ClientSecret    string
	RedirectURI     string
	APIBaseURL      string
	AccountsBaseURL string
}

// Client talks to the Spotify Web API.
type Client struct {
	httpClient      *http.Client
	apiBaseURL      string
	accountsBaseURL string
	clientID        string
	clientSecret    string
	redirectURI     string
	log             *zap.Logger

	mu           sync.Mutex
	bearerToken  string
	bearerExpiry time.Time
}

var (
	_ ports.TrackCatalog     = (*Client)(nil)
	_ ports.PlaylistExporter = (*Client)(nil)
)

// NewClient constructs a catalog client.
func NewClient(httpClient *http.Client, cfg Config, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	api := cfg.APIBaseURL
	if api == "" {
		api = defaultAPIBaseURL
	}
	accounts := cfg.AccountsBaseURL
	if accounts == "" {
		accounts = defaultAccountsBaseURL
	}
	return &Client{
		httpClient:      httpClient,
		apiBaseURL:      strings.TrimRight(api, "/"),
		accountsBaseURL: strings.TrimRight(accounts, "/"),
		clientID:        cfg.ClientID,
		clientSecret:    cfg.ClientSecret,
		redirectURI:     cfg.RedirectURI,
		log:             log,
	}
}

// ValidateTracks confirms every (artist, title) candidate against the
// catalog. Each pair is looked up once; misses and individual lookup
// failures are logged and skipped. Pairs resolving to an already-seen
// catalog entry are dropped so the result holds one track per catalog URI.
func (c *Client) ValidateTracks(ctx context.Context, candidates domain.CandidateSongMap) ([]domain.ValidatedTrack, error) {
	token, err := c.bearer(ctx)
	if err != nil {
		return nil, err
	}

	tracks := make([]domain.ValidatedTrack, 0, candidates.Pairs())
	seen := make(map[string]struct{})

	for _, artist := range candidates.Artists() {
		for _, title := range candidates.Titles(artist) {
			st, found, err := c.searchTrack(ctx, token, title, artist)
			if err != nil {
				c.log.Warn("spotify: track lookup failed",
					zap.String("artist", artist), zap.String("title", title), zap.Error(err))
				continue
			}
			if !found {
				c.log.Info("spotify: track not found",
					zap.String("artist", artist), zap.String("title", title))
				continue
			}
			if _, dup := seen[st.URI]; dup {
				continue
			}
			seen[st.URI] = struct{}{}
			tracks = append(tracks, mapTrackToDomain(st))
		}
	}

	return tracks, nil
}

// searchTrack queries the catalog for the single best match of a pair.
// The first result, when present, is authoritative.
func (c *Client) searchTrack(ctx context.Context, token, title, artist string) (spotifyTrack, bool, error) {
	searchURL, err := url.Parse(c.apiBaseURL + "/search")
	if err != nil {
		return spotifyTrack{}, false, fmt.Errorf("spotify: invalid search url: %w", err)
	}

	query := searchURL.Query()
	query.Set("q", fmt.Sprintf("track:%s artist:%s", title, artist))
	query.Set("type", "track")
	query.Set("limit", "1")
	searchURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return spotifyTrack{}, false, fmt.Errorf("spotify: build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return spotifyTrack{}, false, fmt.Errorf("spotify: search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return spotifyTrack{}, false, fmt.Errorf("spotify: search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return spotifyTrack{}, false, fmt.Errorf("spotify: search decode: %w", err)
	}

	if len(body.Tracks.Items) == 0 {
		return spotifyTrack{}, false, nil
	}

	return body.Tracks.Items[0], true, nil
}
