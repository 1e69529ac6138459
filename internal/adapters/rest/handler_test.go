package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cedricxu312/MoodTune/internal/adapters/memory"
	"github.com/cedricxu312/MoodTune/internal/core/domain"
	"github.com/cedricxu312/MoodTune/internal/core/services"
	"github.com/cedricxu312/MoodTune/internal/history"
	"github.com/cedricxu312/MoodTune/internal/worker"
)

const testJWTSecret = "test-secret"

// --- Mocks ---

// The handler depends on the concrete Orchestrator, so tests build a real
// one with mock adapters behind it.

type mockGenerator struct {
	profileJSON string
	profileErr  error
	songsJSON   string
}

func (m *mockGenerator) AnalyzeMood(ctx context.Context, moodText string) (string, error) {
	return m.profileJSON, m.profileErr
}

func (m *mockGenerator) RecommendSongs(ctx context.Context, profile domain.MoodProfile) (string, error) {
	return m.songsJSON, nil
}

type mockCatalog struct {
	tracks []domain.ValidatedTrack
}

func (m *mockCatalog) ValidateTracks(ctx context.Context, candidates domain.CandidateSongMap) ([]domain.ValidatedTrack, error) {
	return m.tracks, nil
}

type mockRepo struct {
	history    []domain.MoodRecord
	historyErr error
	mood       domain.MoodRecord
	moodErr    error
	deleteErr  error

	deletedMoodID int64
	deletedUserID int64
}

func (m *mockRepo) SaveMood(ctx context.Context, mood string, userID *int64) (int64, error) {
	return 1, nil
}

func (m *mockRepo) SaveTrack(ctx context.Context, moodID int64, track domain.ValidatedTrack) error {
	return nil
}

func (m *mockRepo) UserMoodHistory(ctx context.Context, userID int64) ([]domain.MoodRecord, error) {
	return m.history, m.historyErr
}

func (m *mockRepo) MoodByID(ctx context.Context, moodID, userID int64) (domain.MoodRecord, error) {
	return m.mood, m.moodErr
}

func (m *mockRepo) DeleteMood(ctx context.Context, moodID, userID int64) error {
	m.deletedMoodID = moodID
	m.deletedUserID = userID
	return m.deleteErr
}

type mockExporter struct {
	exchangeErr error
	userErr     error
	createErr   error
	addErr      error

	playlist domain.CreatedPlaylist
	added    int

	gotState string
	gotMeta  domain.PlaylistMeta
}

func (m *mockExporter) AuthorizationURL(state string) string {
	m.gotState = state
	return "https://accounts.example/authorize?state=" + state
}

func (m *mockExporter) ExchangeCode(ctx context.Context, code string) (string, error) {
	if m.exchangeErr != nil {
		return "", m.exchangeErr
	}
	return "user-token", nil
}

func (m *mockExporter) CurrentUserID(ctx context.Context, accessToken string) (string, error) {
	if m.userErr != nil {
		return "", m.userErr
	}
	return "spotify-user", nil
}

func (m *mockExporter) CreatePlaylist(ctx context.Context, accessToken, userID string, meta domain.PlaylistMeta) (domain.CreatedPlaylist, error) {
	m.gotMeta = meta
	if m.createErr != nil {
		return domain.CreatedPlaylist{}, m.createErr
	}
	return m.playlist, nil
}

func (m *mockExporter) AddTracks(ctx context.Context, accessToken, playlistID string, tracks []domain.ValidatedTrack) (int, error) {
	if m.addErr != nil {
		return 0, m.addErr
	}
	return m.added, nil
}

type testEnv struct {
	gen      *mockGenerator
	catalog  *mockCatalog
	repo     *mockRepo
	tracker  *history.Tracker
	exporter *mockExporter
	handoff  *memory.HandoffStore
	pool     *worker.Pool
	handler  *Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		gen:      &mockGenerator{},
		catalog:  &mockCatalog{},
		repo:     &mockRepo{},
		tracker:  history.NewTracker(50),
		exporter: &mockExporter{},
		handoff:  memory.NewHandoffStore(time.Minute),
	}
	env.pool = worker.NewPool(env.repo, 10, nil)
	env.pool.Start(1)
	t.Cleanup(env.pool.Stop)

	svc := services.NewOrchestrator(env.gen, env.catalog, env.repo, env.tracker, env.handoff, env.pool, nil)
	env.handler = NewHandler(svc, env.repo, env.tracker, env.exporter, env.handoff, testJWTSecret, nil)
	return env
}

func bearerToken(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doJSON(h http.Handler, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHandler_HealthCheck(t *testing.T) {
	env := newTestEnv(t)
	rec := doJSON(env.handler, http.MethodGet, "/health", nil, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "MoodTune is live") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestHandler_ProcessMood(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		rawBody        string
		noContentType  bool
		profileJSON    string
		profileErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			body:           map[string]string{"mood": "I love NewJeans"},
			profileJSON:    `{"mood": "energized joy", "themes": ["fandom"], "recommended_genres": ["k-pop"], "artist": ["NewJeans"]}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `"exportToken"`,
		},
		{
			name:           "missing mood",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Mood is required",
		},
		{
			name:           "whitespace mood",
			body:           map[string]string{"mood": "   "},
			profileJSON:    `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Mood is required",
		},
		{
			name:           "malformed json",
			rawBody:        `{invalid-json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "missing content type",
			body:           map[string]string{"mood": "calm"},
			noContentType:  true,
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedBody:   "Content-Type must be application/json",
		},
		{
			name:           "generation unavailable",
			body:           map[string]string{"mood": "calm"},
			profileErr:     domain.ErrGenerationUnavailable,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Server error processing mood",
		},
		{
			name:           "malformed generation output",
			body:           map[string]string{"mood": "calm"},
			profileJSON:    "sorry, no json here",
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Server error processing mood",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.gen.profileJSON = tc.profileJSON
			env.gen.profileErr = tc.profileErr
			env.gen.songsJSON = `{"NewJeans": ["Super Shy", "ETA"]}`
			env.catalog.tracks = []domain.ValidatedTrack{
				{Name: "Super Shy", Artist: "NewJeans", CatalogURI: "spotify:track:1"},
				{Name: "ETA", Artist: "NewJeans", CatalogURI: "spotify:track:2"},
			}

			var rec *httptest.ResponseRecorder
			if tc.rawBody != "" {
				req := httptest.NewRequest(http.MethodPost, "/api/mood", strings.NewReader(tc.rawBody))
				req.Header.Set("Content-Type", "application/json")
				rec = httptest.NewRecorder()
				env.handler.ServeHTTP(rec, req)
			} else if tc.noContentType {
				var buf bytes.Buffer
				json.NewEncoder(&buf).Encode(tc.body)
				req := httptest.NewRequest(http.MethodPost, "/api/mood", &buf)
				rec = httptest.NewRecorder()
				env.handler.ServeHTTP(rec, req)
			} else {
				rec = doJSON(env.handler, http.MethodPost, "/api/mood", tc.body, nil)
			}

			if rec.Code != tc.expectedStatus {
				t.Fatalf("status = %d, want %d, body: %s", rec.Code, tc.expectedStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.expectedBody) {
				t.Fatalf("body = %q, want substring %q", rec.Body.String(), tc.expectedBody)
			}
		})
	}
}

func TestHandler_ProcessMood_ResponseShape(t *testing.T) {
	env := newTestEnv(t)
	env.gen.profileJSON = `{"mood": "energized joy", "themes": ["fandom"], "recommended_genres": ["k-pop"], "artist": ["NewJeans"]}`
	env.gen.songsJSON = `{"NewJeans": ["Super Shy", "ETA"]}`
	env.catalog.tracks = []domain.ValidatedTrack{
		{Name: "Super Shy", Artist: "NewJeans", CatalogURI: "spotify:track:1"},
		{Name: "ETA", Artist: "NewJeans", CatalogURI: "spotify:track:2"},
	}

	rec := doJSON(env.handler, http.MethodPost, "/api/mood",
		map[string]string{"mood": "Hit me with some NewJeans songs"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var result domain.MoodResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(result.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(result.Tracks))
	}
	for _, track := range result.Tracks {
		if track.Artist != "NewJeans" {
			t.Fatalf("track artist = %q", track.Artist)
		}
	}
	if !strings.Contains(result.PlaylistMeta.Description, "NewJeans") {
		t.Fatalf("description = %q", result.PlaylistMeta.Description)
	}

	// The export token redeems the exact served payload.
	payload, err := env.handoff.Take(context.Background(), result.ExportToken)
	if err != nil {
		t.Fatalf("take handoff: %v", err)
	}
	if len(payload.Tracks) != 2 {
		t.Fatalf("handoff tracks = %d", len(payload.Tracks))
	}
}

func TestHandler_AuthGatedRoutes(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/history"},
		{http.MethodGet, "/api/mood/1"},
		{http.MethodDelete, "/api/mood/1"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.target, func(t *testing.T) {
			// No token.
			rec := doJSON(env.handler, rt.method, rt.target, nil, nil)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("no token: status = %d, want 401", rec.Code)
			}

			// Token signed with the wrong secret.
			bad := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 1})
			signed, _ := bad.SignedString([]byte("other-secret"))
			rec = doJSON(env.handler, rt.method, rt.target, nil,
				map[string]string{"Authorization": "Bearer " + signed})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("bad token: status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestHandler_MoodHistory(t *testing.T) {
	env := newTestEnv(t)
	env.repo.history = []domain.MoodRecord{
		{ID: 2, Mood: "calm", Tracks: []domain.TrackRecord{{Name: "A", Artist: "X"}}},
		{ID: 1, Mood: "hyped", Tracks: []domain.TrackRecord{}},
	}

	rec := doJSON(env.handler, http.MethodGet, "/api/history", nil,
		map[string]string{"Authorization": "Bearer " + bearerToken(t, 42)})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var records []domain.MoodRecord
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 || records[0].Mood != "calm" {
		t.Fatalf("records = %+v", records)
	}
}

func TestHandler_GetMood(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		moodErr        error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			target:         "/api/mood/3",
			expectedStatus: http.StatusOK,
			expectedBody:   `"mood"`,
		},
		{
			name:           "not found",
			target:         "/api/mood/3",
			moodErr:        domain.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Mood not found",
		},
		{
			name:           "invalid id",
			target:         "/api/mood/abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid mood ID",
		},
		{
			name:           "store failure",
			target:         "/api/mood/3",
			moodErr:        errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Failed to fetch mood",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.repo.mood = domain.MoodRecord{ID: 3, Mood: "calm"}
			env.repo.moodErr = tc.moodErr

			rec := doJSON(env.handler, http.MethodGet, tc.target, nil,
				map[string]string{"Authorization": "Bearer " + bearerToken(t, 42)})
			if rec.Code != tc.expectedStatus {
				t.Fatalf("status = %d, want %d, body: %s", rec.Code, tc.expectedStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.expectedBody) {
				t.Fatalf("body = %q, want substring %q", rec.Body.String(), tc.expectedBody)
			}
		})
	}
}

func TestHandler_DeleteMood(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(env.handler, http.MethodDelete, "/api/mood/5", nil,
		map[string]string{"Authorization": "Bearer " + bearerToken(t, 42)})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if env.repo.deletedMoodID != 5 || env.repo.deletedUserID != 42 {
		t.Fatalf("delete called with mood=%d user=%d", env.repo.deletedMoodID, env.repo.deletedUserID)
	}

	env.repo.deleteErr = domain.ErrNotFound
	rec = doJSON(env.handler, http.MethodDelete, "/api/mood/5", nil,
		map[string]string{"Authorization": "Bearer " + bearerToken(t, 42)})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandler_Stats(t *testing.T) {
	env := newTestEnv(t)
	env.tracker.Record([]domain.ValidatedTrack{{Name: "Song", Artist: "Artist"}})

	rec := doJSON(env.handler, http.MethodGet, "/api/stats", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats history.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalTracks != 1 || stats.TotalArtists != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	rec = doJSON(env.handler, http.MethodPost, "/api/stats/reset", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rec.Code)
	}
	if env.tracker.Stats().TotalTracks != 0 {
		t.Fatal("tracker should be empty after reset")
	}
}

func TestHandler_SpotifyLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(env.handler, http.MethodGet, "/api/spotify/login?token=tok-1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.exporter.gotState != "tok-1" {
		t.Fatalf("state = %q, want the export token", env.exporter.gotState)
	}
	if !strings.Contains(rec.Body.String(), `"url"`) {
		t.Fatalf("body = %q", rec.Body.String())
	}

	rec = doJSON(env.handler, http.MethodGet, "/api/spotify/login", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing token: status = %d, want 400", rec.Code)
	}
}

func TestHandler_SpotifyCallback(t *testing.T) {
	seed := func(t *testing.T, env *testEnv, token string) {
		t.Helper()
		err := env.handoff.Put(context.Background(), token, domain.ExportPayload{
			PlaylistMeta: domain.PlaylistMeta{Name: "MoodTune: test", Description: "desc"},
			Tracks: []domain.ValidatedTrack{
				{Name: "Super Shy", Artist: "NewJeans", CatalogURI: "spotify:track:1"},
			},
		})
		if err != nil {
			t.Fatalf("seed handoff: %v", err)
		}
	}

	t.Run("success", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env, "tok-1")
		env.exporter.playlist = domain.CreatedPlaylist{ID: "pl-1", Name: "MoodTune: test"}
		env.exporter.added = 1

		rec := doJSON(env.handler, http.MethodGet, "/api/spotify/callback?code=abc&state=tok-1", nil, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"tracksAdded":1`) {
			t.Fatalf("body = %q", rec.Body.String())
		}
		if env.exporter.gotMeta.Name != "MoodTune: test" {
			t.Fatalf("playlist meta = %+v", env.exporter.gotMeta)
		}

		// The payload is single-use.
		rec = doJSON(env.handler, http.MethodGet, "/api/spotify/callback?code=abc&state=tok-1", nil, nil)
		if rec.Code != http.StatusGone {
			t.Fatalf("replay status = %d, want 410", rec.Code)
		}
	})

	t.Run("missing params", func(t *testing.T) {
		env := newTestEnv(t)
		rec := doJSON(env.handler, http.MethodGet, "/api/spotify/callback?code=abc", nil, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		env := newTestEnv(t)
		rec := doJSON(env.handler, http.MethodGet, "/api/spotify/callback?code=abc&state=nope", nil, nil)
		if rec.Code != http.StatusGone {
			t.Fatalf("status = %d, want 410", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Generate a playlist first") {
			t.Fatalf("body = %q", rec.Body.String())
		}
	})

	t.Run("exchange failure", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env, "tok-1")
		env.exporter.exchangeErr = fmt.Errorf("invalid code")

		rec := doJSON(env.handler, http.MethodGet, "/api/spotify/callback?code=bad&state=tok-1", nil, nil)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
	})

	t.Run("playlist creation failure", func(t *testing.T) {
		env := newTestEnv(t)
		seed(t, env, "tok-1")
		env.exporter.createErr = fmt.Errorf("api down")

		rec := doJSON(env.handler, http.MethodGet, "/api/spotify/callback?code=abc&state=tok-1", nil, nil)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", rec.Code)
		}
	})
}
