// Package rest exposes the HTTP surface: mood processing, mood history,
// the history-tracker debug endpoints and the playlist-export flow.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cedricxu312/MoodTune/internal/core/ports"
	"github.com/cedricxu312/MoodTune/internal/core/services"
	"github.com/cedricxu312/MoodTune/internal/history"
)

// Handler manages the HTTP interface.
type Handler struct {
	svc       *services.Orchestrator
	repo      ports.MoodRepository
	tracker   *history.Tracker
	exporter  ports.PlaylistExporter
	handoff   ports.HandoffStore
	jwtSecret []byte
	log       *zap.Logger
	router    chi.Router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(
	svc *services.Orchestrator,
	repo ports.MoodRepository,
	tracker *history.Tracker,
	exporter ports.PlaylistExporter,
	handoff ports.HandoffStore,
	jwtSecret string,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{
		svc:       svc,
		repo:      repo,
		tracker:   tracker,
		exporter:  exporter,
		handoff:   handoff,
		jwtSecret: []byte(jwtSecret),
		log:       log,
		router:    chi.NewRouter(),
	}
	h.routes()
	return h
}

// ServeHTTP satisfies http.Handler by delegating to the router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.Use(middleware.RequestID)
	h.router.Use(middleware.Recoverer)

	h.router.Get("/health", h.HealthCheck)

	h.router.Route("/api", func(r chi.Router) {
		r.Post("/mood", h.ProcessMood)

		r.Get("/stats", h.RecommendationStats)
		r.Post("/stats/reset", h.ResetRecommendationStats)

		r.Get("/spotify/login", h.SpotifyLogin)
		r.Get("/spotify/callback", h.SpotifyCallback)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/history", h.MoodHistory)
			r.Get("/mood/{id}", h.GetMood)
			r.Delete("/mood/{id}", h.DeleteMood)
		})
	})
}

// HealthCheck verifies the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "MoodTune is live 🎶"})
}
