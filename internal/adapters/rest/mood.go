package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

type processMoodRequest struct {
	Mood string `json:"mood"`
}

// ProcessMood handles POST /api/mood. Open to anonymous users; a valid
// bearer token attributes the mood to that user.
func (h *Handler) ProcessMood(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req processMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Mood == "" {
		writeError(w, http.StatusBadRequest, "Mood is required")
		return
	}

	userID := h.identify(r)

	result, err := h.svc.ProcessMood(r.Context(), req.Mood, userID)
	if err != nil {
		if errors.Is(err, domain.ErrMoodRequired) {
			writeError(w, http.StatusBadRequest, "Mood is required")
			return
		}
		// Details stay in the logs; callers get a generic failure.
		h.log.Error("rest: mood processing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error processing mood")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// MoodHistory handles GET /api/history.
func (h *Handler) MoodHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	records, err := h.repo.UserMoodHistory(r.Context(), userID)
	if err != nil {
		h.log.Error("rest: failed to load history", zap.Int64("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// GetMood handles GET /api/mood/{id}.
func (h *Handler) GetMood(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	moodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid mood ID")
		return
	}

	record, err := h.repo.MoodByID(r.Context(), moodID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Mood not found")
		return
	}
	if err != nil {
		h.log.Error("rest: failed to load mood", zap.Int64("mood_id", moodID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch mood")
		return
	}

	writeJSON(w, http.StatusOK, map[string]domain.MoodRecord{"mood": record})
}

// DeleteMood handles DELETE /api/mood/{id}.
func (h *Handler) DeleteMood(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	moodID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid mood ID")
		return
	}

	err = h.repo.DeleteMood(r.Context(), moodID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Mood not found or access denied")
		return
	}
	if err != nil {
		h.log.Error("rest: failed to delete mood", zap.Int64("mood_id", moodID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete mood")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Mood deleted successfully"})
}

// RecommendationStats handles GET /api/stats.
func (h *Handler) RecommendationStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Stats())
}

// ResetRecommendationStats handles POST /api/stats/reset.
func (h *Handler) ResetRecommendationStats(w http.ResponseWriter, r *http.Request) {
	h.tracker.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recommendation history cleared"})
}
