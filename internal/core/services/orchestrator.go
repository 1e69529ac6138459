// Package services holds the core pipeline controller.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
	"github.com/cedricxu312/MoodTune/internal/core/ports"
	"github.com/cedricxu312/MoodTune/internal/history"
	"github.com/cedricxu312/MoodTune/internal/llmjson"
	"github.com/cedricxu312/MoodTune/internal/worker"
)

const (
	// After filtering repeats, backfill until at least this many tracks...
	minRecommendations = 10
	// ...but never past this many.
	maxRecommendations = 15
)

// Orchestrator sequences the mood pipeline: analyze the mood text, generate
// song candidates, validate them against the catalog, bias against recent
// repeats, persist what can be persisted, and publish the export handoff.
type Orchestrator struct {
	generator ports.SongGenerator
	catalog   ports.TrackCatalog
	repo      ports.MoodRepository
	history   *history.Tracker
	handoff   ports.HandoffStore
	persist   *worker.Pool
	log       *zap.Logger
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(
	generator ports.SongGenerator,
	catalog ports.TrackCatalog,
	repo ports.MoodRepository,
	tracker *history.Tracker,
	handoff ports.HandoffStore,
	persist *worker.Pool,
	log *zap.Logger,
) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		generator: generator,
		catalog:   catalog,
		repo:      repo,
		history:   tracker,
		handoff:   handoff,
		persist:   persist,
		log:       log,
	}
}

// ProcessMood turns free-text mood input into validated recommendations.
// Generation and parsing failures abort the request; store failures degrade
// to an in-memory-only result. Every external call is attempted once.
func (o *Orchestrator) ProcessMood(ctx context.Context, moodText string, userID *int64) (domain.MoodResult, error) {
	if strings.TrimSpace(moodText) == "" {
		return domain.MoodResult{}, domain.ErrMoodRequired
	}

	rawProfile, err := o.generator.AnalyzeMood(ctx, moodText)
	if err != nil {
		return domain.MoodResult{}, fmt.Errorf("service: mood analysis: %w", err)
	}

	var profile domain.MoodProfile
	if err := llmjson.Decode(rawProfile, &profile); err != nil {
		return domain.MoodResult{}, fmt.Errorf("service: parse mood analysis: %w", err)
	}

	label := profile.Mood
	if label == "" {
		label = moodText
	}

	// A dead store must not block recommendations; downstream track
	// persistence is skipped when no mood id exists.
	var moodID int64
	if id, err := o.repo.SaveMood(ctx, label, userID); err != nil {
		o.log.Warn("service: failed to save mood, continuing without record",
			zap.String("mood", label), zap.Error(err))
	} else {
		moodID = id
	}

	meta := domain.BuildPlaylistMeta(profile)

	rawSongs, err := o.generator.RecommendSongs(ctx, profile)
	if err != nil {
		return domain.MoodResult{}, fmt.Errorf("service: song recommendations: %w", err)
	}

	parsed, err := llmjson.Parse(rawSongs)
	if err != nil {
		return domain.MoodResult{}, fmt.Errorf("service: parse song recommendations: %w", err)
	}

	candidates, err := llmjson.FlattenCandidates(parsed)
	if err != nil {
		return domain.MoodResult{}, fmt.Errorf("service: normalize song recommendations: %w", err)
	}

	confirmed, err := o.catalog.ValidateTracks(ctx, candidates)
	if err != nil {
		return domain.MoodResult{}, fmt.Errorf("service: validate tracks: %w", err)
	}

	final := o.applyAntiRepetition(confirmed)
	o.log.Info("service: anti-repetition filter applied",
		zap.Int("confirmed", len(confirmed)), zap.Int("final", len(final)))

	if moodID != 0 {
		for _, track := range final {
			o.persist.Submit(worker.Job{MoodID: moodID, Track: track})
		}
	}

	o.history.Record(final)

	token := uuid.NewString()
	payload := domain.ExportPayload{PlaylistMeta: meta, Tracks: final}
	if err := o.handoff.Put(ctx, token, payload); err != nil {
		o.log.Warn("service: failed to stash export payload", zap.Error(err))
		token = ""
	}

	return domain.MoodResult{
		Profile:      profile,
		Tracks:       final,
		PlaylistMeta: meta,
		ExportToken:  token,
	}, nil
}

// applyAntiRepetition drops recently served tracks. If that leaves fewer
// than the floor, it backfills from the confirmed set with tracks whose
// artist is neither already represented nor recently served, up to the
// ceiling or until candidates run out.
func (o *Orchestrator) applyAntiRepetition(confirmed []domain.ValidatedTrack) []domain.ValidatedTrack {
	filtered := make([]domain.ValidatedTrack, 0, len(confirmed))
	for _, track := range confirmed {
		if !o.history.IsRecentTrack(track.Name, track.Artist) {
			filtered = append(filtered, track)
		}
	}

	if len(filtered) >= minRecommendations {
		return filtered
	}

	present := make(map[string]struct{}, len(filtered))
	for _, track := range filtered {
		present[strings.ToLower(track.Artist)] = struct{}{}
	}

	room := maxRecommendations - len(filtered)
	extra := make([]domain.ValidatedTrack, 0, room)
	for _, track := range confirmed {
		if len(extra) >= room {
			break
		}
		if _, ok := present[strings.ToLower(track.Artist)]; ok {
			continue
		}
		if o.history.IsRecentArtist(track.Artist) {
			continue
		}
		if o.history.IsRecentTrack(track.Name, track.Artist) {
			continue
		}
		extra = append(extra, track)
	}

	if len(extra) > 0 {
		o.log.Info("service: backfilled recommendations", zap.Int("added", len(extra)))
	}

	return append(filtered, extra...)
}
