// Package history keeps a bounded, in-memory window of recently served
// tracks and artists so fresh requests can be biased away from repeats.
// State lives for the life of the process and is never persisted.
package history

import (
	"strings"
	"sync"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

// DefaultLimit is the cap applied when no capacity is configured.
const DefaultLimit = 50

// Tracker is a pair of bounded FIFO sets: composite track keys and artist
// names, both lower-cased. Once a set reaches its cap, inserting a new
// member evicts the oldest surviving one. Safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	limit int

	trackOrder  []string
	trackSet    map[string]struct{}
	artistOrder []string
	artistSet   map[string]struct{}
}

// NewTracker creates a tracker capped at limit entries per set.
func NewTracker(limit int) *Tracker {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Tracker{
		limit:     limit,
		trackSet:  make(map[string]struct{}),
		artistSet: make(map[string]struct{}),
	}
}

// Record inserts every track's composite key and artist into the window.
func (t *Tracker) Record(tracks []domain.ValidatedTrack) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, track := range tracks {
		t.trackOrder = insert(t.trackOrder, t.trackSet, trackKey(track.Name, track.Artist), t.limit)
		t.artistOrder = insert(t.artistOrder, t.artistSet, strings.ToLower(track.Artist), t.limit)
	}
}

// IsRecentTrack reports whether the (name, artist) pair was recently served.
func (t *Tracker) IsRecentTrack(name, artist string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.trackSet[trackKey(name, artist)]
	return ok
}

// IsRecentArtist reports whether the artist was recently served.
func (t *Tracker) IsRecentArtist(artist string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.artistSet[strings.ToLower(artist)]
	return ok
}

// Clear empties both sets.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trackOrder = nil
	t.artistOrder = nil
	t.trackSet = make(map[string]struct{})
	t.artistSet = make(map[string]struct{})
}

// Stats describes the current window, for the debug surface.
type Stats struct {
	TotalTracks   int      `json:"totalTracks"`
	TotalArtists  int      `json:"totalArtists"`
	MaxHistory    int      `json:"maxHistory"`
	RecentTracks  []string `json:"recentTracks"`
	RecentArtists []string `json:"recentArtists"`
}

// Stats returns counts and the ten most recent entries of each set.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Stats{
		TotalTracks:   len(t.trackOrder),
		TotalArtists:  len(t.artistOrder),
		MaxHistory:    t.limit,
		RecentTracks:  tail(t.trackOrder, 10),
		RecentArtists: tail(t.artistOrder, 10),
	}
}

func trackKey(name, artist string) string {
	return strings.ToLower(name) + "|" + strings.ToLower(artist)
}

// insert adds key to the set unless already present; on overflow the
// first-inserted-still-present member is evicted.
func insert(order []string, set map[string]struct{}, key string, limit int) []string {
	if _, ok := set[key]; ok {
		return order
	}
	set[key] = struct{}{}
	order = append(order, key)
	if len(order) > limit {
		delete(set, order[0])
		order = order[1:]
	}
	return order
}

func tail(values []string, n int) []string {
	if len(values) <= n {
		return append([]string(nil), values...)
	}
	return append([]string(nil), values[len(values)-n:]...)
}
