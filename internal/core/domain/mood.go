package domain

import "time"

// MoodProfile is the structured emotional summary derived from free-text
// mood input. Field tags match the shape the text-generation collaborator
// is instructed to return.
type MoodProfile struct {
	Mood    string   `json:"mood"`
	Themes  []string `json:"themes"`
	Genres  []string `json:"recommended_genres"`
	Artists []string `json:"artist,omitempty"`
}

// HasArtists reports whether the user explicitly named artists.
func (p MoodProfile) HasArtists() bool {
	return len(p.Artists) > 0
}

// ValidatedTrack is a candidate confirmed against the music catalog.
// It is only ever constructed from a real catalog hit, never fabricated.
type ValidatedTrack struct {
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	CatalogURI  string `json:"uri"`
	ImageURL    string `json:"image,omitempty"`
	ExternalURL string `json:"spotifyUrl,omitempty"`
}

// PlaylistMeta is the display name and description for an eventual
// exported playlist. It lives only as long as the export handoff.
type PlaylistMeta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ExportPayload is the exact shape the playlist-export flow consumes.
type ExportPayload struct {
	PlaylistMeta PlaylistMeta     `json:"playlistMeta"`
	Tracks       []ValidatedTrack `json:"tracks"`
}

// CreatedPlaylist describes a playlist created on the external catalog.
type CreatedPlaylist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// MoodResult is what a processed mood returns to the caller.
type MoodResult struct {
	Profile      MoodProfile      `json:"profile"`
	Tracks       []ValidatedTrack `json:"tracks"`
	PlaylistMeta PlaylistMeta     `json:"playlistMeta"`
	ExportToken  string           `json:"exportToken,omitempty"`
}

// TrackRecord is the persisted form of a recommended track.
type TrackRecord struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
	URL    string `json:"url,omitempty"`
}

// MoodRecord is a persisted mood with its recommended tracks.
type MoodRecord struct {
	ID        int64         `json:"id"`
	Mood      string        `json:"mood"`
	CreatedAt time.Time     `json:"created_at"`
	UserID    *int64        `json:"user_id,omitempty"`
	Tracks    []TrackRecord `json:"tracks"`
}
