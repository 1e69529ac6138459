package spotify

import (
	"strings"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

// mapTrackToDomain converts a raw catalog track to a domain ValidatedTrack.
// Multiple performers collapse into one joined display name.
func mapTrackToDomain(st spotifyTrack) domain.ValidatedTrack {
	names := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		names = append(names, a.Name)
	}

	image := ""
	if len(st.Album.Images) > 0 {
		image = st.Album.Images[0].URL
	}

	return domain.ValidatedTrack{
		Name:        st.Name,
		Artist:      strings.Join(names, ", "),
		CatalogURI:  st.URI,
		ImageURL:    image,
		ExternalURL: st.ExternalURLs.Spotify,
	}
}
