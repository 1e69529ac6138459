package domain

// CandidateSongMap maps artist names to proposed song titles, preserving
// the order artists were first encountered. Keys are unique; adding songs
// for an existing artist appends to that artist's list.
type CandidateSongMap struct {
	artists []string
	songs   map[string][]string
}

// Add appends titles to an artist's candidate list, creating the entry if
// the artist has not been seen yet.
func (m *CandidateSongMap) Add(artist string, titles ...string) {
	if m.songs == nil {
		m.songs = make(map[string][]string)
	}
	if _, ok := m.songs[artist]; !ok {
		m.artists = append(m.artists, artist)
	}
	m.songs[artist] = append(m.songs[artist], titles...)
}

// Artists returns artist names in encounter order.
func (m *CandidateSongMap) Artists() []string {
	return m.artists
}

// Titles returns the candidate song titles for an artist.
func (m *CandidateSongMap) Titles(artist string) []string {
	return m.songs[artist]
}

// Len returns the number of distinct artists.
func (m *CandidateSongMap) Len() int {
	return len(m.artists)
}

// Pairs returns the total number of (artist, title) candidates.
func (m *CandidateSongMap) Pairs() int {
	n := 0
	for _, titles := range m.songs {
		n += len(titles)
	}
	return n
}
