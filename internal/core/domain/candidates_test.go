package domain

import (
	"reflect"
	"testing"
)

func TestCandidateSongMap_OrderAndMerge(t *testing.T) {
	var m CandidateSongMap
	m.Add("NewJeans", "Super Shy", "Ditto")
	m.Add("IU", "Blueming")
	m.Add("NewJeans", "OMG")

	if want := []string{"NewJeans", "IU"}; !reflect.DeepEqual(m.Artists(), want) {
		t.Fatalf("Artists = %v, want %v", m.Artists(), want)
	}
	if want := []string{"Super Shy", "Ditto", "OMG"}; !reflect.DeepEqual(m.Titles("NewJeans"), want) {
		t.Fatalf("Titles(NewJeans) = %v, want %v", m.Titles("NewJeans"), want)
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if m.Pairs() != 4 {
		t.Fatalf("Pairs = %d, want 4", m.Pairs())
	}
}

func TestMoodProfile_HasArtists(t *testing.T) {
	if (MoodProfile{}).HasArtists() {
		t.Fatal("empty profile should not report artists")
	}
	if !(MoodProfile{Artists: []string{"IU"}}).HasArtists() {
		t.Fatal("profile with artists should report them")
	}
}
