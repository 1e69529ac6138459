package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
)

func testPayload(name string) domain.ExportPayload {
	return domain.ExportPayload{
		PlaylistMeta: domain.PlaylistMeta{Name: name, Description: "desc"},
		Tracks: []domain.ValidatedTrack{
			{Name: "Song", Artist: "Artist", CatalogURI: "spotify:track:1"},
		},
	}
}

func TestHandoffStore_PutTake(t *testing.T) {
	s := NewHandoffStore(time.Minute)
	ctx := context.Background()

	if err := s.Put(ctx, "tok-1", testPayload("MoodTune: one")); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := s.Take(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Take returned error: %v", err)
	}
	if got.PlaylistMeta.Name != "MoodTune: one" || len(got.Tracks) != 1 {
		t.Fatalf("payload = %+v", got)
	}
}

func TestHandoffStore_TakeRemoves(t *testing.T) {
	s := NewHandoffStore(time.Minute)
	ctx := context.Background()

	s.Put(ctx, "tok-1", testPayload("p"))
	if _, err := s.Take(ctx, "tok-1"); err != nil {
		t.Fatalf("first Take returned error: %v", err)
	}
	if _, err := s.Take(ctx, "tok-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Take = %v, want ErrNotFound", err)
	}
}

func TestHandoffStore_UnknownToken(t *testing.T) {
	s := NewHandoffStore(time.Minute)
	if _, err := s.Take(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Take = %v, want ErrNotFound", err)
	}
}

func TestHandoffStore_Expiry(t *testing.T) {
	s := NewHandoffStore(time.Minute)
	ctx := context.Background()

	current := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return current }

	s.Put(ctx, "tok-1", testPayload("p"))
	current = current.Add(2 * time.Minute)

	if _, err := s.Take(ctx, "tok-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Take after expiry = %v, want ErrNotFound", err)
	}
}

func TestHandoffStore_PutPrunesExpired(t *testing.T) {
	s := NewHandoffStore(time.Minute)
	ctx := context.Background()

	current := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return current }

	s.Put(ctx, "old", testPayload("old"))
	current = current.Add(2 * time.Minute)
	s.Put(ctx, "new", testPayload("new"))

	if len(s.entries) != 1 {
		t.Fatalf("entries = %d, want expired ones pruned", len(s.entries))
	}
	if _, ok := s.entries["new"]; !ok {
		t.Fatal("fresh entry should survive the prune")
	}
}
