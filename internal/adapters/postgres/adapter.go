// Package postgres provides the production mood/track store on a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cedricxu312/MoodTune/internal/core/domain"
	"github.com/cedricxu312/MoodTune/internal/core/ports"
)

// Adapter implements the mood repository port for PostgreSQL.
type Adapter struct {
	pool *pgxpool.Pool
}

var _ ports.MoodRepository = (*Adapter)(nil)

// NewAdapter opens a connection pool, verifies it and ensures the schema.
func NewAdapter(ctx context.Context, databaseURL string) (*Adapter, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	a := &Adapter{pool: pool}
	if err := a.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return a, nil
}

// Close releases the pool.
func (a *Adapter) Close() {
	a.pool.Close()
}

func (a *Adapter) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS moods (
		id BIGSERIAL PRIMARY KEY,
		mood TEXT NOT NULL,
		user_id BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS tracks (
		id BIGSERIAL PRIMARY KEY,
		mood_id BIGINT NOT NULL REFERENCES moods(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		artist TEXT NOT NULL,
		url TEXT
	);
	`
	_, err := a.pool.Exec(ctx, schema)
	return err
}

func (a *Adapter) SaveMood(ctx context.Context, mood string, userID *int64) (int64, error) {
	var id int64
	err := a.pool.QueryRow(ctx,
		"INSERT INTO moods (mood, user_id) VALUES ($1, $2) RETURNING id",
		mood, userID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: save mood: %w", err)
	}
	return id, nil
}

func (a *Adapter) SaveTrack(ctx context.Context, moodID int64, track domain.ValidatedTrack) error {
	_, err := a.pool.Exec(ctx,
		"INSERT INTO tracks (mood_id, name, artist, url) VALUES ($1, $2, $3, $4)",
		moodID, track.Name, track.Artist, track.ExternalURL,
	)
	if err != nil {
		return fmt.Errorf("postgres: save track: %w", err)
	}
	return nil
}

func (a *Adapter) UserMoodHistory(ctx context.Context, userID int64) ([]domain.MoodRecord, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT m.id, m.mood, m.created_at,
		       t.id, t.name, t.artist, t.url
		FROM moods m
		LEFT JOIN tracks t ON t.mood_id = m.id
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC, t.id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: load history: %w", err)
	}
	defer rows.Close()

	var (
		order   []int64
		grouped = make(map[int64]*domain.MoodRecord)
	)
	for rows.Next() {
		var (
			rec     domain.MoodRecord
			trackID *int64
			name    *string
			artist  *string
			trkURL  *string
		)
		if err := rows.Scan(&rec.ID, &rec.Mood, &rec.CreatedAt, &trackID, &name, &artist, &trkURL); err != nil {
			return nil, fmt.Errorf("postgres: scan history row: %w", err)
		}

		entry, ok := grouped[rec.ID]
		if !ok {
			rec.UserID = &userID
			rec.Tracks = []domain.TrackRecord{}
			grouped[rec.ID] = &rec
			order = append(order, rec.ID)
			entry = grouped[rec.ID]
		}
		if trackID != nil {
			entry.Tracks = append(entry.Tracks, domain.TrackRecord{
				Name:   deref(name),
				Artist: deref(artist),
				URL:    deref(trkURL),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate history: %w", err)
	}

	records := make([]domain.MoodRecord, 0, len(order))
	for _, id := range order {
		records = append(records, *grouped[id])
	}
	return records, nil
}

func (a *Adapter) MoodByID(ctx context.Context, moodID, userID int64) (domain.MoodRecord, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT m.id, m.mood, m.created_at, m.user_id,
		       t.id, t.name, t.artist, t.url
		FROM moods m
		LEFT JOIN tracks t ON t.mood_id = m.id
		WHERE m.id = $1 AND m.user_id = $2
		ORDER BY t.id ASC
	`, moodID, userID)
	if err != nil {
		return domain.MoodRecord{}, fmt.Errorf("postgres: load mood: %w", err)
	}
	defer rows.Close()

	var (
		record domain.MoodRecord
		found  bool
	)
	for rows.Next() {
		var (
			trackID *int64
			name    *string
			artist  *string
			trkURL  *string
		)
		if err := rows.Scan(&record.ID, &record.Mood, &record.CreatedAt, &record.UserID,
			&trackID, &name, &artist, &trkURL); err != nil {
			return domain.MoodRecord{}, fmt.Errorf("postgres: scan mood row: %w", err)
		}
		found = true
		if trackID != nil {
			record.Tracks = append(record.Tracks, domain.TrackRecord{
				Name:   deref(name),
				Artist: deref(artist),
				URL:    deref(trkURL),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return domain.MoodRecord{}, fmt.Errorf("postgres: iterate mood: %w", err)
	}
	if !found {
		return domain.MoodRecord{}, domain.ErrNotFound
	}
	return record, nil
}

func (a *Adapter) DeleteMood(ctx context.Context, moodID, userID int64) error {
	var id int64
	err := a.pool.QueryRow(ctx,
		"SELECT id FROM moods WHERE id = $1 AND user_id = $2", moodID, userID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("postgres: check mood owner: %w", err)
	}

	if _, err := a.pool.Exec(ctx, "DELETE FROM tracks WHERE mood_id = $1", moodID); err != nil {
		return fmt.Errorf("postgres: delete tracks: %w", err)
	}
	if _, err := a.pool.Exec(ctx, "DELETE FROM moods WHERE id = $1", moodID); err != nil {
		return fmt.Errorf("postgres: delete mood: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
