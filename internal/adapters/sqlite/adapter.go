// Package sqlite provides a SQLite-backed mood/track store for local use.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // driver

	"github.com/cedricxu312/MoodTune/internal/core/domain"
	"github.com/cedricxu312/MoodTune/internal/core/ports"
)

// Adapter implements the mood repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

var _ ports.MoodRepository = (*Adapter)(nil)

// NewAdapter opens the database file and ensures the schema.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	a := &Adapter{db: db}
	if err := a.migrate(); err != nil {
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS moods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mood TEXT NOT NULL,
		user_id INTEGER,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS tracks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mood_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		artist TEXT NOT NULL,
		url TEXT,
		FOREIGN KEY(mood_id) REFERENCES moods(id) ON DELETE CASCADE
	);
	`
	_, err := a.db.Exec(schema)
	return err
}

func (a *Adapter) SaveMood(ctx context.Context, mood string, userID *int64) (int64, error) {
	res, err := a.db.ExecContext(ctx,
		"INSERT INTO moods (mood, user_id) VALUES (?, ?)", mood, userID)
	if err != nil {
		return 0, fmt.Errorf("sqlite: save mood: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: mood id: %w", err)
	}
	return id, nil
}

func (a *Adapter) SaveTrack(ctx context.Context, moodID int64, track domain.ValidatedTrack) error {
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO tracks (mood_id, name, artist, url) VALUES (?, ?, ?, ?)",
		moodID, track.Name, track.Artist, track.ExternalURL)
	if err != nil {
		return fmt.Errorf("sqlite: save track: %w", err)
	}
	return nil
}

func (a *Adapter) UserMoodHistory(ctx context.Context, userID int64) ([]domain.MoodRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT m.id, m.mood, m.created_at,
		       t.id, t.name, t.artist, t.url
		FROM moods m
		LEFT JOIN tracks t ON t.mood_id = m.id
		WHERE m.user_id = ?
		ORDER BY m.created_at DESC, t.id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load history: %w", err)
	}
	defer rows.Close()

	var (
		order   []int64
		grouped = make(map[int64]*domain.MoodRecord)
	)
	for rows.Next() {
		var (
			rec     domain.MoodRecord
			trackID sql.NullInt64
			name    sql.NullString
			artist  sql.NullString
			trkURL  sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Mood, &rec.CreatedAt, &trackID, &name, &artist, &trkURL); err != nil {
			return nil, fmt.Errorf("sqlite: scan history row: %w", err)
		}

		entry, ok := grouped[rec.ID]
		if !ok {
			rec.UserID = &userID
			rec.Tracks = []domain.TrackRecord{}
			grouped[rec.ID] = &rec
			order = append(order, rec.ID)
			entry = grouped[rec.ID]
		}
		if trackID.Valid {
			entry.Tracks = append(entry.Tracks, domain.TrackRecord{
				Name:   name.String,
				Artist: artist.String,
				URL:    trkURL.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate history: %w", err)
	}

	records := make([]domain.MoodRecord, 0, len(order))
	for _, id := range order {
		records = append(records, *grouped[id])
	}
	return records, nil
}

func (a *Adapter) MoodByID(ctx context.Context, moodID, userID int64) (domain.MoodRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT m.id, m.mood, m.created_at, m.user_id,
		       t.id, t.name, t.artist, t.url
		FROM moods m
		LEFT JOIN tracks t ON t.mood_id = m.id
		WHERE m.id = ? AND m.user_id = ?
		ORDER BY t.id ASC
	`, moodID, userID)
	if err != nil {
		return domain.MoodRecord{}, fmt.Errorf("sqlite: load mood: %w", err)
	}
	defer rows.Close()

	var (
		record domain.MoodRecord
		found  bool
	)
	for rows.Next() {
		var (
			owner   sql.NullInt64
			trackID sql.NullInt64
			name    sql.NullString
			artist  sql.NullString
			trkURL  sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.Mood, &record.CreatedAt, &owner,
			&trackID, &name, &artist, &trkURL); err != nil {
			return domain.MoodRecord{}, fmt.Errorf("sqlite: scan mood row: %w", err)
		}
		found = true
		if owner.Valid {
			record.UserID = &owner.Int64
		}
		if trackID.Valid {
			record.Tracks = append(record.Tracks, domain.TrackRecord{
				Name:   name.String,
				Artist: artist.String,
				URL:    trkURL.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return domain.MoodRecord{}, fmt.Errorf("sqlite: iterate mood: %w", err)
	}
	if !found {
		return domain.MoodRecord{}, domain.ErrNotFound
	}
	return record, nil
}

func (a *Adapter) DeleteMood(ctx context.Context, moodID, userID int64) error {
	var id int64
	err := a.db.QueryRowContext(ctx,
		"SELECT id FROM moods WHERE id = ? AND user_id = ?", moodID, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("sqlite: check mood owner: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, "DELETE FROM tracks WHERE mood_id = ?", moodID); err != nil {
		return fmt.Errorf("sqlite: delete tracks: %w", err)
	}
	if _, err := a.db.ExecContext(ctx, "DELETE FROM moods WHERE id = ?", moodID); err != nil {
		return fmt.Errorf("sqlite: delete mood: %w", err)
	}
	return nil
}
