package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveTrips replaces the cached trip list. Trips absent from the new
// list are removed along with their days and activities.
func (s *SQLiteStore) SaveTrips(ctx context.Context, trips []model.Trip) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	keep := make([]interface{}, 0, len(trips))
	placeholders := ""
	for i, t := range trips {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		keep = append(keep, t.ID)
	}

	if len(keep) == 0 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM trips"); err != nil {
			return fmt.Errorf("clearing cached trips: %w", err)
		}
	} else {
		query := "DELETE FROM trips WHERE id NOT IN (" + placeholders + ")"
		if _, err := tx.ExecContext(ctx, query, keep...); err != nil {
			return fmt.Errorf("pruning cached trips: %w", err)
		}
	}

	const upsert = `
		INSERT OR REPLACE INTO trips (
			id, title, date_start, date_end, currency, theme,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, t := range trips {
		_, err := tx.ExecContext(ctx, upsert,
			t.ID, t.Title, t.DateStart, t.DateEnd, t.Currency, t.Theme,
			t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching trip %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// GetTrips returns the cached trip list, newest first.
func (s *SQLiteStore) GetTrips(ctx context.Context) ([]model.Trip, error) {
	var trips []model.Trip
	err := s.db.SelectContext(ctx, &trips,
		"SELECT * FROM trips ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("reading cached trips: %w", err)
	}
	return trips, nil
}

// SaveSnapshot replaces the cached state of one trip. Days and
// activities are rewritten wholesale; partial updates are never cached.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *api.Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const upsertTrip = `
		INSERT OR REPLACE INTO trips (
			id, title, date_start, date_end, currency, theme,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	t := snap.Trip
	_, err = tx.ExecContext(ctx, upsertTrip,
		t.ID, t.Title, t.DateStart, t.DateEnd, t.Currency, t.Theme,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("caching trip %s: %w", t.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM days WHERE trip_id = ?", t.ID); err != nil {
		return fmt.Errorf("clearing cached days for trip %s: %w", t.ID, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM activities WHERE trip_id = ?", t.ID); err != nil {
		return fmt.Errorf("clearing cached activities for trip %s: %w", t.ID, err)
	}

	const insertDay = `
		INSERT INTO days (id, trip_id, date, day_index, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	for _, d := range snap.Days {
		_, err := tx.ExecContext(ctx, insertDay,
			d.ID, d.TripID, d.Date, d.Index, d.Notes, d.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching day %s: %w", d.ID, err)
		}
	}

	const insertActivity = `
		INSERT INTO activities (
			id, trip_id, day_id, title, start_time, end_time,
			location_text, category, notes, cost, priority, color,
			order_index, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, a := range snap.Activities {
		_, err := tx.ExecContext(ctx, insertActivity,
			a.ID, a.TripID, a.DayID, a.Title, a.StartTime, a.EndTime,
			a.LocationText, string(a.Category), a.Notes, a.Cost, a.Priority, a.Color,
			a.OrderIndex, a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching activity %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// GetSnapshot returns the cached snapshot of one trip, or nil when the
// trip is not cached.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, tripID string) (*api.Snapshot, error) {
	var trips []model.Trip
	err := s.db.SelectContext(ctx, &trips,
		"SELECT * FROM trips WHERE id = ?", tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading cached trip %s: %w", tripID, err)
	}
	if len(trips) == 0 {
		return nil, nil
	}

	snap := &api.Snapshot{Trip: trips[0]}

	err = s.db.SelectContext(ctx, &snap.Days,
		"SELECT * FROM days WHERE trip_id = ? ORDER BY day_index", tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading cached days for trip %s: %w", tripID, err)
	}

	err = s.db.SelectContext(ctx, &snap.Activities,
		"SELECT * FROM activities WHERE trip_id = ? ORDER BY day_id, order_index", tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading cached activities for trip %s: %w", tripID, err)
	}

	return snap, nil
}

// DeleteTrip removes a trip from the cache. Days and activities cascade.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID); err != nil {
		return fmt.Errorf("deleting cached trip %s: %w", tripID, err)
	}
	return nil
}
