// Package store records build history in SQLite, so a stale-looking
// deploy can be checked against what the builder actually produced and
// when.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Build is one recorded dashboard build.
type Build struct {
	ID             int64     `json:"id"`
	BuiltAt        time.Time `json:"built_at"`
	Username       string    `json:"username"`
	CurrentlyCount int       `json:"currently_count"`
	FinishedCount  int       `json:"finished_count"`
	FirstTitle     string    `json:"first_title,omitempty"`
	FirstProgress  *int      `json:"first_progress,omitempty"`
	FirstPct       *int      `json:"first_pct,omitempty"`
}

// QueryOptions specifies how to query recorded builds.
type QueryOptions struct {
	Limit     int
	SinceTime *int64 // Unix timestamp
}

// Store manages the SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path.
// Use ":memory:" for an in-memory database (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		built_at INTEGER NOT NULL,
		username TEXT,
		currently_count INTEGER NOT NULL DEFAULT 0,
		finished_count INTEGER NOT NULL DEFAULT 0,
		first_title TEXT,
		first_progress INTEGER,
		first_pct INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_builds_built_at ON builds(built_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveBuild inserts a build record and sets its ID.
func (s *Store) SaveBuild(b *Build) error {
	result, err := s.db.Exec(
		"INSERT INTO builds (built_at, username, currently_count, finished_count, first_title, first_progress, first_pct) VALUES (?, ?, ?, ?, ?, ?, ?)",
		b.BuiltAt.Unix(), b.Username, b.CurrentlyCount, b.FinishedCount, b.FirstTitle, b.FirstProgress, b.FirstPct,
	)
	if err != nil {
		return fmt.Errorf("failed to insert build: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	b.ID = id
	return nil
}

// GetBuilds retrieves recorded builds, newest first, with optional
// time filtering and a result limit.
func (s *Store) GetBuilds(opts QueryOptions) ([]*Build, error) {
	query := "SELECT id, built_at, username, currently_count, finished_count, first_title, first_progress, first_pct FROM builds WHERE 1=1"
	args := []interface{}{}

	if opts.SinceTime != nil {
		query += " AND built_at >= ?"
		args = append(args, *opts.SinceTime)
	}

	query += " ORDER BY built_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	defer rows.Close()

	var builds []*Build
	for rows.Next() {
		b := &Build{}
		var builtAtUnix int64
		var firstTitle sql.NullString
		var firstProgress, firstPct sql.NullInt64

		err := rows.Scan(&b.ID, &builtAtUnix, &b.Username, &b.CurrentlyCount, &b.FinishedCount, &firstTitle, &firstProgress, &firstPct)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}

		b.BuiltAt = time.Unix(builtAtUnix, 0)
		b.FirstTitle = firstTitle.String
		if firstProgress.Valid {
			v := int(firstProgress.Int64)
			b.FirstProgress = &v
		}
		if firstPct.Valid {
			v := int(firstPct.Int64)
			b.FirstPct = &v
		}
		builds = append(builds, b)
	}

	return builds, rows.Err()
}
