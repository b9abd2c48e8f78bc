package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// SQLite driver registration.
	_ "github.com/mattn/go-sqlite3"
)

const statsSchema = `
CREATE TABLE IF NOT EXISTS conversions (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TIMESTAMP NOT NULL,
	kind       TEXT NOT NULL,
	country    TEXT NOT NULL,
	exact      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at);
`

// StatsStore persists per-conversion usage records in SQLite.
type StatsStore struct {
	db *sql.DB
}

// Summary aggregates usage counters across all recorded conversions.
type Summary struct {
	Total          int            `json:"total"`
	Today          int            `json:"today"`
	ExactMatches   int            `json:"exactMatches"`
	ByKind         map[string]int `json:"byKind"`
	ByCountry      map[string]int `json:"byCountry"`
	LastConversion time.Time      `json:"lastConversion,omitzero"`
}

// NewStatsStore opens (or creates) the stats database at path.
func NewStatsStore(path string) (*StatsStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database: %w", err)
	}

	if _, err := db.Exec(statsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize stats schema: %w", err)
	}

	return &StatsStore{db: db}, nil
}

// Record stores one completed conversion.
func (s *StatsStore) Record(ctx context.Context, kind, country string, exact bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (created_at, kind, country, exact) VALUES (?, ?, ?, ?)`,
		time.Now(), kind, country, exact)
	if err != nil {
		return fmt.Errorf("failed to record conversion: %w", err)
	}
	return nil
}

// Summary computes the usage counters.
func (s *StatsStore) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		ByKind:    make(map[string]int),
		ByCountry: make(map[string]int),
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var last sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(exact), 0),
		       MAX(created_at)
		FROM conversions`, midnight).
		Scan(&summary.Total, &summary.Today, &summary.ExactMatches, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversion totals: %w", err)
	}
	if last.Valid {
		summary.LastConversion = last.Time
	}

	if err := s.countsBy(ctx, "kind", summary.ByKind); err != nil {
		return nil, err
	}
	if err := s.countsBy(ctx, "country", summary.ByCountry); err != nil {
		return nil, err
	}

	return summary, nil
}

// countsBy fills dest with per-value conversion counts for a column.
func (s *StatsStore) countsBy(ctx context.Context, column string, dest map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s, COUNT(*) FROM conversions GROUP BY %s`, column, column))
	if err != nil {
		return fmt.Errorf("failed to query conversions by %s: %w", column, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var value string
		var count int
		if err := rows.Scan(&value, &count); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", column, err)
		}
		dest[value] = count
	}
	return rows.Err()
}

// Close releases the underlying database handle.
func (s *StatsStore) Close() error {
	return s.db.Close()
}
