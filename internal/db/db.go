// Package db persists run summaries of gradient-preparation calls in a
// local SQLite database, schema-managed through embedded migrations.
// Recording is optional everywhere: the pipeline takes the store as an
// interface and a nil store disables bookkeeping entirely.
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/halfspace-data/seisprep/internal/monitoring"
	"github.com/halfspace-data/seisprep/internal/seis/pipeline"
)

// DB wraps the SQLite connection holding run bookkeeping.
type DB struct {
	*sql.DB
}

// OpenDB opens the database without touching the schema. Use this from
// the migrate subcommand, where migrations manage the schema explicitly.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := sqlDB.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &DB{sqlDB}, nil
}

// NewDB opens the database and brings the schema up to date.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return db, nil
}

// RunRecord is one stored run summary, as read back from the database.
type RunRecord struct {
	ID         string
	Path       string
	Kernel     string
	Channels   []string
	DurationMs float64
	CreatedAt  time.Time
	Stats      []pipeline.ChannelStats
}

// RecordRun stores one run summary with its per-channel residual
// statistics. Implements pipeline.RunStore.
func (db *DB) RecordRun(s pipeline.RunSummary) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO seis_runs (run_id, path, kernel, channels, duration_ms)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Path, s.Kernel, strings.Join(s.Channels, ""), float64(s.Duration)/float64(time.Millisecond))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", s.ID, err)
	}

	for _, cs := range s.Stats {
		_, err = tx.Exec(`
			INSERT INTO seis_run_channels (run_id, channel, nr, total, mean, max)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, cs.Channel, cs.Nr, cs.Sum, cs.Mean, cs.Max)
		if err != nil {
			return fmt.Errorf("insert run %s channel %s: %w", s.ID, cs.Channel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", s.ID, err)
	}
	monitoring.Logf("recorded run %s (%s, %d channels)", s.ID, s.Kernel, len(s.Stats))
	return nil
}

// ListRuns returns the most recent run summaries, newest first, with
// their per-channel statistics attached. limit <= 0 means no limit.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	query := `
		SELECT run_id, path, kernel, channels, duration_ms, created_at
		FROM seis_runs ORDER BY created_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var channels string
		if err := rows.Scan(&r.ID, &r.Path, &r.Kernel, &channels, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		for _, ch := range channels {
			r.Channels = append(r.Channels, string(ch))
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		if runs[i].Stats, err = db.runStats(runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (db *DB) runStats(runID string) ([]pipeline.ChannelStats, error) {
	rows, err := db.Query(`
		SELECT channel, nr, total, mean, max
		FROM seis_run_channels WHERE run_id = ? ORDER BY channel`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run %s stats: %w", runID, err)
	}
	defer rows.Close()

	var stats []pipeline.ChannelStats
	for rows.Next() {
		var cs pipeline.ChannelStats
		if err := rows.Scan(&cs.Channel, &cs.Nr, &cs.Sum, &cs.Mean, &cs.Max); err != nil {
			return nil, fmt.Errorf("scan run %s stats: %w", runID, err)
		}
		stats = append(stats, cs)
	}
	return stats, rows.Err()
}
