package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; the ledger is advisory, so a mismatched database can simply be
// deleted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run statuses recorded in the ledger.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Media kinds recorded in the ledger.
const (
	KindAudio = "audio"
	KindImage = "image"
)

// Store records generation runs and cache asset usage in SQLite. It is an
// advisory record for the cache commands; the media caches themselves remain
// the source of truth on disk.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database under stateDir.
func Open(stateDir string) (*Store, error) {
	dbPath := filepath.Join(stateDir, "ledger.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk location of the ledger database.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Run is one recorded generation run.
type Run struct {
	ID              string
	Level           string
	Status          string
	StartedAt       time.Time
	FinishedAt      time.Time
	RecordsTotal    int
	CardsCreated    int
	NotesAdded      int
	MediaRegistered int
	ErrorCount      int
}

// RunTotals carries the counters written when a run finishes.
type RunTotals struct {
	RecordsTotal    int
	CardsCreated    int
	NotesAdded      int
	MediaRegistered int
	ErrorCount      int
}

// StartRun records the beginning of a generation run.
func (s *Store) StartRun(ctx context.Context, id, level string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, level, status, started_at) VALUES (?, ?, ?, ?)`,
		id, level, RunStatusRunning, now,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run started with StartRun.
func (s *Store) FinishRun(ctx context.Context, id, status string, totals RunTotals) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, records_total = ?,
            cards_created = ?, notes_added = ?, media_registered = ?, error_count = ?
         WHERE id = ?`,
		status, now, totals.RecordsTotal, totals.CardsCreated,
		totals.NotesAdded, totals.MediaRegistered, totals.ErrorCount, id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: no run with id %s", id)
	}
	return nil
}

// RecentRuns returns the most recently started runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, level, status, started_at, COALESCE(finished_at, ''),
            records_total, cards_created, notes_added, media_registered, error_count
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  string
			finished string
		)
		if err := rows.Scan(&run.ID, &run.Level, &run.Status, &started, &finished,
			&run.RecordsTotal, &run.CardsCreated, &run.NotesAdded, &run.MediaRegistered, &run.ErrorCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Asset is one tracked cache file.
type Asset struct {
	Filename   string
	Kind       string
	Word       string
	RunID      string
	CreatedAt  time.Time
	LastUsedAt time.Time
	UseCount   int
}

// TouchAsset records that a cache file was created or reused by a run.
// Repeated touches bump the use counter and last-used timestamp.
func (s *Store) TouchAsset(ctx context.Context, asset Asset) error {
	if strings.TrimSpace(asset.Filename) == "" {
		return errors.New("touch asset: filename required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO media_assets (filename, kind, word, run_id, created_at, last_used_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(filename) DO UPDATE SET
            last_used_at = excluded.last_used_at,
            run_id = excluded.run_id,
            use_count = use_count + 1`,
		asset.Filename, asset.Kind, asset.Word, asset.RunID, now, now,
	)
	if err != nil {
		return fmt.Errorf("touch asset %s: %w", asset.Filename, err)
	}
	return nil
}

// KindStat summarizes tracked assets of one kind.
type KindStat struct {
	Kind     string
	Count    int
	UseTotal int
}

// AssetStats returns per-kind asset counts.
func (s *Store) AssetStats(ctx context.Context) ([]KindStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, COUNT(1), COALESCE(SUM(use_count), 0)
         FROM media_assets GROUP BY kind ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("query asset stats: %w", err)
	}
	defer rows.Close()

	var stats []KindStat
	for rows.Next() {
		var stat KindStat
		if err := rows.Scan(&stat.Kind, &stat.Count, &stat.UseTotal); err != nil {
			return nil, fmt.Errorf("scan asset stat: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// StaleAssets returns assets whose last use is before cutoff.
func (s *Store) StaleAssets(ctx context.Context, cutoff time.Time) ([]Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, kind, COALESCE(word, ''), COALESCE(run_id, ''),
            created_at, last_used_at, use_count
         FROM media_assets WHERE last_used_at < ? ORDER BY last_used_at`,
		cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("query stale assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var (
			asset    Asset
			created  string
			lastUsed string
		)
		if err := rows.Scan(&asset.Filename, &asset.Kind, &asset.Word, &asset.RunID,
			&created, &lastUsed, &asset.UseCount); err != nil {
			return nil, fmt.Errorf("scan stale asset: %w", err)
		}
		asset.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		asset.LastUsedAt, _ = time.Parse(time.RFC3339Nano, lastUsed)
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// ForgetAssets removes asset rows after their files were pruned from disk.
func (s *Store) ForgetAssets(ctx context.Context, filenames []string) error {
	if len(filenames) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, filename := range filenames {
		if _, err := tx.ExecContext(ctx, `DELETE FROM media_assets WHERE filename = ?`, filename); err != nil {
			return fmt.Errorf("delete asset %s: %w", filename, err)
		}
	}
	return tx.Commit()
}
