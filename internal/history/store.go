// Package history keeps past analysis scores in SQLite so CI runs can
// detect regressions.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"spineperf/internal/analysis"
	"spineperf/internal/logging"
	"spineperf/internal/score"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	asset       TEXT NOT NULL,
	recorded_at TEXT NOT NULL,
	overall     REAL NOT NULL,
	rating      TEXT NOT NULL,
	bone        REAL NOT NULL,
	mesh        REAL NOT NULL,
	clipping    REAL NOT NULL,
	blend_mode  REAL NOT NULL,
	constraint_ REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scores_asset ON scores(asset, id);
CREATE INDEX IF NOT EXISTS idx_scores_run ON scores(run_id);
`

// Record is one stored score of one asset.
type Record struct {
	ID         int64                 `json:"id"`
	RunID      string                `json:"runId"`
	Asset      string                `json:"asset"`
	RecordedAt time.Time             `json:"recordedAt"`
	Overall    float64               `json:"overall"`
	Rating     string                `json:"rating"`
	Components score.ComponentScores `json:"components"`
}

// FromReport builds an unsaved record from an analysis result.
func FromReport(runID, asset string, r *analysis.AggregateReport) Record {
	return Record{
		RunID:      runID,
		Asset:      asset,
		Overall:    r.Overall,
		Rating:     r.Rating,
		Components: r.Components,
	}
}

// Store is a SQLite-backed score history.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	path   string
}

// Open opens or creates the history database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: create dir for %s: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	// A single connection keeps :memory: databases alive across calls.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: set pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}

	logger.Debug("history opened", "path", path)
	return &Store{db: db, logger: logger, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record saves rec and returns its ID. A zero RecordedAt is set to now.
func (s *Store) Record(ctx context.Context, rec Record) (int64, error) {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	c := rec.Components
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (
			run_id, asset, recorded_at, overall, rating,
			bone, mesh, clipping, blend_mode, constraint_
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.RunID, rec.Asset, rec.RecordedAt.UTC().Format(time.RFC3339Nano), rec.Overall, rec.Rating,
		c.Bone, c.Mesh, c.Clipping, c.BlendMode, c.Constraint)
	if err != nil {
		return 0, fmt.Errorf("history: record %s: %w", rec.Asset, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: record %s: %w", rec.Asset, err)
	}
	s.logger.Debug("score recorded", "asset", rec.Asset, "run", rec.RunID, "overall", rec.Overall)
	return id, nil
}

// List returns up to limit records, newest first. An empty asset lists all
// assets; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, asset string, limit int) ([]Record, error) {
	query := `
		SELECT id, run_id, asset, recorded_at, overall, rating,
		       bone, mesh, clipping, blend_mode, constraint_
		FROM scores`
	var args []any
	if asset != "" {
		query += ` WHERE asset = ?`
		args = append(args, asset)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r  Record
			at string
		)
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Asset, &at, &r.Overall, &r.Rating,
			&r.Components.Bone, &r.Components.Mesh, &r.Components.Clipping,
			&r.Components.BlendMode, &r.Components.Constraint,
		); err != nil {
			return nil, fmt.Errorf("history: list: %w", err)
		}
		if r.RecordedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("history: list: bad time %q: %w", at, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	return records, nil
}

// ErrNoHistory is returned by Latest when an asset has no records.
var ErrNoHistory = errors.New("history: no records")

// Latest returns the newest record of asset.
func (s *Store) Latest(ctx context.Context, asset string) (Record, error) {
	records, err := s.List(ctx, asset, 1)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, fmt.Errorf("%w for %s", ErrNoHistory, asset)
	}
	return records[0], nil
}
