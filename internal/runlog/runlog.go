// Package runlog persists parity run history in SQLite so regressions can
// be traced across pipeline revisions.
package runlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/DrSh4dow/vision/internal/parity"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS parity_runs (
	run_id        TEXT PRIMARY KEY,
	baseline_dir  TEXT NOT NULL,
	candidate_dir TEXT NOT NULL,
	compared      INTEGER NOT NULL,
	passed        INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fixture_results (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	fixture      TEXT NOT NULL,
	passed       INTEGER NOT NULL,
	violations   TEXT,
	deltas_json  TEXT,
	created_at   TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES parity_runs(run_id)
);
`

// #endregion schema

// #region store

// Store manages parity run history in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store

// #region log-run

// LogRun persists a parity report and its per-fixture results in one
// transaction. Returns the new run ID.
func (s *Store) LogRun(report parity.Report, candidateDir, baselineDir string, passed bool) (string, error) {
	runID := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO parity_runs (run_id, baseline_dir, candidate_dir, compared, passed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, baselineDir, candidateDir, report.Compared, boolInt(passed), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, result := range report.Results {
		deltas, err := json.Marshal(map[string]float64{
			"stitch_delta_pct": result.StitchDeltaPct,
			"jump_ratio":       result.JumpRatio,
			"trim_ratio":       result.TrimRatio,
			"travel_ratio":     result.TravelRatio,
			"density_over":     result.DensityOver,
			"angle_over":       result.AngleOver,
			"coverage_over":    result.CoverageOver,
		})
		if err != nil {
			return "", fmt.Errorf("marshal deltas: %w", err)
		}

		_, err = tx.Exec(
			`INSERT INTO fixture_results (run_id, fixture, passed, violations, deltas_json, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, result.Name, boolInt(result.Passed),
			nullIfEmpty(strings.Join(result.Violations, ", ")), string(deltas),
			now.Format(time.RFC3339Nano),
		)
		if err != nil {
			return "", fmt.Errorf("insert fixture result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// #endregion log-run

// #region list-runs

// ListRuns returns the most recent n runs, newest first.
func (s *Store) ListRuns(n int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, baseline_dir, candidate_dir, compared, passed, created_at
		 FROM parity_runs ORDER BY created_at DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var passed int
		var createdAt string
		if err := rows.Scan(&r.RunID, &r.BaselineDir, &r.CandidateDir, &r.Compared, &passed, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Passed = passed != 0
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// FixtureResults returns the per-fixture rows of one run, insertion order.
func (s *Store) FixtureResults(runID string) ([]FixtureRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, fixture, passed, violations, deltas_json, created_at
		 FROM fixture_results WHERE run_id = ? ORDER BY id ASC`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query fixture results: %w", err)
	}
	defer rows.Close()

	var results []FixtureRecord
	for rows.Next() {
		var f FixtureRecord
		var passed int
		var violations sql.NullString
		var createdAt string
		if err := rows.Scan(&f.RunID, &f.Fixture, &passed, &violations, &f.DeltasJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan fixture result: %w", err)
		}
		f.Passed = passed != 0
		if violations.Valid {
			f.Violations = violations.String
		}
		f.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fixture results: %w", err)
	}
	return results, nil
}

// #endregion list-runs

// #region helpers

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
