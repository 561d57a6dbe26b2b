package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/your-org/bdd-html-report/pkg/logger"
	"github.com/your-org/bdd-html-report/pkg/models"
)

// Database persists the grand totals of past report generation runs so the
// report server can list them.
type Database struct {
	db   *sql.DB
	path string
}

// RunRecord is one generation run's grand totals.
type RunRecord struct {
	ID           string    `json:"id"`
	GeneratedAt  time.Time `json:"generatedAt"`
	OnlyFailures bool      `json:"onlyFailures"`
	Scenarios    int       `json:"scenarios"`
	Passed       int       `json:"passed"`
	Failed       int       `json:"failed"`
	Skipped      int       `json:"skipped"`
	Steps        int       `json:"steps"`
	Duration     float64   `json:"duration"`
}

// FeatureRecord is one feature's rollup within a run.
type FeatureRecord struct {
	RunID      string  `json:"runId"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Scenarios  int     `json:"scenarios"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	Skipped    int     `json:"skipped"`
	TotalSteps int     `json:"totalSteps"`
	Duration   float64 `json:"duration"`
}

// Open creates or opens the history database under baseDir.
func Open(baseDir string) (*Database, error) {
	historyDir := filepath.Join(baseDir, ".report-history")
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	dbPath := filepath.Join(historyDir, "history.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	database := &Database{db: db, path: dbPath}
	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	logger.Debugf("History database opened at %s", dbPath)
	return database, nil
}

func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			generated_at DATETIME NOT NULL,
			only_failures INTEGER NOT NULL DEFAULT 0,
			scenarios INTEGER,
			passed INTEGER,
			failed INTEGER,
			skipped INTEGER,
			steps INTEGER,
			duration REAL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_runs_generated_at
		 ON runs(generated_at DESC)`,

		`CREATE TABLE IF NOT EXISTS feature_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			feature_name TEXT NOT NULL,
			status TEXT NOT NULL,
			scenarios INTEGER,
			passed INTEGER,
			failed INTEGER,
			skipped INTEGER,
			total_steps INTEGER,
			duration REAL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_feature_history_run
		 ON feature_history(run_id)`,

		`CREATE INDEX IF NOT EXISTS idx_feature_history_name
		 ON feature_history(feature_name)`,
	}

	for i, migration := range migrations {
		if _, err := d.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}

// SaveRun stores one run's totals and per-feature rollups.
func (d *Database) SaveRun(run *RunRecord, features []*models.Feature) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (
			id, generated_at, only_failures, scenarios,
			passed, failed, skipped, steps, duration
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.GeneratedAt.Format(time.RFC3339),
		run.OnlyFailures,
		run.Scenarios,
		run.Passed,
		run.Failed,
		run.Skipped,
		run.Steps,
		run.Duration,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, feature := range features {
		_, err = tx.Exec(
			`INSERT INTO feature_history (
				run_id, feature_name, status, scenarios,
				passed, failed, skipped, total_steps, duration
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			feature.Name,
			feature.Status,
			feature.TotalScenarios,
			feature.PassedCount,
			feature.FailedCount,
			feature.SkippedCount,
			feature.TotalSteps,
			feature.Duration,
		)
		if err != nil {
			return fmt.Errorf("failed to save feature %q: %w", feature.Name, err)
		}
	}

	return tx.Commit()
}

// RecentRuns retrieves the last limit runs, newest first.
func (d *Database) RecentRuns(limit int) ([]RunRecord, error) {
	rows, err := d.db.Query(
		`SELECT id, generated_at, only_failures, scenarios,
			passed, failed, skipped, steps, duration
		 FROM runs
		 ORDER BY generated_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		var generatedAt string
		err := rows.Scan(
			&run.ID,
			&generatedAt,
			&run.OnlyFailures,
			&run.Scenarios,
			&run.Passed,
			&run.Failed,
			&run.Skipped,
			&run.Steps,
			&run.Duration,
		)
		if err != nil {
			return nil, err
		}
		run.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// FeatureRuns retrieves the history of one feature across runs, newest first.
func (d *Database) FeatureRuns(featureName string, limit int) ([]FeatureRecord, error) {
	rows, err := d.db.Query(
		`SELECT fh.run_id, fh.feature_name, fh.status, fh.scenarios,
			fh.passed, fh.failed, fh.skipped, fh.total_steps, fh.duration
		 FROM feature_history fh
		 JOIN runs r ON fh.run_id = r.id
		 WHERE fh.feature_name = ?
		 ORDER BY r.generated_at DESC
		 LIMIT ?`, featureName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []FeatureRecord
	for rows.Next() {
		var rec FeatureRecord
		err := rows.Scan(
			&rec.RunID,
			&rec.Name,
			&rec.Status,
			&rec.Scenarios,
			&rec.Passed,
			&rec.Failed,
			&rec.Skipped,
			&rec.TotalSteps,
			&rec.Duration,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Close closes the database connection.
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
