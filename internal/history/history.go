// Package history persists one row per audit run in a SQLite database so
// successive runs can be compared.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/paulbreuler/runi-audit/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	timestamp TIMESTAMP NOT NULL,
	total_components INTEGER NOT NULL,
	total_issues INTEGER NOT NULL,
	critical INTEGER NOT NULL,
	high INTEGER NOT NULL,
	medium INTEGER NOT NULL,
	low INTEGER NOT NULL,
	overall_score REAL NOT NULL,
	grade TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_runs_timestamp ON audit_runs(timestamp);
`

// Entry is one recorded run.
type Entry struct {
	RunID            string
	Timestamp        time.Time
	TotalComponents  int
	TotalIssues      int
	IssuesByPriority map[types.Priority]int
	OverallScore     float64
	Grade            types.Grade
}

// Trend direction labels.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendSteady    = "steady"
)

// steadyBand is the score delta below which two runs count as steady.
const steadyBand = 0.5

// Trend compares the two most recent runs.
type Trend struct {
	Direction string
	Delta     float64
}

// Store is the SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one run summary.
func (s *Store) Record(ctx context.Context, summary *types.RunSummary) error {
	query := `
		INSERT INTO audit_runs (
			run_id, timestamp, total_components, total_issues,
			critical, high, medium, low, overall_score, grade
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		summary.RunID,
		summary.Timestamp.UTC(),
		summary.TotalComponents,
		summary.TotalIssues,
		summary.IssuesByPriority[types.PriorityCritical],
		summary.IssuesByPriority[types.PriorityHigh],
		summary.IssuesByPriority[types.PriorityMedium],
		summary.IssuesByPriority[types.PriorityLow],
		summary.OverallScore,
		string(summary.Grade),
	)
	if err != nil {
		return fmt.Errorf("failed to record audit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT run_id, timestamp, total_components, total_issues,
		       critical, high, medium, low, overall_score, grade
		FROM audit_runs
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var critical, high, medium, low int
		var grade string
		err := rows.Scan(
			&e.RunID,
			&e.Timestamp,
			&e.TotalComponents,
			&e.TotalIssues,
			&critical,
			&high,
			&medium,
			&low,
			&e.OverallScore,
			&grade,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit run: %w", err)
		}
		e.IssuesByPriority = map[types.Priority]int{
			types.PriorityCritical: critical,
			types.PriorityHigh:     high,
			types.PriorityMedium:   medium,
			types.PriorityLow:      low,
		}
		e.Grade = types.Grade(grade)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit runs: %w", err)
	}
	return entries, nil
}

// ComputeTrend compares the two latest runs. The second return is false
// when fewer than two runs exist.
func (s *Store) ComputeTrend(ctx context.Context) (Trend, bool, error) {
	entries, err := s.Recent(ctx, 2)
	if err != nil {
		return Trend{}, false, err
	}
	if len(entries) < 2 {
		return Trend{}, false, nil
	}

	delta := entries[0].OverallScore - entries[1].OverallScore
	direction := TrendSteady
	switch {
	case delta > steadyBand:
		direction = TrendImproving
	case delta < -steadyBand:
		direction = TrendDeclining
	}
	return Trend{Direction: direction, Delta: delta}, true, nil
}
