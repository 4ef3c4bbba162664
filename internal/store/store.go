// Package store persists classification results in DuckDB so that
// mutation calls stay queryable across runs.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/bactwatch/amrpipe/internal/classify"
)

// Store manages a DuckDB connection for classification results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path. Use an
// empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create results directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS mutation_results (
		run_id VARCHAR,
		genome VARCHAR,
		gene VARCHAR,
		mutation VARCHAR,
		status VARCHAR,
		phenotype VARCHAR,
		structure_id VARCHAR,
		confidence DOUBLE,
		source VARCHAR
	)`)
	return err
}

// SaveResults appends all results under the given run ID.
func (s *Store) SaveResults(runID string, results []classify.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO mutation_results VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		var confidence any
		if r.Source != classify.SourceNone {
			confidence = r.Confidence
		}
		if _, err := stmt.Exec(runID, r.GenomeID, r.Gene, r.Token,
			r.Status, r.Phenotype, r.StructureID, confidence, r.Source); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert result %s/%s: %w", r.Gene, r.Token, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}

// Count returns the total number of stored result rows.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM mutation_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

// SummaryRow aggregates stored results per gene and status.
type SummaryRow struct {
	Gene   string
	Status string
	Count  int64
}

// Summary returns result counts grouped by gene and status, ordered
// for stable output.
func (s *Store) Summary() ([]SummaryRow, error) {
	rows, err := s.db.Query(`
		SELECT gene, status, COUNT(*)
		FROM mutation_results
		GROUP BY gene, status
		ORDER BY gene, status
	`)
	if err != nil {
		return nil, fmt.Errorf("summary query: %w", err)
	}
	defer rows.Close()

	var summary []SummaryRow
	for rows.Next() {
		var r SummaryRow
		if err := rows.Scan(&r.Gene, &r.Status, &r.Count); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		summary = append(summary, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary rows: %w", err)
	}
	return summary, nil
}
