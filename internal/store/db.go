package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go-ecommerce-analytics/internal/model"
	"go-ecommerce-analytics/pkg/utils"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Store tracks export runs, their errors and their generated files.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at dbPath and ensures the
// schema exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}

	logger.Info().Str("path", dbPath).Msg("run store opened")
	return s, nil
}

// NewWithDB wraps an existing database handle. The schema is assumed to be
// in place; tests use this with a mock connection.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		config TEXT,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorsTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	filesTable := `
	CREATE TABLE IF NOT EXISTS run_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		name TEXT,
		path TEXT,
		size_bytes INTEGER,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runsTable, errorsTable, filesTable} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// SaveRun stores a new export run in pending state.
func (s *Store) SaveRun(runID string, cfg model.ExportConfig) error {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(`INSERT INTO runs (id, config, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, configJSON, "pending", now, now)
	return err
}

// UpdateRunStatus updates a run's status.
func (s *Store) UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunError records an error for a run.
func (s *Store) SaveRunError(runID string, runErr error) error {
	if runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, runErr.Error(), now)
	return err
}

// SaveRunFile records one generated file for a run.
func (s *Store) SaveRunFile(runID string, file utils.FileInfo) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO run_files (run_id, name, path, size_bytes, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, file.Name, file.Path, file.SizeBytes, now)
	return err
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns() ([]model.ExportRun, error) {
	rows, err := s.db.Query(`SELECT id, config, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.ExportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by ID.
func (s *Store) GetRun(runID string) (*model.ExportRun, error) {
	row := s.db.QueryRow(`SELECT id, config, status, created_at, updated_at FROM runs WHERE id = ?`, runID)
	return scanRun(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.ExportRun, error) {
	var run model.ExportRun
	var configJSON string
	if err := row.Scan(&run.ID, &configJSON, &run.Status, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(configJSON), &run.Config); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRunErrors returns all errors recorded for a run.
func (s *Store) GetRunErrors(runID string) ([]model.RunError, error) {
	rows, err := s.db.Query(`SELECT id, run_id, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []model.RunError
	for rows.Next() {
		var e model.RunError
		if err := rows.Scan(&e.ID, &e.RunID, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

// GetRunFiles returns the generated file records for a run.
func (s *Store) GetRunFiles(runID string) ([]model.RunFile, error) {
	rows, err := s.db.Query(`SELECT id, run_id, name, path, size_bytes, created_at FROM run_files WHERE run_id = ? ORDER BY name`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []model.RunFile
	for rows.Next() {
		var f model.RunFile
		if err := rows.Scan(&f.ID, &f.RunID, &f.Name, &f.Path, &f.SizeBytes, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
