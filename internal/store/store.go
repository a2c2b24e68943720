// Package store persists conversion history and harvested contacts in a
// local SQLite database.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/eml2pdf/internal/model"
)

// RunSummary is one recorded conversion run.
type RunSummary struct {
	ID              string
	InputFolder     string
	OutputFolder    string
	TotalFiles      int
	Successful      int
	Failed          int
	Cancelled       bool
	AddressBookPath string
	ReportPath      string
	CreatedAt       time.Time
}

// Store wraps the history database.
type Store struct {
	db *sqlx.DB
}

// New opens (or creates) a SQLite database at dbPath, enables WAL mode,
// and runs any pending schema migrations.
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// RecordRun persists one conversion run along with its per-file results
// and returns the generated run ID.
func (s *Store) RecordRun(
	ctx context.Context,
	inputFolder string,
	batch model.BatchResult,
) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.New().String()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, input_folder, output_folder,
			total_files, successful, failed, cancelled,
			address_book_path, report_path, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, inputFolder, batch.OutputFolder,
		batch.TotalFiles, batch.Successful, batch.Failed, boolToInt(batch.Cancelled),
		batch.AddressBookPath, batch.ReportPath, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	const fileQuery = `
		INSERT INTO run_files (id, run_id, source_file, output_path, success, error)
		VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, fileQuery)
	if err != nil {
		return "", fmt.Errorf("preparing run file statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range batch.Results {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		_, err = stmt.ExecContext(ctx,
			uuid.New().String(), runID,
			r.SourceFile, r.OutputPath, boolToInt(r.Success), errText,
		)
		if err != nil {
			return "", fmt.Errorf("inserting run file %s: %w", r.SourceFile, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// SaveContacts upserts contacts keyed by email, keeping the earliest
// recorded name and type for an address.
func (s *Store) SaveContacts(ctx context.Context, list []model.Contact) error {
	if len(list) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO contacts (email, name, type, first_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing contact statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, c := range list {
		if _, err := stmt.ExecContext(ctx, c.Email, c.Name, c.Type, now); err != nil {
			return fmt.Errorf("upserting contact %s: %w", c.Email, err)
		}
	}

	return tx.Commit()
}

// ListContacts returns every stored contact ordered by name.
func (s *Store) ListContacts(ctx context.Context) ([]model.Contact, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT email, name, type FROM contacts ORDER BY name, email",
	)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.Email, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

// RecentRuns returns the most recent conversion runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, input_folder, output_folder,
		       total_files, successful, failed, cancelled,
		       address_book_path, report_path, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r         RunSummary
			cancelled int
		)
		err := rows.Scan(
			&r.ID, &r.InputFolder, &r.OutputFolder,
			&r.TotalFiles, &r.Successful, &r.Failed, &cancelled,
			&r.AddressBookPath, &r.ReportPath, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.Cancelled = cancelled != 0
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
