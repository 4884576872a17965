package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/osintscan/osintscan/internal/investigate"
	"github.com/osintscan/osintscan/internal/model"
)

// dbFileName is the SQLite database file created under the data
// directory.
const dbFileName = "osintscan.db"

// ErrDatabaseNotFound is returned by Open when the database file does
// not exist and CreateIfNotExists is disabled.
var ErrDatabaseNotFound = errors.New("database not found")

// CaseDB provides SQLite-based storage for investigation cases.
// It implements investigate.CaseStore.
//
// Design decision: We store each case as one JSON blob plus typed
// metadata columns (identifier, type, score, level, status, creation
// time). The blob keeps the schema stable while the case model
// evolves; the metadata columns let listings and filters run without
// deserializing every case.
type CaseDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CaseDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CaseDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created; otherwise a missing database is an error.
func Open(dbDir string, opts Options) (*CaseDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s (use CreateIfNotExists option to create)", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; extra connections just contend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CaseDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CaseDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CaseDB) createTables() error {
	schema := `
	-- Cases store complete investigations as JSON plus query metadata
	CREATE TABLE IF NOT EXISTS cases (
		id TEXT PRIMARY KEY,
		identifier TEXT NOT NULL,
		type TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		level TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		case_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cases_identifier ON cases(identifier);
	CREATE INDEX IF NOT EXISTS idx_cases_created ON cases(created_at);
	CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// Save stores a case, replacing any previous version with the same id.
func (cdb *CaseDB) Save(ctx context.Context, c *model.InvestigationCase) error {
	caseJSON, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize case: %w", err)
	}

	var score int
	var level string
	if c.Score != nil {
		score = c.Score.Score
		level = c.Score.LevelText
	}

	query := `
	INSERT INTO cases (id, identifier, type, score, level, status, created_at, case_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		score = excluded.score,
		level = excluded.level,
		status = excluded.status,
		case_json = excluded.case_json
	`

	_, err = cdb.db.ExecContext(ctx, query,
		c.ID,
		c.Identifier.Raw,
		string(c.Identifier.Type),
		score,
		level,
		string(c.Status),
		c.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(caseJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save case: %w", err)
	}

	return nil
}

// Get retrieves a case by id, or investigate.ErrCaseNotFound.
func (cdb *CaseDB) Get(ctx context.Context, id string) (*model.InvestigationCase, error) {
	query := `SELECT case_json FROM cases WHERE id = ?`

	var caseJSON string
	err := cdb.db.QueryRowContext(ctx, query, id).Scan(&caseJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, investigate.ErrCaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	var c model.InvestigationCase
	if err := json.Unmarshal([]byte(caseJSON), &c); err != nil {
		return nil, fmt.Errorf("failed to parse case: %w", err)
	}
	return &c, nil
}

// GetAll retrieves all stored cases, newest first.
func (cdb *CaseDB) GetAll(ctx context.Context) ([]*model.InvestigationCase, error) {
	query := `SELECT case_json FROM cases ORDER BY created_at DESC, rowid DESC`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*model.InvestigationCase
	for rows.Next() {
		var caseJSON string
		if err := rows.Scan(&caseJSON); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}

		var c model.InvestigationCase
		if err := json.Unmarshal([]byte(caseJSON), &c); err != nil {
			continue // Skip malformed cases
		}
		cases = append(cases, &c)
	}

	return cases, rows.Err()
}

// Update applies a patch to a stored case: an optional status change
// plus custody events to append. The read-modify-write runs in one
// transaction so concurrent patches cannot drop each other's events.
func (cdb *CaseDB) Update(ctx context.Context, id string, p investigate.Patch) error {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var caseJSON string
	err = tx.QueryRowContext(ctx, `SELECT case_json FROM cases WHERE id = ?`, id).Scan(&caseJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return investigate.ErrCaseNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get case: %w", err)
	}

	var c model.InvestigationCase
	if err := json.Unmarshal([]byte(caseJSON), &c); err != nil {
		return fmt.Errorf("failed to parse case: %w", err)
	}

	if p.Status != nil {
		c.Status = *p.Status
	}
	c.Custody = append(c.Custody, p.AppendCustody...)

	updated, err := json.Marshal(&c)
	if err != nil {
		return fmt.Errorf("failed to serialize case: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cases SET status = ?, case_json = ? WHERE id = ?`,
		string(c.Status), string(updated), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update case: %w", err)
	}

	return tx.Commit()
}

// ListSummaries returns case summaries newest first, using only the
// metadata columns. This is more efficient than GetAll when the full
// cases are not needed.
func (cdb *CaseDB) ListSummaries(ctx context.Context) ([]model.CaseSummary, error) {
	query := `
	SELECT id, identifier, type, score, level, status, created_at
	FROM cases
	ORDER BY created_at DESC, rowid DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var summaries []model.CaseSummary
	for rows.Next() {
		var s model.CaseSummary
		var idType, status, createdAt string

		if err := rows.Scan(&s.ID, &s.Identifier, &idType, &s.Score, &s.Level, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		s.Type = model.IdentifierType(idType)
		s.Status = model.CaseStatus(status)
		s.CreatedAt = parseTimestamp(createdAt)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// FindByIdentifier returns all stored cases for the raw identifier,
// newest first. Repeat investigations of the same subject are common;
// this is how an analyst pulls the history.
func (cdb *CaseDB) FindByIdentifier(ctx context.Context, identifier string) ([]*model.InvestigationCase, error) {
	query := `
	SELECT case_json FROM cases
	WHERE identifier = ?
	ORDER BY created_at DESC, rowid DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to find cases: %w", err)
	}
	defer rows.Close()

	var cases []*model.InvestigationCase
	for rows.Next() {
		var caseJSON string
		if err := rows.Scan(&caseJSON); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}

		var c model.InvestigationCase
		if err := json.Unmarshal([]byte(caseJSON), &c); err != nil {
			continue
		}
		cases = append(cases, &c)
	}

	return cases, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // Our own storage format
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. Returns zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
