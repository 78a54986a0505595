package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store wraps the single database connection used for a whole run.
// It owns the two tracking tables (schema_version, import_data_version)
// and exposes the script/transaction primitives the pipelines build on.
type Store struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
// Environment variable references in the path (e.g. $HOME/db.sqlite)
// are expanded before connecting. The tracking tables are created if
// they do not exist yet.
func Open(path string) (*Store, error) {
	path = os.ExpandEnv(path)

	// Open with pragmas for performance and reliability
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db}

	if err := store.ensureTrackingTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tracking tables: %w", err)
	}

	return store, nil
}

// ensureTrackingTables creates the migration and import tracking tables.
// Idempotent; safe to call on every open.
func (s *Store) ensureTrackingTables() error {
	_, err := s.db.Exec(trackingSchema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries
func (s *Store) DB() *sql.DB {
	return s.db
}

// Transaction executes a function within a transaction
func (s *Store) Transaction(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ExecScript executes a multi-statement SQL script as one unit.
// The whole script is wrapped in a single transaction, so it either
// fully applies or leaves the database untouched.
func (s *Store) ExecScript(script string) error {
	return s.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(script); err != nil {
			return fmt.Errorf("script execution failed: %w", err)
		}
		return nil
	})
}

// CheckIntegrity runs PRAGMA integrity_check on the database
func (s *Store) CheckIntegrity() error {
	var result string
	err := s.db.QueryRow("PRAGMA integrity_check").Scan(&result)
	if err != nil {
		return fmt.Errorf("integrity check query failed: %w", err)
	}

	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	return nil
}

// SQLiteVersion returns the SQLite version string
func SQLiteVersion() string {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return ""
	}
	defer db.Close()

	var version string
	err = db.QueryRow("SELECT sqlite_version()").Scan(&version)
	if err != nil {
		return ""
	}
	return version
}
