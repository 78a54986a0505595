package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration is one applied-migration record in schema_version
type Migration struct {
	ID          int64
	FileName    string
	Version     string
	Description string
	DateApplied time.Time
	Success     bool
}

// HasMigration reports whether a migration with the given file name
// (without extension) has already been recorded as applied.
func (s *Store) HasMigration(fileName string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM schema_version WHERE file_name = ?", fileName,
	).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query schema_version: %w", err)
	}
	return true, nil
}

// InsertMigration records a migration as applied
func (s *Store) InsertMigration(m *Migration) error {
	success := 0
	if m.Success {
		success = 1
	}

	result, err := s.db.Exec(`
		INSERT INTO schema_version (file_name, version, description, date_applied, success)
		VALUES (?, ?, ?, ?, ?)
	`, m.FileName, m.Version, m.Description, m.DateApplied.Format(time.RFC3339), success)

	if err != nil {
		return fmt.Errorf("failed to insert migration record: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		m.ID = id
	}

	return nil
}

// ListMigrations returns all applied migrations in application order
func (s *Store) ListMigrations() ([]*Migration, error) {
	rows, err := s.db.Query(`
		SELECT id, file_name, version, description, date_applied, success
		FROM schema_version ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_version: %w", err)
	}
	defer rows.Close()

	var migrations []*Migration
	for rows.Next() {
		m := &Migration{}
		var applied string
		var success int
		if err := rows.Scan(&m.ID, &m.FileName, &m.Version, &m.Description, &applied, &success); err != nil {
			return nil, fmt.Errorf("failed to scan migration record: %w", err)
		}
		m.DateApplied, _ = time.Parse(time.RFC3339, applied)
		m.Success = success != 0
		migrations = append(migrations, m)
	}

	return migrations, rows.Err()
}
