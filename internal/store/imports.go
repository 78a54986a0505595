package store

import (
	"database/sql"
	"fmt"
)

// ImportVersion is one tracked import-source file in import_data_version.
// Checksum is empty until the first successful checksum save.
type ImportVersion struct {
	FileName string
	Checksum string
}

// GetImportChecksum returns the stored checksum for a manifest entry.
// The second return value is false when the file has never been tracked,
// which callers treat the same as a differing checksum.
func (s *Store) GetImportChecksum(fileName string) (string, bool, error) {
	var checksum sql.NullString
	err := s.db.QueryRow(
		"SELECT checksum FROM import_data_version WHERE file_name = ?", fileName,
	).Scan(&checksum)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query import_data_version: %w", err)
	}
	return checksum.String, true, nil
}

// SaveImportChecksum creates or updates the tracking record for a
// manifest entry. Called on every manifest line, changed or not.
func (s *Store) SaveImportChecksum(fileName, checksum string) error {
	_, err := s.db.Exec(`
		INSERT INTO import_data_version (file_name, checksum)
		VALUES (?, ?)
		ON CONFLICT(file_name) DO UPDATE SET checksum = excluded.checksum
	`, fileName, checksum)

	if err != nil {
		return fmt.Errorf("failed to save import checksum: %w", err)
	}
	return nil
}

// ListImportVersions returns all tracked import files
func (s *Store) ListImportVersions() ([]*ImportVersion, error) {
	rows, err := s.db.Query(`
		SELECT file_name, COALESCE(checksum, '')
		FROM import_data_version ORDER BY file_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query import_data_version: %w", err)
	}
	defer rows.Close()

	var versions []*ImportVersion
	for rows.Next() {
		v := &ImportVersion{}
		if err := rows.Scan(&v.FileName, &v.Checksum); err != nil {
			return nil, fmt.Errorf("failed to scan import version: %w", err)
		}
		versions = append(versions, v)
	}

	return versions, rows.Err()
}
