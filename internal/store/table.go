package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Row is a flat table row: column name to scalar value. NULL columns
// carry a nil value.
type Row map[string]any

// quoteIdent quotes a table name for use in generated SQL
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ReadRows retrieves all rows of a table, optionally narrowed by a raw
// SQL predicate. The filter comes from trusted envelope metadata or the
// command line, never from table data.
func (s *Store) ReadRows(table, filter string) ([]Row, error) {
	query := "SELECT * FROM " + quoteIdent(table)
	if filter != "" {
		query += " WHERE " + filter
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for %s: %w", table, err)
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(columns))
		for i := range values {
			values[i] = new(any)
		}
		if err := rows.Scan(values...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", table, err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			v := *(values[i].(*any))
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// DeleteRows deletes all rows of a table matching the optional predicate,
// inside the caller's transaction.
func DeleteRows(tx *sql.Tx, table, filter string) (int64, error) {
	query := "DELETE FROM " + quoteIdent(table)
	if filter != "" {
		query += " WHERE " + filter
	}

	result, err := tx.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// InsertRow inserts one row inside the caller's transaction. Only the
// columns present in the row are set; absent columns keep their defaults.
func InsertRow(tx *sql.Tx, table string, row Row) error {
	if len(row) == 0 {
		return fmt.Errorf("refusing to insert empty row into %s", table)
	}

	// Deterministic column order for stable SQL
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	values := make([]any, len(columns))
	quoted := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = "?"
		values[i] = row[col]
		quoted[i] = quoteIdent(col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	if _, err := tx.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}
