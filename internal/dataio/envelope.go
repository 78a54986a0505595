package dataio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/savegem/dbm/internal/store"
	"github.com/savegem/dbm/internal/util"
)

// Metadata describes a data envelope. Filter and ExtractDate are only
// present when set, so import-produced lookups and export output stay
// symmetric.
type Metadata struct {
	TableName   string `json:"table_name"`
	Type        string `json:"type"`
	Filter      string `json:"filter,omitempty"`
	ExtractDate string `json:"extract_date,omitempty"`
}

// Envelope is the JSON unit exchanged between extract and import:
// a metadata header plus an ordered list of flat records.
type Envelope struct {
	Metadata Metadata    `json:"metadata"`
	Data     []store.Row `json:"data"`
}

// ReadEnvelope reads and decodes a data envelope from disk.
// Numbers are decoded with json.Number so integral values round-trip
// as INTEGER instead of degrading to REAL.
func ReadEnvelope(path string) (*Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open envelope: %w", err)
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	decoder.UseNumber()

	env := &Envelope{}
	if err := decoder.Decode(env); err != nil {
		return nil, fmt.Errorf("failed to decode envelope %s: %w", path, err)
	}

	if env.Metadata.TableName == "" {
		return nil, fmt.Errorf("%w: %s has no metadata.table_name", util.ErrMissingMetadata, path)
	}

	for _, row := range env.Data {
		normalizeNumbers(row)
	}

	return env, nil
}

// normalizeNumbers converts json.Number values to int64 when integral,
// float64 otherwise
func normalizeNumbers(row store.Row) {
	for col, value := range row {
		n, ok := value.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			row[col] = i
			continue
		}
		if f, err := n.Float64(); err == nil {
			row[col] = f
		}
	}
}

// WriteEnvelope writes an envelope to disk as indented JSON, creating
// parent directories as needed.
func WriteEnvelope(path string, env *Envelope) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	content, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	if err := os.WriteFile(path, append(content, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write envelope %s: %w", path, err)
	}
	return nil
}

// StripNulls copies records with all null-valued columns removed.
// The input rows are left untouched so callers keep the pre-strip view.
func StripNulls(rows []store.Row) []store.Row {
	stripped := make([]store.Row, len(rows))
	for i, row := range rows {
		record := make(store.Row, len(row))
		for col, value := range row {
			if value == nil {
				continue
			}
			record[col] = value
		}
		stripped[i] = record
	}
	return stripped
}
