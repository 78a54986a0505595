package dataio

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/savegem/dbm/internal/store"
	"github.com/savegem/dbm/internal/util"
	"github.com/schollz/progressbar/v3"
)

// ImportPipeline resolves which envelope files need importing and
// dispatches each one to the importer strategy declared in its metadata.
type ImportPipeline struct {
	store    *store.Store
	registry *Registry
}

// NewImportPipeline creates an import pipeline over an open store and a
// populated strategy registry.
func NewImportPipeline(s *store.Store, registry *Registry) *ImportPipeline {
	return &ImportPipeline{store: s, registry: registry}
}

// ImportFile imports a single envelope file. The importer strategy is
// selected by the envelope's metadata.type tag.
func (p *ImportPipeline) ImportFile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: import file path is required", util.ErrInvalidConfig)
	}

	env, err := ReadEnvelope(path)
	if err != nil {
		return err
	}

	importer := p.registry.Importer(env.Metadata.Type)
	return importer.Import(p.store, path)
}

// ImportManifest scans a manifest and imports every referenced file
// whose content checksum differs from the last imported one. Tracking
// records are saved for every manifest line, changed or not, so files
// gain a record the first time any manifest mentions them.
func (p *ImportPipeline) ImportManifest(path string) error {
	entries, err := ParseManifest(path)
	if err != nil {
		return err
	}

	util.InfoLog("Importing manifest: %s (%d entries)", path, len(entries))

	var queued []string

	for _, entry := range entries {
		checksum, err := FileChecksum(entry.Path)
		if err != nil {
			return fmt.Errorf("manifest entry %s: %w", entry.Name, err)
		}

		stored, tracked, err := p.store.GetImportChecksum(entry.Name)
		if err != nil {
			return err
		}

		util.DebugLog("%s: stored: %s, actual: %s", entry.Name, stored, checksum)

		if tracked && stored == checksum {
			util.InfoLog("%s has not been changed. Skipping.", entry.Name)
		} else {
			queued = append(queued, entry.Path)
		}

		// Saved on every line: creates the record on first encounter
		// and records the new checksum for queued files.
		if err := p.store.SaveImportChecksum(entry.Name, checksum); err != nil {
			return err
		}
	}

	if len(queued) == 0 {
		util.InfoLog("All manifest entries are up to date.")
		return nil
	}

	bar := importProgress(len(queued))

	for _, filePath := range queued {
		if err := p.ImportFile(filePath); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	util.SuccessLog("Imported %d of %d manifest entries.", len(queued), len(entries))
	return nil
}

// importProgress returns a progress bar when stdout is a terminal,
// nil otherwise
func importProgress(total int) *progressbar.ProgressBar {
	if !util.IsTerminal(os.Stdout.Fd()) || util.IsQuiet() {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// FormatFunc reshapes decoded envelope records before they are inserted.
// The default is the identity; hosting applications inject their own
// when registering a custom importer.
type FormatFunc func(rows []store.Row, meta Metadata) []store.Row

// RegularImporter replaces all rows in the (optionally filtered) scope
// of the target table with the envelope's records. Destructive: this is
// a replace-all-in-scope, not a merge.
type RegularImporter struct {
	format FormatFunc
}

// NewRegularImporter creates the default importer. A nil format keeps
// records as decoded.
func NewRegularImporter(format FormatFunc) *RegularImporter {
	return &RegularImporter{format: format}
}

// Import reads the envelope at path and writes its records into the
// target table. The deletion and the insertion are two separate commit
// boundaries; an interruption in between leaves the scope empty.
func (i *RegularImporter) Import(s *store.Store, path string) error {
	if path == "" {
		return fmt.Errorf("%w: import file path is required", util.ErrInvalidConfig)
	}

	env, err := ReadEnvelope(path)
	if err != nil {
		return err
	}

	table := env.Metadata.TableName
	filter := env.Metadata.Filter

	data := env.Data
	if i.format != nil {
		data = i.format(data, env.Metadata)
	}

	size := int64(0)
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	util.InfoLog("Importing %s (%s).", path, humanize.Bytes(uint64(size)))
	util.InfoLog("Importer: %s", env.Metadata.Type)
	util.InfoLog("Table: %s", table)
	if filter != "" {
		util.InfoLog("Filter: %s", filter)
	}

	// Materialize the scope before mutating it
	current, err := s.ReadRows(table, filter)
	if err != nil {
		return err
	}

	var deleted int64
	err = s.Transaction(func(tx *sql.Tx) error {
		var txErr error
		deleted, txErr = store.DeleteRows(tx, table, filter)
		return txErr
	})
	if err != nil {
		return err
	}

	util.DebugLog("Removed %d of %d existing rows in scope.", deleted, len(current))

	err = s.Transaction(func(tx *sql.Tx) error {
		for _, record := range data {
			if err := store.InsertRow(tx, table, record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	util.SuccessLog("Imported %d records into %s.", len(data), table)
	return nil
}
