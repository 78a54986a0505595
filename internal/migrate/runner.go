package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/savegem/dbm/internal/store"
	"github.com/savegem/dbm/internal/util"
)

// Runner discovers migration scripts across one or more directories and
// applies each unapplied script exactly once, in lexicographic order of
// the base file names.
type Runner struct {
	store     *store.Store
	extraDirs []string
}

// Result summarizes a migration run
type Result struct {
	Applied int
	Skipped int
}

// New creates a Runner. Extra directories registered here are scanned in
// addition to the directories passed to Run.
func New(s *store.Store, extraDirs ...string) *Runner {
	return &Runner{store: s, extraDirs: extraDirs}
}

// migrationFile is one discovered script; Name decides global ordering,
// regardless of which directory contributed the file.
type migrationFile struct {
	Name string
	Path string
}

// Run applies every unapplied migration found in the configured
// directories. Directories are flattened into one list before sorting,
// so scripts from different directories interleave by file name.
func (r *Runner) Run(dirs []string) (*Result, error) {
	files, err := r.discover(dirs)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if len(files) == 0 {
		util.InfoLog("No migration files found. Nothing to do.")
		return result, nil
	}

	// Fast path: if the sort-last file is already recorded, skip the
	// whole run. This assumes file names grow monotonically; a new
	// script that sorts before the last applied one would be missed
	// here, so keep version tokens zero-padded and fixed-width.
	last := files[len(files)-1]
	util.InfoLog("Latest observed migration: %s.", last.Name)

	applied, err := r.store.HasMigration(StripExtension(last.Name))
	if err != nil {
		return nil, err
	}
	if applied {
		util.InfoLog("No migrations to perform.")
		result.Skipped = len(files)
		return result, nil
	}

	for _, file := range files {
		// Validate the name before touching the database for this file
		parsed, err := ParseName(file.Name)
		if err != nil {
			return nil, err
		}

		exists, err := r.store.HasMigration(parsed.FileName)
		if err != nil {
			return nil, err
		}
		if exists {
			util.DebugLog("Migration %s has already been executed. Skipping.", file.Name)
			result.Skipped++
			continue
		}

		util.InfoLog("Applying migration %s.", file.Name)

		script, err := os.ReadFile(file.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", file.Path, err)
		}

		if err := r.store.ExecScript(string(script)); err != nil {
			return nil, fmt.Errorf("migration %s failed: %w", file.Name, err)
		}

		record := &store.Migration{
			FileName:    parsed.FileName,
			Version:     parsed.Version,
			Description: parsed.Description,
			DateApplied: time.Now(),
			Success:     true,
		}
		if err := r.store.InsertMigration(record); err != nil {
			return nil, err
		}

		result.Applied++
	}

	util.SuccessLog("All migrations have been executed.")
	return result, nil
}

// discover lists migration scripts in every configured directory and
// returns them sorted by base file name. Subdirectories are not entered.
func (r *Runner) discover(dirs []string) ([]migrationFile, error) {
	var files []migrationFile

	all := make([]string, 0, len(r.extraDirs)+len(dirs))
	all = append(all, r.extraDirs...)
	all = append(all, dirs...)

	for _, dir := range all {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list migration directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			files = append(files, migrationFile{
				Name: entry.Name(),
				Path: filepath.Join(dir, entry.Name()),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
