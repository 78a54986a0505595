package dataio

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/savegem/dbm/internal/store"
	"github.com/savegem/dbm/internal/util"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func createUsersTable(t *testing.T, s *store.Store) {
	t.Helper()

	err := s.ExecScript(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			name TEXT,
			value TEXT DEFAULT 'fallback',
			is_active INTEGER DEFAULT 1
		);
	`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
}

func seedUsers(t *testing.T, s *store.Store, rows ...store.Row) {
	t.Helper()

	err := s.Transaction(func(tx *sql.Tx) error {
		for _, row := range rows {
			if err := store.InsertRow(tx, "users", row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to seed rows: %v", err)
	}
}

func TestImportReplacesAllRows(t *testing.T) {
	s := openTestStore(t)
	createUsersTable(t, s)
	seedUsers(t, s,
		store.Row{"id": int64(1), "name": "Old"},
		store.Row{"id": int64(2), "name": "Stale"},
	)

	path := filepath.Join(t.TempDir(), "users.json")
	writeFile(t, path, `{
		"metadata": {"table_name": "users", "type": "Regular"},
		"data": [{"id": 7, "name": "Alice"}]
	}`)

	if err := NewRegularImporter(nil).Import(s, path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	rows, err := s.ReadRows("users", "")
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected all previous rows replaced, got %d rows", len(rows))
	}
	if rows[0]["id"] != int64(7) || rows[0]["name"] != "Alice" {
		t.Errorf("unexpected imported row: %v", rows[0])
	}
}

func TestImportWithFilterLeavesOtherRowsUntouched(t *testing.T) {
	s := openTestStore(t)
	createUsersTable(t, s)
	seedUsers(t, s,
		store.Row{"id": int64(1), "name": "Active", "is_active": int64(1)},
		store.Row{"id": int64(2), "name": "Inactive", "is_active": int64(0)},
	)

	path := filepath.Join(t.TempDir(), "users.json")
	writeFile(t, path, `{
		"metadata": {"table_name": "users", "type": "Regular", "filter": "is_active = 0"},
		"data": [{"id": 9, "name": "Replacement", "is_active": 0}]
	}`)

	if err := NewRegularImporter(nil).Import(s, path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	active, err := s.ReadRows("users", "is_active = 1")
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if len(active) != 1 || active[0]["name"] != "Active" {
		t.Errorf("expected rows outside the filter to survive, got %v", active)
	}

	inactive, err := s.ReadRows("users", "is_active = 0")
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if len(inactive) != 1 || inactive[0]["name"] != "Replacement" {
		t.Errorf("expected filtered scope to be replaced, got %v", inactive)
	}
}

func TestImportLeavesOmittedColumnsAtDefault(t *testing.T) {
	s := openTestStore(t)
	createUsersTable(t, s)

	// A record exported with a null value carries no "value" key at all
	path := filepath.Join(t.TempDir(), "users.json")
	writeFile(t, path, `{
		"metadata": {"table_name": "users", "type": "Regular"},
		"data": [{"id": 1, "name": "Alice"}]
	}`)

	if err := NewRegularImporter(nil).Import(s, path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	rows, err := s.ReadRows("users", "")
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if rows[0]["value"] != "fallback" {
		t.Errorf("expected omitted column at its default, got %v", rows[0]["value"])
	}
}

func TestImportAppliesFormatFunc(t *testing.T) {
	s := openTestStore(t)
	createUsersTable(t, s)

	path := filepath.Join(t.TempDir(), "users.json")
	writeFile(t, path, `{
		"metadata": {"table_name": "users", "type": "Regular"},
		"data": [{"id": 1, "name": "alice"}]
	}`)

	importer := NewRegularImporter(func(rows []store.Row, meta Metadata) []store.Row {
		for _, row := range rows {
			row["name"] = "formatted"
		}
		return rows
	})

	if err := importer.Import(s, path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	rows, err := s.ReadRows("users", "")
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if rows[0]["name"] != "formatted" {
		t.Errorf("expected format hook to reshape records, got %v", rows[0]["name"])
	}
}

func TestImportRequiresFilePath(t *testing.T) {
	s := openTestStore(t)

	err := NewRegularImporter(nil).Import(s, "")
	if !errors.Is(err, util.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

type countingImporter struct {
	calls int
}

func (c *countingImporter) Import(*store.Store, string) error {
	c.calls++
	return nil
}

func writeCountedEnvelope(t *testing.T, path string) {
	writeFile(t, path, `{
		"metadata": {"table_name": "users", "type": "Counted"},
		"data": []
	}`)
}

func TestManifestChecksumGating(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()

	counter := &countingImporter{}
	registry := NewRegistry()
	registry.AddImporter("Counted", counter)
	pipeline := NewImportPipeline(s, registry)

	writeCountedEnvelope(t, filepath.Join(dir, "f.json"))
	manifest := filepath.Join(dir, "import.txt")
	writeFile(t, manifest, "f.json\n")

	// First run imports the file and records its checksum
	if err := pipeline.ImportManifest(manifest); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if counter.calls != 1 {
		t.Fatalf("expected 1 importer invocation, got %d", counter.calls)
	}

	checksum, tracked, err := s.GetImportChecksum("f.json")
	if err != nil {
		t.Fatalf("GetImportChecksum failed: %v", err)
	}
	if !tracked || checksum == "" {
		t.Fatalf("expected checksum to be recorded, got %q", checksum)
	}

	// Unchanged content: the record is re-saved but nothing imports
	if err := pipeline.ImportManifest(manifest); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if counter.calls != 1 {
		t.Errorf("expected no additional importer invocations, got %d", counter.calls)
	}

	// Changed content: exactly one more invocation, checksum updated
	writeFile(t, filepath.Join(dir, "f.json"), `{
		"metadata": {"table_name": "users", "type": "Counted"},
		"data": [{"id": 1}]
	}`)

	if err := pipeline.ImportManifest(manifest); err != nil {
		t.Fatalf("third run failed: %v", err)
	}
	if counter.calls != 2 {
		t.Errorf("expected exactly one more invocation, got %d total", counter.calls)
	}

	updated, _, err := s.GetImportChecksum("f.json")
	if err != nil {
		t.Fatalf("GetImportChecksum failed: %v", err)
	}
	if updated == checksum {
		t.Error("expected checksum to change with file content")
	}
}

func TestManifestImportsInManifestOrder(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()

	var order []string
	registry := NewRegistry()
	registry.AddImporter("Recorded", importerFunc(func(_ *store.Store, path string) error {
		order = append(order, filepath.Base(path))
		return nil
	}))
	pipeline := NewImportPipeline(s, registry)

	for _, name := range []string{"b.json", "a.json"} {
		writeFile(t, filepath.Join(dir, name), `{
			"metadata": {"table_name": "users", "type": "Recorded"},
			"data": []
		}`)
	}
	manifest := filepath.Join(dir, "import.txt")
	writeFile(t, manifest, "b.json\na.json\n")

	if err := pipeline.ImportManifest(manifest); err != nil {
		t.Fatalf("ImportManifest failed: %v", err)
	}

	if len(order) != 2 || order[0] != "b.json" || order[1] != "a.json" {
		t.Errorf("expected manifest order to be preserved, got %v", order)
	}
}

type importerFunc func(*store.Store, string) error

func (f importerFunc) Import(s *store.Store, path string) error { return f(s, path) }

func TestManifestMissingFileFails(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()

	manifest := filepath.Join(dir, "import.txt")
	writeFile(t, manifest, "missing.json\n")

	if err := NewImportPipeline(s, NewRegistry()).ImportManifest(manifest); err == nil {
		t.Error("expected manifest referencing a missing file to fail")
	}
}

func TestImportFileUnknownTypeFallsBackToRegular(t *testing.T) {
	s := openTestStore(t)
	createUsersTable(t, s)

	path := filepath.Join(t.TempDir(), "users.json")
	writeFile(t, path, `{
		"metadata": {"table_name": "users", "type": "Bogus"},
		"data": [{"id": 1, "name": "Alice"}]
	}`)

	if err := NewImportPipeline(s, NewRegistry()).ImportFile(path); err != nil {
		t.Fatalf("expected unknown type to import via Regular, got %v", err)
	}

	rows, err := s.ReadRows("users", "")
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 imported row, got %d", len(rows))
	}
}

func TestImportFileRequiresPath(t *testing.T) {
	s := openTestStore(t)

	err := NewImportPipeline(s, NewRegistry()).ImportFile("")
	if !errors.Is(err, util.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
