package dataio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestEntry is one file referenced by a manifest. Name is the path
// as listed (the tracking key in import_data_version); Path is resolved
// against the manifest's directory.
type ManifestEntry struct {
	Name string
	Path string
}

// ParseManifest reads a plain-text manifest: one path per line, relative
// to the manifest's own directory. Blank lines and #-comments are
// skipped; forward slashes are normalized to the host separator.
func ParseManifest(path string) ([]ManifestEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	dir := filepath.Dir(path)
	var entries []ManifestEntry

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		line = strings.ReplaceAll(line, "/", string(os.PathSeparator))

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entries = append(entries, ManifestEntry{
			Name: line,
			Path: filepath.Join(dir, line),
		})
	}

	return entries, nil
}
