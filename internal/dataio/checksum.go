package dataio

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"
)

// FileChecksum returns the SHA1 hash of a file's content.
// Used to detect changed import files between runs.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for checksum: %w", err)
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
