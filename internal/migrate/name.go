package migrate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/savegem/dbm/internal/util"
	"golang.org/x/text/unicode/norm"
)

// ParsedName is the version/description pair encoded in a migration
// file name such as v2025_10_12_2205__create_users_table.sql
type ParsedName struct {
	// FileName is the base file name without extension; it is the
	// migration's identity in schema_version
	FileName string

	// Version is the dotted form of the first segment (v2025_10_12 -> 2025.10.12)
	Version string

	// Description is the second segment with underscores as spaces
	Description string
}

// StripExtension returns the base file name without its extension
func StripExtension(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseName parses a migration file name into its version and description.
// The name must contain exactly one "__" separator; anything else is a
// naming error, never silently coerced.
func ParseName(fileName string) (*ParsedName, error) {
	name := StripExtension(fileName)

	parts := strings.Split(name, "__")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q must contain exactly one '__' separator",
			util.ErrBadMigrationName, name)
	}

	version := strings.ReplaceAll(strings.TrimPrefix(parts[0], "v"), "_", ".")
	description := norm.NFC.String(strings.ReplaceAll(parts[1], "_", " "))

	return &ParsedName{
		FileName:    name,
		Version:     version,
		Description: description,
	}, nil
}
