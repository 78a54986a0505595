package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrBadMigrationName indicates a migration file name that does not
	// follow the <version>__<description> naming scheme
	ErrBadMigrationName = errors.New("invalid migration name")

	// ErrMissingMetadata indicates a data envelope without required metadata
	ErrMissingMetadata = errors.New("missing envelope metadata")

	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)
