package main

import (
	"fmt"

	"github.com/savegem/dbm/internal/store"
	"github.com/savegem/dbm/internal/util"
	"github.com/spf13/viper"
)

// GetConfigString retrieves a string config value with proper precedence:
// 1. Command-line flag (if set)
// 2. Environment variable (DBM_*)
// 3. Config file
// 4. Default value
func GetConfigString(key string, defaultValue string) string {
	val := viper.GetString(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// GetConfigStringSlice retrieves a string slice config value
func GetConfigStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

// openDatabase applies the log flags and opens the configured database.
// A missing --database is a configuration error reported before any
// other work happens.
func openDatabase() (*store.Store, error) {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	dbPath := viper.GetString("database")
	if dbPath == "" {
		return nil, fmt.Errorf("%w: --database is required (or set DBM_DATABASE)", util.ErrInvalidConfig)
	}

	util.InfoLog("Opening database: %s", dbPath)

	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
