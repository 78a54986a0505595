package main

import (
	"fmt"

	"github.com/savegem/dbm/internal/migrate"
	"github.com/savegem/dbm/internal/util"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL schema migrations",
	Long: `Apply versioned SQL migration scripts that have not been applied yet.

Scripts from all given directories are flattened into one list and
applied in lexicographic order of their file names, so directories can
interleave migrations by name. Each script runs as a single transaction
and is recorded in the schema_version table; already-recorded scripts
are never re-executed.

File names must follow <version>__<description>.sql, for example
v2025_10_12_2205__create_users_table.sql.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringSlice("dir", nil, "migration directory (repeatable)")
	migrateCmd.MarkFlagRequired("dir")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dirs, _ := cmd.Flags().GetStringSlice("dir")

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	util.InfoLog("Starting database upgrade.")

	// Extra directories can be registered in the config file and are
	// scanned ahead of the ones given on the command line.
	runner := migrate.New(db, GetConfigStringSlice("migration-paths")...)

	result, err := runner.Run(dirs)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	util.InfoLog("Applied: %d, already up to date: %d", result.Applied, result.Skipped)
	return nil
}
