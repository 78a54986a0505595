package main

import (
	"github.com/savegem/dbm/internal/store"
	"github.com/savegem/dbm/internal/util"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied migrations and tracked import files",
	Long: `Show the current state of the database:

- SQLite version and integrity check result
- All applied migrations from schema_version, in application order
- All tracked import files from import_data_version

This command only reads, it never mutates the database.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	util.InfoLog("SQLite version: %s", store.SQLiteVersion())

	if err := db.CheckIntegrity(); err != nil {
		util.ErrorLog("Integrity: %v", err)
	} else {
		util.SuccessLog("Integrity: ok")
	}

	migrations, err := db.ListMigrations()
	if err != nil {
		return err
	}

	util.InfoLog("")
	util.InfoLog("Applied migrations: %d", len(migrations))
	for _, m := range migrations {
		util.InfoLog("  %s  %s  %s  (%s)",
			m.Version, m.FileName, m.Description,
			m.DateApplied.Format("2006-01-02 15:04:05"))
	}

	imports, err := db.ListImportVersions()
	if err != nil {
		return err
	}

	util.InfoLog("")
	util.InfoLog("Tracked import files: %d", len(imports))
	for _, v := range imports {
		checksum := v.Checksum
		if checksum == "" {
			checksum = "(none)"
		}
		util.InfoLog("  %s  %s", v.FileName, checksum)
	}

	return nil
}
