package main

import (
	"fmt"

	"github.com/savegem/dbm/internal/dataio"
	"github.com/savegem/dbm/internal/util"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import table data from JSON envelope files",
	Long: `Import table data from JSON envelopes into the database.

With --file a single envelope is imported. With --manifest each file
listed in the manifest (one relative path per line, # for comments) is
checked against its last imported checksum and only changed files are
imported again.

Importing replaces all rows in the envelope's (optionally filtered)
table scope, it does not merge.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("file", "", "envelope file to import")
	importCmd.Flags().String("manifest", "", "manifest listing envelope files to import")
	importCmd.MarkFlagsOneRequired("file", "manifest")
	importCmd.MarkFlagsMutuallyExclusive("file", "manifest")
}

func runImport(cmd *cobra.Command, args []string) error {
	filePath, _ := cmd.Flags().GetString("file")
	manifestPath, _ := cmd.Flags().GetString("manifest")

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline := dataio.NewImportPipeline(db, registry)

	if filePath != "" {
		if err := pipeline.ImportFile(filePath); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		return nil
	}

	if err := pipeline.ImportManifest(manifestPath); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	util.InfoLog("Import complete.")
	return nil
}
