package main

import (
	"fmt"
	"os"

	"github.com/savegem/dbm/internal/dataio"
	"github.com/savegem/dbm/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	// registry holds the importer/extractor strategies. Constructed once
	// at process start; custom strategies would be registered here before
	// rootCmd executes.
	registry = dataio.NewRegistry()

	rootCmd = &cobra.Command{
		Use:   "dbm",
		Short: "Database management tool - schema migrations and table data sync",
		Long: `dbm applies versioned SQL migration scripts exactly once, in a
deterministic global order, and moves table data to and from portable
JSON envelopes with checksum-gated re-import.

The database is a SQLite file; the path may reference environment
variables (e.g. $HOME/savegem.db) which are expanded before connecting.`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/dbm.yaml)")
	rootCmd.PersistentFlags().String("database", "", "path to the SQLite database file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	// Bind flags to viper
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in common locations
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("dbm")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("DBM")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Critical error: %v\n", err)
		os.Exit(1)
	}
}
