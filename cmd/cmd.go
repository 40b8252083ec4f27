// Package cmd defines the command-line interface for svnplot.
package cmd

import (
	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(chartsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every revision and retry at debug level")
	rootCmd.PersistentFlags().BoolP("log", "g", false, "Also write the log to "+contract.LogFileName+" next to the store")
	rootCmd.PersistentFlags().StringP("filter", "f", "", "Only count paths at or below this repository path")
	rootCmd.PersistentFlags().String("author", "", "Only count revisions by this author (\"unknown\" for revisions without one)")
	rootCmd.PersistentFlags().Int("depth", contract.DefaultDepth, "Directory depth for directory sizes")
	rootCmd.PersistentFlags().Int("max-authors", contract.DefaultMaxAuthors, "Number of authors in per-author statistics (0 = all)")
	rootCmd.PersistentFlags().String("timezone", "", "IANA time zone for dates and hours (default UTC)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Flags shared by the commands that talk to the repository
	for _, c := range []*cobra.Command{convertCmd, backfillCmd} {
		c.Flags().StringP("username", "u", "", "Subversion user name")
		c.Flags().StringP("password", "p", "", "Subversion password (prefer SVNPLOT_PASSWORD)")
		c.Flags().Int("batch-size", contract.DefaultBatchSize, "Revisions fetched per svn log call")
	}
	convertCmd.Flags().BoolP("linecount", "l", false, "Compute added and deleted lines of every change")
	convertCmd.Flags().Int("max-retries", contract.DefaultMaxRetries, "Attempts before giving up on a failing repository")
	convertCmd.Flags().String("retry-delay", contract.DefaultRetryDelay.String(), "Wait between attempts")
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
}
