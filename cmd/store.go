package cmd

import (
	"os"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeCmd focused on log store management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the log store",
	Long: `Inspect and maintain the database that holds converted history.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status  - Show revision range, row counts and schema version
  clear   - Remove all converted history
  migrate - Move the schema to a given version
  export  - Write revisions and change details to Parquet files

Examples:
  # Check store status
  svnplot store status /data/repo.db

  # Check a MySQL store
  SVNPLOT_DB_BACKEND=mysql SVNPLOT_DB_CONNECT="user:pass@tcp(localhost:3306)/svn" svnplot store status`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:     "status [store-path]",
	Short:   "Display store statistics and connection details",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupWith(storeArg(0)),
	Run: func(_ *cobra.Command, _ []string) {
		store, err := logdb.Connect(rootCtx, cfg.DatabaseBackend, cfg.DatabaseConnect)
		if err != nil {
			contract.LogFatal("Cannot connect to log store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := logdb.PrintStoreStatus(os.Stdout, status); err != nil {
			contract.LogFatal("Failed to print store status", err)
		}
	},
}

// storeClearCmd removes all converted history.
var storeClearCmd = &cobra.Command{
	Use:   "clear [store-path]",
	Short: "Remove all converted history from the store",
	Long: `Delete every revision, change detail and path from the store. The schema is
kept, so the next convert starts again from the first revision.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupWith(storeArg(0)),
	Run: func(cmd *cobra.Command, _ []string) {
		store := openStore()
		defer func() { _ = store.Close() }()

		if err := store.Clear(rootCtx); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		cmd.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd moves the schema to a target version.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate [store-path]",
	Short: "Migrate the store schema",
	Long: `Apply or roll back schema migrations.

Every other command migrates to the latest version on its own; use this to
inspect the version or to roll back.

Examples:
  # Migrate to the latest version
  svnplot store migrate /data/repo.db

  # Roll back to the first version
  svnplot store migrate --target-version 1 /data/repo.db`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupWith(storeArg(0)),
	Run: func(cmd *cobra.Command, _ []string) {
		store, err := logdb.Connect(rootCtx, cfg.DatabaseBackend, cfg.DatabaseConnect)
		if err != nil {
			contract.LogFatal("Cannot connect to log store", err)
		}
		defer func() { _ = store.Close() }()

		result, err := store.Migrate(viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to migrate store", err)
		}
		if !result.Changed {
			cmd.Printf("Store already at version %d.\n", result.From)
			return
		}
		cmd.Printf("%s store from version %d to %d.\n", contract.SuccessColor.Sprint("Migrated"), result.From, result.To)
	},
}

// storeExportCmd writes the store to Parquet.
var storeExportCmd = &cobra.Command{
	Use:   "export [store-path]",
	Short: "Export the store to Parquet files",
	Long: `Write revisions and change details to <prefix>.revisions.parquet and
<prefix>.details.parquet, where the prefix is given by --output-file.

Examples:
  svnplot store export --output-file out/repo /data/repo.db`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupWith(storeArg(0)),
	Run: func(cmd *cobra.Command, _ []string) {
		store := openStore()
		defer func() { _ = store.Close() }()

		result, err := store.ExportParquet(rootCtx, cfg.OutputFile)
		if err != nil {
			contract.LogFatal("Failed to export store", err)
		}
		cmd.Printf("%s %d revisions to %s\n", contract.SuccessColor.Sprint("Exported"), result.Revisions, result.RevisionsFile)
		cmd.Printf("%s %d change details to %s\n", contract.SuccessColor.Sprint("Exported"), result.Details, result.DetailsFile)
	},
}
