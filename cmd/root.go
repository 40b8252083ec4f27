package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/huangsam/svnplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations. Execute replaces it with
// one that is cancelled on interrupt.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// logger is built by sharedSetup once the verbosity and log file are known.
var logger = slog.Default()

// closeLog releases the log file, if any.
var closeLog = func() error { return nil }

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "svnplot",
	Short:              "Convert Subversion history into a database and chart it.",
	Long:               `svnplot mirrors the log of a Subversion repository into SQLite, MySQL or PostgreSQL and derives activity, size and authorship statistics from it.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = closeLog()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".svnplot") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("SVNPLOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("db-backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("depth", contract.DefaultDepth)
	viper.SetDefault("max-authors", contract.DefaultMaxAuthors)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("max-retries", contract.DefaultMaxRetries)
	viper.SetDefault("retry-delay", contract.DefaultRetryDelay.String())
	viper.SetDefault("batch-size", contract.DefaultBatchSize)
	viper.SetDefault("color", "yes")
}

// positional copies command arguments into the raw input after viper has filled it.
type positional func(in *contract.ConfigRawInput, args []string)

// sharedSetup unmarshals config, runs validation and builds the logger.
func sharedSetup(_ context.Context, args []string, assign positional) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if assign != nil {
		assign(input, args)
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Build the process logger.
	l, closeFn, err := contract.NewLogger(cfg.Verbose, cfg.LogFile)
	if err != nil {
		return err
	}
	logger, closeLog = l, closeFn
	slog.SetDefault(logger)
	return nil
}

// setupWith returns a PreRunE that runs sharedSetup with the given argument mapping.
// Local flags are bound here rather than in init because convert and backfill
// share flag names, and viper keeps only the last binding of a key.
func setupWith(assign positional) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.LocalNonPersistentFlags()); err != nil {
			return fmt.Errorf("error binding %s flags: %w", cmd.Name(), err)
		}
		return sharedSetup(rootCtx, args, assign)
	}
}

// argAt returns args[i], or "" when there are fewer arguments.
func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// storeArg maps the optional store path at position i.
func storeArg(i int) positional {
	return func(in *contract.ConfigRawInput, args []string) {
		in.StorePathStr = argAt(args, i)
	}
}

// openStore opens the configured store and brings its schema up to date.
func openStore() *logdb.Store {
	store, err := logdb.Open(rootCtx, cfg.DatabaseBackend, cfg.DatabaseConnect)
	if err != nil {
		contract.LogFatal("Cannot open log store", err)
	}
	return store
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCtx = ctx
	return rootCmd.Execute()
}
