package cmd

import (
	"fmt"
	"time"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/internal/convert"
	"github.com/huangsam/svnplot/internal/svnclient"
	"github.com/spf13/cobra"
)

// repoArgs maps <repo-url> [store-path].
func repoArgs(in *contract.ConfigRawInput, args []string) {
	in.RepoURLStr = argAt(args, 0)
	in.StorePathStr = argAt(args, 1)
}

// newSVNClient builds the log source from the validated config.
func newSVNClient() *svnclient.Client {
	return svnclient.NewClient(cfg.RepoURL,
		svnclient.WithCredentials(cfg.Username, cfg.Password),
		svnclient.WithBatchSize(cfg.BatchSize),
		svnclient.WithLogger(logger),
	)
}

// convertCmd mirrors new revisions of a repository into the store.
var convertCmd = &cobra.Command{
	Use:   "convert <repo-url> [store-path]",
	Short: "Convert the Subversion log of a repository into the log store.",
	Long: `Read the log of a Subversion repository and append every revision not yet
stored to the log store. The run resumes after the last stored revision, so it
is safe to repeat it on a schedule.

Copies and directory deletes are expanded into per-file records so that line
counts stay correct under every path prefix.

Examples:
  # Convert into the default SQLite store with line counts
  svnplot convert --linecount http://svn.example.org/repo/trunk

  # Convert into a specific SQLite file and keep a log next to it
  svnplot convert -l -g http://svn.example.org/repo /data/repo.db

  # Convert into PostgreSQL
  SVNPLOT_DB_BACKEND=postgresql SVNPLOT_DB_CONNECT="host=db dbname=svn" svnplot convert http://svn.example.org/repo`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: setupWith(repoArgs),
	Run: func(cmd *cobra.Command, _ []string) {
		store := openStore()
		defer func() { _ = store.Close() }()

		start := time.Now()
		policy := convert.RetryPolicy{MaxAttempts: cfg.MaxRetries, Delay: cfg.RetryDelay}
		sum, err := convert.NewController(newSVNClient(), store, policy, logger).Convert(rootCtx, cfg.LineCount)
		if err != nil {
			contract.LogFatal("Cannot convert repository log", err)
		}

		if sum.Exhausted {
			contract.LogWarn("Conversion stopped early", errRetriesExhausted(sum.Attempts))
		}
		cmd.Printf("%s %d revisions (%d invalid, %d synthetic paths) in %d attempt(s), last revision r%d, took %v\n",
			contract.SuccessColor.Sprint("Converted"), sum.Converted, sum.Invalid, sum.Synthetic,
			sum.Attempts, sum.LastRevision, time.Since(start).Round(time.Millisecond))
	},
}

// backfillCmd fills in line counts of rows stored without them.
var backfillCmd = &cobra.Command{
	Use:   "backfill <repo-url> [store-path]",
	Short: "Compute line counts for rows converted without --linecount.",
	Long: `Ask the repository for the diff of every change stored while line counting was
off and record its added and deleted lines. Rows that fail stay pending and are
retried by the next backfill.

Examples:
  svnplot backfill http://svn.example.org/repo /data/repo.db`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: setupWith(repoArgs),
	Run: func(cmd *cobra.Command, _ []string) {
		store := openStore()
		defer func() { _ = store.Close() }()

		res, err := convert.Backfill(rootCtx, store, newSVNClient(), logger)
		if err != nil {
			contract.LogFatal("Cannot backfill line counts", err)
		}
		cmd.Printf("%s %d rows (%d directories skipped, %d failed)\n",
			contract.SuccessColor.Sprint("Backfilled"), res.Updated, res.Skipped, res.Failed)
	},
}

func errRetriesExhausted(attempts int) error {
	return fmt.Errorf("log source still failing after %d attempts; run convert again to resume", attempts)
}
