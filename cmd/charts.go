package cmd

import (
	"time"

	"github.com/huangsam/svnplot/internal/aggregate"
	"github.com/huangsam/svnplot/internal/charts"
	"github.com/huangsam/svnplot/internal/contract"
	"github.com/spf13/cobra"
)

// configFilter builds the aggregate filter from the validated config.
func configFilter() aggregate.Filter {
	return aggregate.Filter{PathPrefix: cfg.PathFilter, Author: cfg.Author}
}

// chartsCmd renders every aggregate as an HTML page.
var chartsCmd = &cobra.Command{
	Use:   "charts <store-path> <output-dir>",
	Short: "Render activity and size charts from the log store.",
	Long: `Render one interactive HTML chart per statistic into the output directory:
activity by weekday and hour, lines of code overall and per author, file
count, average file size, author activity, commit scatter and directory sizes.

Examples:
  # Charts for the whole repository
  svnplot charts /data/repo.db ./charts

  # Charts for trunk only, in local time, grouping directories two levels deep
  svnplot charts --filter /trunk --timezone Europe/Berlin --depth 2 /data/repo.db ./charts`,
	Args: cobra.ExactArgs(2),
	PreRunE: setupWith(func(in *contract.ConfigRawInput, args []string) {
		in.StorePathStr = argAt(args, 0)
		in.OutputDirStr = argAt(args, 1)
	}),
	Run: func(cmd *cobra.Command, _ []string) {
		store := openStore()
		defer func() { _ = store.Close() }()

		start := time.Now()
		q := aggregate.NewQuerier(store, cfg.Location)
		opts := charts.Options{Filter: configFilter(), Depth: cfg.Depth, MaxAuthors: cfg.MaxAuthors}
		written, err := charts.RenderAll(rootCtx, q, cfg.OutputDir, opts, logger)
		if err != nil {
			contract.LogFatal("Cannot render charts", err)
		}
		cmd.Printf("%s %d charts to %s in %v\n", contract.SuccessColor.Sprint("Wrote"), len(written),
			cfg.OutputDir, time.Since(start).Round(time.Millisecond))
	},
}
