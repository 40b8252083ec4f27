package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/svnplot/internal/aggregate"
	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/internal/outwriter"
	"github.com/huangsam/svnplot/schema"
	"github.com/spf13/cobra"
)

func aggregateList() string {
	names := make([]string, len(schema.AllAggregates))
	for i, a := range schema.AllAggregates {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// reportCmd prints one aggregate as a table, CSV or JSON.
var reportCmd = &cobra.Command{
	Use:   "report <aggregate> [store-path]",
	Short: "Print one statistic from the log store.",
	Long: `Compute one statistic from the log store and print it as a table, CSV or JSON.

Aggregates: ` + aggregateList() + `, plus "committers" for the
list of authors by commit count.

Examples:
  # Directory sizes two levels deep
  svnplot report dirs --depth 2 /data/repo.db

  # Lines of code under trunk as CSV
  svnplot report loc --filter /trunk --output csv --output-file loc.csv`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		name := schema.Aggregate(args[0])
		if _, ok := schema.ValidAggregates[name]; !ok && name != committersReport {
			return fmt.Errorf("unknown aggregate '%s'. must be one of %s, %s", args[0], aggregateList(), committersReport)
		}
		return setupWith(storeArg(1))(cmd, args)
	},
	Run: func(_ *cobra.Command, args []string) {
		store := openStore()
		defer func() { _ = store.Close() }()

		start := time.Now()
		agg := schema.Aggregate(args[0])
		q := aggregate.NewQuerier(store, cfg.Location)

		var data any
		var err error
		if agg == committersReport {
			data, err = q.Authors(rootCtx, configFilter(), cfg.MaxAuthors)
		} else {
			data, err = q.Compute(rootCtx, agg, configFilter(), aggregate.Params{Depth: cfg.Depth, MaxAuthors: cfg.MaxAuthors})
		}
		if err != nil {
			contract.LogFatal("Cannot compute "+args[0], err)
		}

		report, err := outwriter.ReportFor(agg, data)
		if err != nil {
			contract.LogFatal("Cannot build report", err)
		}
		if err := outwriter.NewOutWriter().Write(report, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write report", err)
		}
	},
}

// committersReport lists authors by commit count. It is not a chart, so it is
// not part of schema.AllAggregates.
const committersReport schema.Aggregate = "committers"
