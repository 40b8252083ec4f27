package convert

import (
	"context"
	"log/slog"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/huangsam/svnplot/schema"
)

// BackfillResult counts what a backfill run did to stale line counts.
type BackfillResult struct {
	Updated int
	Failed  int
	Skipped int // directories, marked fresh with zero lines
}

// Backfill computes line counts for every real change detail stored while line
// counting was off. A failure on one row is logged and counted and the row stays
// stale for the next run; only store failures stop the run.
func Backfill(ctx context.Context, store *logdb.Store, source contract.LogSource, logger *slog.Logger) (BackfillResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res BackfillResult

	stale, err := store.StaleDetails(ctx)
	if err != nil {
		return res, err
	}
	logger.Info("backfilling line counts", "rows", len(stale))

	w := store.Writer()
	for i, d := range stale {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if d.PathKind == schema.DirKind {
			if err := w.UpdateLineCount(ctx, d.Revision, d.PathID, 0, 0); err != nil {
				return res, err
			}
			res.Skipped++
			continue
		}

		added, deleted, err := source.DiffLineCount(ctx, d.Revision, d.Path, d.ChangeType)
		if err != nil {
			res.Failed++
			logger.Warn("failed to count lines", "revision", d.Revision, "path", d.Path, "error", err)
			continue
		}
		if err := w.UpdateLineCount(ctx, d.Revision, d.PathID, added, deleted); err != nil {
			return res, err
		}
		res.Updated++

		if (i+1)%progressEvery == 0 {
			logger.Info("backfill progress", "done", i+1, "total", len(stale))
		}
	}
	return res, nil
}
