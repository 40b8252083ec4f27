package convert

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/internal/logdb"
)

// Summary describes a whole conversion run across all attempts.
type Summary struct {
	Attempts     int
	Converted    int   // valid revisions written
	Invalid      int   // unreadable revisions skipped
	Synthetic    int   // synthetic change details written
	LastRevision int64 // highest stored revision after the run
	Exhausted    bool  // retries ran out on a retryable error
}

// Controller resumes conversion after the last stored revision and retries
// failed attempts according to its policy.
type Controller struct {
	source contract.LogSource
	store  *logdb.Store
	engine *Engine
	policy RetryPolicy
	logger *slog.Logger
}

// NewController creates a controller converting from source into store.
func NewController(source contract.LogSource, store *logdb.Store, policy RetryPolicy, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		source: source,
		store:  store,
		engine: NewEngine(source, logger),
		policy: policy,
		logger: logger,
	}
}

// Convert brings the store up to date with the log source.
// Each attempt commits what it wrote, so a retry resumes after the last stored
// revision. When retries run out on a retryable error the run ends without error
// and Summary.Exhausted is set; other errors are returned.
func (c *Controller) Convert(ctx context.Context, withLineCounts bool) (Summary, error) {
	var sum Summary

	op := func() (struct{}, error) {
		sum.Attempts++
		p, err := c.attempt(ctx, withLineCounts)
		sum.Converted += p.Revisions - p.Invalid
		sum.Invalid += p.Invalid
		sum.Synthetic += p.Synthetic
		if err == nil {
			return struct{}{}, nil
		}

		c.logger.Warn("conversion attempt failed", "attempt", sum.Attempts, "error", err)
		if ctx.Err() != nil || !c.policy.retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.policy.backOff()),
		backoff.WithMaxTries(c.policy.attempts()),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Info("retrying conversion", "after", next, "error", err)
		}),
	)

	if err != nil && (ctx.Err() != nil || !c.policy.retryable(err)) {
		return sum, err
	}
	if err != nil {
		sum.Exhausted = true
		c.logger.Error("giving up conversion", "attempts", sum.Attempts, "error", err)
	}

	last, lerr := c.store.MaxRevision(ctx)
	if lerr != nil {
		return sum, lerr
	}
	sum.LastRevision = last
	return sum, nil
}

// attempt runs one conversion pass from the last stored revision to the source's
// last revision and commits whatever was written.
func (c *Controller) attempt(ctx context.Context, withLineCounts bool) (Progress, error) {
	last, err := c.store.MaxRevision(ctx)
	if err != nil {
		return Progress{}, err
	}
	root, err := c.source.RootURL(ctx)
	if err != nil {
		return Progress{}, contract.WrapSourceError("info", err)
	}
	minRev, maxRev, err := c.source.RevisionRange(ctx)
	if err != nil {
		return Progress{}, contract.WrapSourceError("info", err)
	}

	start := max(minRev, last+1)
	c.logger.Info("converting revisions", "root", root, "start", start, "end", maxRev)

	// Progress is committed even when the run is cancelled part way.
	tx, err := c.store.Begin(context.WithoutCancel(ctx))
	if err != nil {
		return Progress{}, err
	}
	p, convErr := c.engine.ConvertRevs(ctx, tx, start, maxRev, withLineCounts)
	if err := tx.Commit(); err != nil {
		if convErr != nil {
			c.logger.Error("conversion failed before commit", "error", convErr)
		}
		return p, err
	}
	return p, convErr
}
