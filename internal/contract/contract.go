// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"fmt"
	"iter"

	"github.com/huangsam/svnplot/schema"
)

// LogSource defines the operations needed to pull revision history from a repository.
// This allows the conversion logic to be tested without needing a real svn executable.
type LogSource interface {
	// RootURL returns the repository root URL.
	RootURL(ctx context.Context) (string, error)

	// RevisionRange returns the first and last revision visible through the source.
	RevisionRange(ctx context.Context) (minRev, maxRev int64, err error)

	// Revisions yields log entries in ascending revision order for [start, end].
	// Line counts are filled in on each change record when withLineCounts is set.
	// Iteration stops after the first error is yielded.
	Revisions(ctx context.Context, start, end int64, withLineCounts bool) iter.Seq2[*schema.LogEntry, error]

	// DiffLineCount returns the lines added and deleted for one path at one revision.
	DiffLineCount(ctx context.Context, revision int64, path string, changeType schema.ChangeType) (added, deleted int, err error)
}

// SourceError reports a failure talking to the log source.
// Conversion retries these; store errors are not retried.
type SourceError struct {
	Op  string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("log source %s: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// WrapSourceError wraps err as a SourceError unless it is nil or already one.
func WrapSourceError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*SourceError); ok {
		return err
	}
	return &SourceError{Op: op, Err: err}
}
