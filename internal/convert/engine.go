// Package convert pulls revision history from a log source into the log store.
package convert

import (
	"context"
	"log/slog"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/schema"
)

// progressEvery is how many revisions pass between info-level progress records.
const progressEvery = 100

// Writer is the part of the store the engine writes through.
type Writer interface {
	InsertRevision(ctx context.Context, rev schema.RevisionSummary) error
	InsertDetail(ctx context.Context, d schema.ChangeDetail) error
	SetFileCounts(ctx context.Context, revision int64, added, deleted int) error
	PriorPathNetLines(ctx context.Context, prefix string, before int64) ([]schema.PathNetLines, error)
}

// Progress counts what one engine run wrote.
type Progress struct {
	Revisions int   // revisions pulled from the source, invalid ones included
	Invalid   int   // revisions skipped as unreadable
	Synthetic int   // synthetic change details written
	Last      int64 // last revision pulled, 0 when none
}

// Engine converts a revision range from a log source into store rows.
type Engine struct {
	source contract.LogSource
	logger *slog.Logger
}

// NewEngine creates an engine reading from source.
func NewEngine(source contract.LogSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: source, logger: logger}
}

// ConvertRevs writes every revision in [start, end] through w in ascending order.
// It stops at the first error and returns the progress made so far; rows already
// written stay in w for the caller to commit.
func (e *Engine) ConvertRevs(ctx context.Context, w Writer, start, end int64, withLineCounts bool) (Progress, error) {
	var p Progress
	if start > end {
		return p, nil
	}

	for entry, err := range e.source.Revisions(ctx, start, end, withLineCounts) {
		if err != nil {
			return p, contract.WrapSourceError("log", err)
		}
		if err := ctx.Err(); err != nil {
			return p, err
		}

		p.Revisions++
		p.Last = entry.Revision
		if !entry.Valid {
			p.Invalid++
			e.logger.Warn("skipping unreadable revision", "revision", entry.Revision)
			continue
		}

		synthetic, err := e.convertEntry(ctx, w, entry, withLineCounts)
		if err != nil {
			return p, err
		}
		p.Synthetic += synthetic

		e.logger.Debug("converted revision", "revision", entry.Revision, "changes", len(entry.Changes), "synthetic", synthetic)
		if p.Revisions%progressEvery == 0 {
			e.logger.Info("conversion progress", "revisions", p.Revisions, "last", p.Last)
		}
	}
	return p, nil
}

// convertEntry writes one valid revision and returns the number of synthetic details added.
func (e *Engine) convertEntry(ctx context.Context, w Writer, entry *schema.LogEntry, withLineCounts bool) (int, error) {
	added, changed, deleted := entry.FileCounts()
	err := w.InsertRevision(ctx, schema.RevisionSummary{
		Revision:     entry.Revision,
		CommitDate:   entry.Date,
		Author:       entry.Author,
		Message:      entry.Message,
		AddedFiles:   added,
		ChangedFiles: changed,
		DeletedFiles: deleted,
	})
	if err != nil {
		return 0, err
	}

	var written, syntheticAdded, syntheticDeleted int
	for _, change := range entry.Changes {
		detail := schema.ChangeDetail{
			Revision:       entry.Revision,
			Path:           change.Path,
			ChangeType:     change.Type,
			CopyFrom:       change.CopyFrom,
			PathKind:       change.Kind,
			LineCountFresh: withLineCounts,
			EntryKind:      schema.RealEntry,
		}
		if withLineCounts {
			detail.LinesAdded, detail.LinesDeleted = change.LinesAdded, change.LinesDeleted
		}
		if err := w.InsertDetail(ctx, detail); err != nil {
			return 0, err
		}

		synthetic, err := Reconcile(ctx, entry.Revision, change, w.PriorPathNetLines)
		if err != nil {
			return 0, err
		}
		for _, d := range synthetic {
			if err := w.InsertDetail(ctx, d); err != nil {
				return 0, err
			}
			written++
			// A file copied or deleted on its own is already counted by its real record.
			if d.Path == change.Path {
				continue
			}
			if d.ChangeType == schema.Added {
				syntheticAdded++
			} else {
				syntheticDeleted++
			}
		}
	}

	if syntheticAdded+syntheticDeleted > 0 {
		if err := w.SetFileCounts(ctx, entry.Revision, added+syntheticAdded, deleted+syntheticDeleted); err != nil {
			return 0, err
		}
	}
	return written, nil
}
