package convert

import (
	"context"
	"path"
	"strings"

	"github.com/huangsam/svnplot/schema"
)

// NetLinesLookup returns the line sums of every path equal to prefix or below it,
// over revisions strictly before the given revision.
type NetLinesLookup func(ctx context.Context, prefix string, before int64) ([]schema.PathNetLines, error)

// NeedsReconciliation reports whether a change record can produce synthetic entries.
// Copies carry the history of their source; deletes reported without a line delta
// must remove the lines still held under the deleted path.
func NeedsReconciliation(change schema.ChangeRecord) bool {
	if change.IsCopy() {
		return true
	}
	return change.Type == schema.Deleted && change.LinesAdded == 0 && change.LinesDeleted == 0
}

// Reconcile returns the synthetic change details that keep per-path line sums
// correct for one change record of the given revision.
func Reconcile(ctx context.Context, revision int64, change schema.ChangeRecord, lookup NetLinesLookup) ([]schema.ChangeDetail, error) {
	if !NeedsReconciliation(change) {
		return nil, nil
	}

	if change.IsCopy() {
		src := strings.TrimSuffix(change.CopyFrom.Path, "/")
		dest := strings.TrimSuffix(change.Path, "/")
		priors, err := lookup(ctx, src, revision)
		if err != nil {
			return nil, err
		}

		var out []schema.ChangeDetail
		for _, p := range liveFiles(priors) {
			if !schema.UnderPrefix(p.Path, src) {
				continue
			}
			newPath := dest + strings.TrimPrefix(p.Path, src)
			out = append(out, schema.ChangeDetail{
				Revision:       revision,
				Path:           newPath,
				ChangeType:     schema.Added,
				CopyFrom:       &schema.CopySource{Path: p.Path, Revision: change.CopyFrom.Revision},
				PathKind:       schema.PathKindOf(newPath),
				LinesAdded:     int(p.Net()),
				LineCountFresh: true,
				EntryKind:      schema.SyntheticEntry,
			})
		}
		return out, nil
	}

	priors, err := lookup(ctx, strings.TrimSuffix(change.Path, "/"), revision)
	if err != nil {
		return nil, err
	}

	var out []schema.ChangeDetail
	for _, p := range liveFiles(priors) {
		out = append(out, schema.ChangeDetail{
			Revision:       revision,
			Path:           p.Path,
			ChangeType:     schema.Deleted,
			CopyFrom:       change.CopyFrom,
			PathKind:       schema.PathKindOf(p.Path),
			LinesDeleted:   int(p.Net()),
			LineCountFresh: true,
			EntryKind:      schema.SyntheticEntry,
		})
	}
	return out, nil
}

// liveFiles keeps the prior paths that are files still present in the tree.
// A path of unknown kind with other paths below it is a directory.
func liveFiles(priors []schema.PathNetLines) []schema.PathNetLines {
	parents := make(map[string]struct{})
	for _, p := range priors {
		for dir := path.Dir(p.Path); dir != "/" && dir != "."; dir = path.Dir(dir) {
			if _, seen := parents[dir]; seen {
				break
			}
			parents[dir] = struct{}{}
		}
	}

	var out []schema.PathNetLines
	for _, p := range priors {
		if !p.Alive() || p.Kind == schema.DirKind {
			continue
		}
		if _, isDir := parents[p.Path]; isDir {
			continue
		}
		out = append(out, p)
	}
	return out
}
