package logdb

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/huangsam/svnplot/schema"
)

// Writer inserts converted revisions into the store.
type Writer struct {
	q       DBTX
	backend schema.DatabaseBackend
	paths   *PathInterner
}

func newWriter(q DBTX, backend schema.DatabaseBackend) *Writer {
	return &Writer{q: q, backend: backend, paths: NewPathInterner(q, backend)}
}

// Paths returns the interner bound to this writer.
func (w *Writer) Paths() *PathInterner {
	return w.paths
}

// InsertRevision stores one revision summary.
func (w *Writer) InsertRevision(ctx context.Context, rev schema.RevisionSummary) error {
	query := rebind(w.backend, fmt.Sprintf(`INSERT INTO %s
		(revno, commitdate, author, msg, addedfiles, changedfiles, deletedfiles)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, RevisionTable))
	_, err := w.q.ExecContext(ctx, query,
		rev.Revision, unixSeconds(rev.CommitDate), rev.Author, rev.Message,
		rev.AddedFiles, rev.ChangedFiles, rev.DeletedFiles)
	if err != nil {
		return fmt.Errorf("failed to insert revision %d: %w", rev.Revision, err)
	}
	return nil
}

// InsertDetail stores one change detail, interning its paths.
func (w *Writer) InsertDetail(ctx context.Context, d schema.ChangeDetail) error {
	pathID, err := w.paths.ID(ctx, d.Path)
	if err != nil {
		return err
	}

	var copyPathID, copyRev any
	if d.CopyFrom != nil {
		id, err := w.paths.ID(ctx, d.CopyFrom.Path)
		if err != nil {
			return err
		}
		copyPathID, copyRev = id, d.CopyFrom.Revision
	}

	entryKind := d.EntryKind
	if entryKind == "" {
		entryKind = schema.RealEntry
	}
	pathKind := d.PathKind
	if pathKind == "" {
		pathKind = schema.UnknownKind
	}

	query := rebind(w.backend, fmt.Sprintf(`INSERT INTO %s
		(revno, changedpathid, changetype, copyfrompathid, copyfromrev, pathtype,
		 linesadded, linesdeleted, entrytype, linecountfresh)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, DetailTable))
	_, err = w.q.ExecContext(ctx, query,
		d.Revision, pathID, string(d.ChangeType), copyPathID, copyRev, string(pathKind),
		max(d.LinesAdded, 0), max(d.LinesDeleted, 0), string(entryKind), d.LineCountFresh)
	if err != nil {
		return fmt.Errorf("failed to insert change detail %d:%s: %w", d.Revision, d.Path, err)
	}
	return nil
}

// SetFileCounts overwrites the added and deleted file counts of a revision.
func (w *Writer) SetFileCounts(ctx context.Context, revision int64, added, deleted int) error {
	query := rebind(w.backend, fmt.Sprintf(
		"UPDATE %s SET addedfiles = ?, deletedfiles = ? WHERE revno = ?", RevisionTable))
	if _, err := w.q.ExecContext(ctx, query, added, deleted, revision); err != nil {
		return fmt.Errorf("failed to update file counts of revision %d: %w", revision, err)
	}
	return nil
}

// PriorPathNetLines returns the line sums of every path equal to prefix or below it,
// over revisions strictly before the given revision. Each path also carries its
// kind and its last stored change type. Paths are ordered by name.
func (w *Writer) PriorPathNetLines(ctx context.Context, prefix string, before int64) ([]schema.PathNetLines, error) {
	clause, args := PrefixClause("changedpath", prefix)
	query := fmt.Sprintf(`SELECT changedpath, changetype, pathtype, linesadded, linesdeleted
		FROM %s
		WHERE revno < ? AND %s
		ORDER BY changedpath, revno, entrytype`, DetailView, clause)
	rows, err := w.q.QueryContext(ctx, rebind(w.backend, query), append([]any{before}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prior lines under %q: %w", prefix, err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.PathNetLines
	for rows.Next() {
		var (
			path, changeType, kind string
			added, deleted         int64
		)
		if err := rows.Scan(&path, &changeType, &kind, &added, &deleted); err != nil {
			return nil, fmt.Errorf("failed to scan prior lines: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Path != path {
			out = append(out, schema.PathNetLines{Path: path, Kind: schema.UnknownKind})
		}
		p := &out[len(out)-1]
		p.Added += added
		p.Deleted += deleted
		p.LastChange = schema.ChangeType(changeType)
		// A path seen as a directory once stays one.
		if p.Kind != schema.DirKind && schema.PathKind(kind) != schema.UnknownKind {
			p.Kind = schema.PathKind(kind)
		}
	}
	return out, rows.Err()
}

// UpdateLineCount stores freshly computed line counts on a real change detail.
func (w *Writer) UpdateLineCount(ctx context.Context, revision, pathID int64, added, deleted int) error {
	query := rebind(w.backend, fmt.Sprintf(`UPDATE %s
		SET linesadded = ?, linesdeleted = ?, linecountfresh = ?
		WHERE revno = ? AND changedpathid = ? AND entrytype = ?`, DetailTable))
	_, err := w.q.ExecContext(ctx, query, added, deleted, true, revision, pathID, string(schema.RealEntry))
	if err != nil {
		return fmt.Errorf("failed to update line count of %d:%d: %w", revision, pathID, err)
	}
	return nil
}

// MaxRevision returns the highest revision visible to this writer.
func (w *Writer) MaxRevision(ctx context.Context) (int64, error) {
	return maxRevision(ctx, w.q)
}

// PrefixClause returns a condition matching column against a path prefix on a
// directory boundary, and its arguments. An empty prefix matches everything.
func PrefixClause(column, prefix string) (string, []any) {
	prefix = schema.NormalizePrefix(prefix)
	if prefix == "" {
		return "1 = 1", nil
	}
	dir := prefix + "/"
	clause := fmt.Sprintf("(%s = ? OR SUBSTR(%s, 1, ?) = ?)", column, column)
	return clause, []any{prefix, utf8.RuneCountInString(dir), dir}
}

// unixSeconds stores the zero time as the epoch.
func unixSeconds(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
