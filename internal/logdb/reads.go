package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/svnplot/schema"
)

// StaleDetails returns every real change detail whose line counts were not computed.
// All rows are read before returning so callers may write while iterating the result.
func (s *Store) StaleDetails(ctx context.Context) ([]schema.StaleDetail, error) {
	query := s.Rebind(fmt.Sprintf(`SELECT revno, changedpathid, changedpath, changetype, pathtype
		FROM %s
		WHERE linecountfresh = ? AND entrytype = ?
		ORDER BY revno, changedpathid`, DetailView))
	rows, err := s.db.QueryContext(ctx, query, false, string(schema.RealEntry))
	if err != nil {
		return nil, fmt.Errorf("failed to query stale line counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.StaleDetail
	for rows.Next() {
		var d schema.StaleDetail
		var changeType, pathKind string
		if err := rows.Scan(&d.Revision, &d.PathID, &d.Path, &changeType, &pathKind); err != nil {
			return nil, fmt.Errorf("failed to scan stale line count: %w", err)
		}
		d.ChangeType = schema.ChangeType(changeType)
		d.PathKind = schema.PathKind(pathKind)
		out = append(out, d)
	}
	return out, rows.Err()
}

// AllRevisions returns every revision summary ordered by revision.
func (s *Store) AllRevisions(ctx context.Context) ([]schema.RevisionSummary, error) {
	query := fmt.Sprintf(`SELECT revno, commitdate, author, msg, addedfiles, changedfiles, deletedfiles
		FROM %s ORDER BY revno`, RevisionTable)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.RevisionSummary
	for rows.Next() {
		var r schema.RevisionSummary
		var ts int64
		var msg sql.NullString
		if err := rows.Scan(&r.Revision, &ts, &r.Author, &msg, &r.AddedFiles, &r.ChangedFiles, &r.DeletedFiles); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		r.CommitDate = time.Unix(ts, 0).UTC()
		r.Message = msg.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// AllDetails returns every change detail with resolved paths, ordered by revision.
func (s *Store) AllDetails(ctx context.Context) ([]schema.ChangeDetail, error) {
	query := fmt.Sprintf(`SELECT revno, changedpath, changetype, copyfrompath, copyfromrev, pathtype,
		linesadded, linesdeleted, linecountfresh, entrytype
		FROM %s ORDER BY revno, changedpathid`, DetailView)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query change details: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.ChangeDetail
	for rows.Next() {
		var d schema.ChangeDetail
		var changeType, pathKind, entryKind string
		var copyPath sql.NullString
		var copyRev sql.NullInt64
		if err := rows.Scan(&d.Revision, &d.Path, &changeType, &copyPath, &copyRev, &pathKind,
			&d.LinesAdded, &d.LinesDeleted, &d.LineCountFresh, &entryKind); err != nil {
			return nil, fmt.Errorf("failed to scan change detail: %w", err)
		}
		d.ChangeType = schema.ChangeType(changeType)
		d.PathKind = schema.PathKind(pathKind)
		d.EntryKind = schema.EntryKind(entryKind)
		if copyPath.Valid && copyRev.Valid {
			d.CopyFrom = &schema.CopySource{Path: copyPath.String, Revision: copyRev.Int64}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
