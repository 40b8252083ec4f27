// Package aggregate derives activity and size series from the log store.
package aggregate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/huangsam/svnplot/schema"
)

// Filter narrows an aggregate to a path prefix and optionally one author.
type Filter struct {
	PathPrefix string
	Author     *string
}

// Querier runs aggregate queries against an open store.
// Dates and hours are reported in the querier's location.
type Querier struct {
	store *logdb.Store
	loc   *time.Location
}

// NewQuerier creates a querier over store. A nil location means UTC.
func NewQuerier(store *logdb.Store, loc *time.Location) *Querier {
	if loc == nil {
		loc = time.UTC
	}
	return &Querier{store: store, loc: loc}
}

// Location returns the display location.
func (q *Querier) Location() *time.Location {
	return q.loc
}

// where joins conditions with AND and concatenates their arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return "1 = 1"
	}
	return strings.Join(w.conds, " AND ")
}

// revisionWhere filters revision_log rows aliased as r. Revisions are kept when
// they touch at least one path under the prefix.
func revisionWhere(f Filter) *where {
	w := &where{}
	if f.Author != nil {
		w.add("r.author = ?", *f.Author)
	}
	clause, args := logdb.PrefixClause("d.changedpath", f.PathPrefix)
	if args != nil {
		w.add(fmt.Sprintf("EXISTS (SELECT 1 FROM %s d WHERE d.revno = r.revno AND %s)", logdb.DetailView, clause), args...)
	}
	return w
}

// detailWhere filters change details aliased as d joined to revisions aliased as r.
func detailWhere(f Filter) *where {
	w := &where{}
	if f.Author != nil {
		w.add("r.author = ?", *f.Author)
	}
	if clause, args := logdb.PrefixClause("d.changedpath", f.PathPrefix); args != nil {
		w.add(clause, args...)
	}
	return w
}

// day truncates a stored timestamp to midnight of its date in loc.
func (q *Querier) day(unix int64) time.Time {
	t := time.Unix(unix, 0).In(q.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, q.loc)
}

// commitTimes returns the commit timestamps of every revision matching f in revision order.
func (q *Querier) commitTimes(ctx context.Context, f Filter) ([]time.Time, error) {
	w := revisionWhere(f)
	query := q.store.Rebind(fmt.Sprintf("SELECT r.commitdate FROM %s r WHERE %s ORDER BY r.revno",
		logdb.RevisionTable, w))
	rows, err := q.store.DB().QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commit times: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []time.Time
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("failed to scan commit time: %w", err)
		}
		out = append(out, time.Unix(ts, 0).In(q.loc))
	}
	return out, rows.Err()
}

// Params carries the knobs of aggregates that take more than a filter.
type Params struct {
	Depth      int
	MaxAuthors int
}

// Compute runs the named aggregate and returns its typed result.
func (q *Querier) Compute(ctx context.Context, agg schema.Aggregate, f Filter, p Params) (any, error) {
	switch agg {
	case schema.WeekdayAggregate:
		return q.WeekdayActivity(ctx, f)
	case schema.HourAggregate:
		return q.HourActivity(ctx, f)
	case schema.LOCAggregate:
		return q.CumulativeLOC(ctx, f)
	case schema.FileCountAggregate:
		return q.FileCount(ctx, f)
	case schema.AvgFileSizeAggregate:
		return q.AverageFileSize(ctx, f)
	case schema.AuthorShareAggregate:
		return q.AuthorShare(ctx, f)
	case schema.DirectoryAggregate:
		return q.DirectorySizes(ctx, f, p.Depth)
	case schema.LOCByAuthorAggregate, schema.ScatterAggregate:
		authors, err := q.Authors(ctx, f, p.MaxAuthors)
		if err != nil {
			return nil, err
		}
		if agg == schema.LOCByAuthorAggregate {
			return q.CumulativeLOCByAuthor(ctx, f, AuthorNames(authors))
		}
		return q.CommitScatter(ctx, f, AuthorNames(authors))
	}
	return nil, fmt.Errorf("unknown aggregate %q", agg)
}
