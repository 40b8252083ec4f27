package aggregate

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/huangsam/svnplot/schema"
)

// dailyDelta is the summed change of one calendar day.
type dailyDelta struct {
	day   time.Time
	delta int64
}

// accumulate folds per-revision deltas into per-day deltas ordered by day.
func (q *Querier) accumulate(ctx context.Context, query string, args ...any) ([]dailyDelta, error) {
	rows, err := q.store.DB().QueryContext(ctx, q.store.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byDay := make(map[time.Time]int64)
	for rows.Next() {
		var ts, delta int64
		if err := rows.Scan(&ts, &delta); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		byDay[q.day(ts)] += delta
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]dailyDelta, 0, len(byDay))
	for day, delta := range byDay {
		out = append(out, dailyDelta{day: day, delta: delta})
	}
	slices.SortFunc(out, func(a, b dailyDelta) int { return a.day.Compare(b.day) })
	return out, nil
}

// running turns daily deltas into a running total.
func running(deltas []dailyDelta) []schema.DatePoint {
	out := make([]schema.DatePoint, 0, len(deltas))
	var total int64
	for _, d := range deltas {
		total += d.delta
		out = append(out, schema.DatePoint{Date: d.day, Value: float64(total)})
	}
	return out
}

func (q *Querier) lineDeltas(ctx context.Context, f Filter) ([]dailyDelta, error) {
	w := detailWhere(f)
	query := fmt.Sprintf(`SELECT r.commitdate, SUM(d.linesadded) - SUM(d.linesdeleted)
		FROM %s r JOIN %s d ON d.revno = r.revno
		WHERE %s
		GROUP BY r.revno, r.commitdate`, logdb.RevisionTable, logdb.DetailView, w)
	return q.accumulate(ctx, query, w.args...)
}

func (q *Querier) fileDeltas(ctx context.Context, f Filter) ([]dailyDelta, error) {
	w := revisionWhere(f)
	query := fmt.Sprintf(`SELECT r.commitdate, r.addedfiles - r.deletedfiles
		FROM %s r
		WHERE %s`, logdb.RevisionTable, w)
	return q.accumulate(ctx, query, w.args...)
}

// CumulativeLOC returns the running total of lines added minus lines deleted per
// commit date, over paths under the filter prefix.
func (q *Querier) CumulativeLOC(ctx context.Context, f Filter) ([]schema.DatePoint, error) {
	deltas, err := q.lineDeltas(ctx, f)
	if err != nil {
		return nil, err
	}
	return running(deltas), nil
}

// CumulativeLOCByAuthor returns one cumulative line series per author.
func (q *Querier) CumulativeLOCByAuthor(ctx context.Context, f Filter, authors []string) ([]schema.AuthorSeries, error) {
	out := make([]schema.AuthorSeries, 0, len(authors))
	for _, author := range authors {
		af := f
		af.Author = &author
		points, err := q.CumulativeLOC(ctx, af)
		if err != nil {
			return nil, err
		}
		out = append(out, schema.AuthorSeries{Author: author, Points: points})
	}
	return out, nil
}

// FileCount returns the running total of added minus deleted files per commit
// date, over revisions touching the filter prefix.
func (q *Querier) FileCount(ctx context.Context, f Filter) ([]schema.DatePoint, error) {
	deltas, err := q.fileDeltas(ctx, f)
	if err != nil {
		return nil, err
	}
	return running(deltas), nil
}

// AverageFileSize returns running lines divided by running file count per commit
// date. Dates where the file count is not positive are skipped.
func (q *Querier) AverageFileSize(ctx context.Context, f Filter) ([]schema.DatePoint, error) {
	lines, err := q.lineDeltas(ctx, f)
	if err != nil {
		return nil, err
	}
	files, err := q.fileDeltas(ctx, f)
	if err != nil {
		return nil, err
	}

	type pair struct{ lines, files int64 }
	byDay := make(map[time.Time]*pair)
	get := func(day time.Time) *pair {
		p, ok := byDay[day]
		if !ok {
			p = &pair{}
			byDay[day] = p
		}
		return p
	}
	for _, d := range lines {
		get(d.day).lines += d.delta
	}
	for _, d := range files {
		get(d.day).files += d.delta
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	var out []schema.DatePoint
	var totalLines, totalFiles int64
	for _, day := range days {
		totalLines += byDay[day].lines
		totalFiles += byDay[day].files
		if totalFiles <= 0 {
			continue
		}
		out = append(out, schema.DatePoint{Date: day, Value: float64(totalLines) / float64(totalFiles)})
	}
	return out, nil
}
