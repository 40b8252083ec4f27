package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/svnplot/schema"
)

// WeekdayActivity counts commits per day of week, Sunday first.
// All seven buckets are returned even when empty.
func (q *Querier) WeekdayActivity(ctx context.Context, f Filter) ([]schema.ActivityBucket, error) {
	times, err := q.commitTimes(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]schema.ActivityBucket, 7)
	for i := range out {
		out[i] = schema.ActivityBucket{Bucket: i, Label: time.Weekday(i).String()[:3]}
	}
	for _, t := range times {
		out[t.Weekday()].Commits++
	}
	return out, nil
}

// HourActivity counts commits per hour of day, 00 to 23.
func (q *Querier) HourActivity(ctx context.Context, f Filter) ([]schema.ActivityBucket, error) {
	times, err := q.commitTimes(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]schema.ActivityBucket, 24)
	for i := range out {
		out[i] = schema.ActivityBucket{Bucket: i, Label: fmt.Sprintf("%02d", i)}
	}
	for _, t := range times {
		out[t.Hour()].Commits++
	}
	return out, nil
}

// CommitScatter returns the date and hour of every commit of each author.
// Authors with no matching commits get an empty series.
func (q *Querier) CommitScatter(ctx context.Context, f Filter, authors []string) ([]schema.AuthorCommits, error) {
	out := make([]schema.AuthorCommits, 0, len(authors))
	for _, author := range authors {
		af := f
		af.Author = &author
		times, err := q.commitTimes(ctx, af)
		if err != nil {
			return nil, err
		}
		series := schema.AuthorCommits{Author: author, Commits: make([]schema.CommitTime, 0, len(times))}
		for _, t := range times {
			series.Commits = append(series.Commits, schema.CommitTime{
				Date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, q.loc),
				Hour: t.Hour(),
			})
		}
		out = append(out, series)
	}
	return out, nil
}
