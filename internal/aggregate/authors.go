package aggregate

import (
	"context"
	"fmt"

	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/huangsam/svnplot/schema"
)

// AuthorShare returns, per author, the percentage of the author's file changes
// that were adds, modifications and deletes. Authors without file changes are omitted.
func (q *Querier) AuthorShare(ctx context.Context, f Filter) ([]schema.AuthorShare, error) {
	w := revisionWhere(f)
	query := q.store.Rebind(fmt.Sprintf(`SELECT r.author, SUM(r.addedfiles), SUM(r.changedfiles), SUM(r.deletedfiles), COUNT(*)
		FROM %s r
		WHERE %s
		GROUP BY r.author
		ORDER BY r.author`, logdb.RevisionTable, w))
	rows, err := q.store.DB().QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query author activity: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.AuthorShare
	for rows.Next() {
		var author string
		var added, changed, deleted int64
		var commits int
		if err := rows.Scan(&author, &added, &changed, &deleted, &commits); err != nil {
			return nil, fmt.Errorf("failed to scan author activity: %w", err)
		}
		total := float64(added + changed + deleted)
		if total <= 0 {
			continue
		}
		out = append(out, schema.AuthorShare{
			Author:  author,
			Added:   float64(added) / total * 100,
			Changed: float64(changed) / total * 100,
			Deleted: float64(deleted) / total * 100,
			Commits: commits,
		})
	}
	return out, rows.Err()
}

// Authors returns authors ordered by commit count, most active first.
// A limit of zero or less returns every author.
func (q *Querier) Authors(ctx context.Context, f Filter, limit int) ([]schema.AuthorCount, error) {
	w := revisionWhere(f)
	query := q.store.Rebind(fmt.Sprintf(`SELECT r.author, COUNT(*) AS commits
		FROM %s r
		WHERE %s
		GROUP BY r.author
		ORDER BY commits DESC, r.author`, logdb.RevisionTable, w))
	rows, err := q.store.DB().QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.AuthorCount
	for rows.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		var a schema.AuthorCount
		if err := rows.Scan(&a.Author, &a.Commits); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AuthorNames returns the names of the most active authors.
func AuthorNames(authors []schema.AuthorCount) []string {
	out := make([]string, len(authors))
	for i, a := range authors {
		out[i] = a.Author
	}
	return out
}
