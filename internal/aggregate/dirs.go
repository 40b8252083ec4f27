package aggregate

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/huangsam/svnplot/schema"
)

// DirectorySizes returns net lines per directory truncated to depth components,
// largest first. Directories with a net size of zero or less are left out.
func (q *Querier) DirectorySizes(ctx context.Context, f Filter, depth int) ([]schema.DirectorySize, error) {
	w := detailWhere(f)
	query := q.store.Rebind(fmt.Sprintf(`SELECT d.changedpath, SUM(d.linesadded), SUM(d.linesdeleted)
		FROM %s r JOIN %s d ON d.revno = r.revno
		WHERE %s
		GROUP BY d.changedpath`, logdb.RevisionTable, logdb.DetailView, w))
	rows, err := q.store.DB().QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query directory sizes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sizes := make(map[string]int64)
	for rows.Next() {
		var path string
		var added, deleted int64
		if err := rows.Scan(&path, &added, &deleted); err != nil {
			return nil, fmt.Errorf("failed to scan directory size: %w", err)
		}
		sizes[schema.DirName(path, depth)] += added - deleted
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]schema.DirectorySize, 0, len(sizes))
	for dir, lines := range sizes {
		if lines <= 0 {
			continue
		}
		out = append(out, schema.DirectorySize{Directory: dir, Lines: lines})
	}
	slices.SortFunc(out, func(a, b schema.DirectorySize) int {
		if c := cmp.Compare(b.Lines, a.Lines); c != 0 {
			return c
		}
		return cmp.Compare(a.Directory, b.Directory)
	})
	return out, nil
}
