package charts

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/svnplot/internal/aggregate"
	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/huangsam/svnplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededQuerier(t *testing.T) *aggregate.Querier {
	t.Helper()
	ctx := context.Background()
	s, err := logdb.Open(ctx, schema.SQLiteBackend, filepath.Join(t.TempDir(), "log.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	w := s.Writer()
	base := time.Date(2010, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, author := range []string{"alice", "bob", ""} {
		rev := int64(i + 1)
		require.NoError(t, w.InsertRevision(ctx, schema.RevisionSummary{
			Revision: rev, CommitDate: base.AddDate(0, 0, i), Author: author, AddedFiles: 1,
		}))
		require.NoError(t, w.InsertDetail(ctx, schema.ChangeDetail{
			Revision: rev, Path: "/trunk/src/f" + author + ".go", ChangeType: schema.Added,
			PathKind: schema.FileKind, LinesAdded: 10 * (i + 1), LineCountFresh: true,
		}))
	}
	return aggregate.NewQuerier(s, nil)
}

func TestRenderAll(t *testing.T) {
	q := seededQuerier(t)
	out := filepath.Join(t.TempDir(), "charts")

	written, err := RenderAll(context.Background(), q, out, Options{Depth: 2, MaxAuthors: 10}, nil)
	require.NoError(t, err)
	require.Len(t, written, len(schema.AllAggregates))

	for _, agg := range schema.AllAggregates {
		path := filepath.Join(out, ChartFile(agg))
		assert.Contains(t, written, path)
		content, err := os.ReadFile(path)
		require.NoError(t, err, path)
		assert.Contains(t, string(content), "echarts", path)
	}
}

func TestChartFileUnknown(t *testing.T) {
	assert.Empty(t, ChartFile(schema.Aggregate("nope")))
}

func TestDirectoryPieChartRenders(t *testing.T) {
	pie := DirectoryPieChart([]schema.DirectorySize{{Directory: "/trunk/src", Lines: 60}})

	var buf bytes.Buffer
	require.NoError(t, pie.Render(&buf))
	assert.Contains(t, buf.String(), "/trunk/src")
	assert.Contains(t, buf.String(), "Directory Sizes")
}

func TestAuthorShareChartLabelsUnknown(t *testing.T) {
	bar := AuthorShareChart([]schema.AuthorShare{{Author: "", Added: 100, Commits: 1}})

	var buf bytes.Buffer
	require.NoError(t, bar.Render(&buf))
	assert.Contains(t, buf.String(), schema.UnknownAuthor)
}
