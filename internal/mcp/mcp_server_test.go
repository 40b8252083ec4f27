package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/internal/logdb"
	mcp_internal "github.com/huangsam/svnplot/internal/mcp"
	"github.com/huangsam/svnplot/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) *logdb.Store {
	t.Helper()
	ctx := context.Background()
	store, err := logdb.Open(ctx, schema.SQLiteBackend, filepath.Join(t.TempDir(), "log.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	w := store.Writer()
	commits := []struct {
		author string
		path   string
		added  int
	}{
		{"alice", "/trunk/src/a.go", 40},
		{"bob", "/trunk/docs/readme.txt", 10},
		{"alice", "/trunk/src/b.go", 20},
	}
	for i, c := range commits {
		rev := int64(i + 1)
		require.NoError(t, w.InsertRevision(ctx, schema.RevisionSummary{
			Revision: rev, CommitDate: time.Date(2011, 6, 1+i, 12, 0, 0, 0, time.UTC), Author: c.author, AddedFiles: 1,
		}))
		require.NoError(t, w.InsertDetail(ctx, schema.ChangeDetail{
			Revision: rev, Path: c.path, ChangeType: schema.Added, PathKind: schema.FileKind,
			LinesAdded: c.added, LineCountFresh: true,
		}))
	}
	return store
}

func callTool(t *testing.T, cfg *contract.Config, store *logdb.Store, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, store)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPServerAggregates(t *testing.T) {
	store := newSeededStore(t)
	cfg := &contract.Config{Depth: 2, MaxAuthors: 10, Location: time.UTC}

	t.Run("directory sizes", func(t *testing.T) {
		res := callTool(t, cfg, store, mcp_internal.AggregateTool, map[string]any{"aggregate": "dirs"})
		require.False(t, res.IsError)

		var dirs []schema.DirectorySize
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &dirs))
		assert.Equal(t, []schema.DirectorySize{
			{Directory: "/trunk/src", Lines: 60},
			{Directory: "/trunk/docs", Lines: 10},
		}, dirs)
	})

	t.Run("author filter", func(t *testing.T) {
		res := callTool(t, cfg, store, mcp_internal.AggregateTool, map[string]any{
			"aggregate": "loc", "author": "bob",
		})
		require.False(t, res.IsError)

		var points []schema.DatePoint
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &points))
		require.Len(t, points, 1)
		assert.InDelta(t, 10, points[0].Value, 1e-9)
	})

	t.Run("depth override", func(t *testing.T) {
		res := callTool(t, cfg, store, mcp_internal.AggregateTool, map[string]any{
			"aggregate": "dirs", "depth": 1.0, "path_prefix": "trunk/src",
		})
		require.False(t, res.IsError)
		assert.Contains(t, resultText(t, res), `"/trunk"`)
		assert.NotContains(t, resultText(t, res), "docs")
	})

	t.Run("unknown aggregate", func(t *testing.T) {
		res := callTool(t, cfg, store, mcp_internal.AggregateTool, map[string]any{"aggregate": "bogus"})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(t, res), "unknown aggregate 'bogus'")
	})
}

func TestMCPServerUnknownAuthorFilter(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)
	w := store.Writer()
	require.NoError(t, w.InsertRevision(ctx, schema.RevisionSummary{
		Revision: 4, CommitDate: time.Date(2011, 6, 9, 12, 0, 0, 0, time.UTC), AddedFiles: 1,
	}))
	require.NoError(t, w.InsertDetail(ctx, schema.ChangeDetail{
		Revision: 4, Path: "/trunk/misc/x.txt", ChangeType: schema.Added, PathKind: schema.FileKind,
		LinesAdded: 7, LineCountFresh: true,
	}))

	cfg := &contract.Config{Depth: 2, MaxAuthors: 10, Location: time.UTC}
	res := callTool(t, cfg, store, mcp_internal.AggregateTool, map[string]any{
		"aggregate": "loc", "author": schema.UnknownAuthor,
	})
	require.False(t, res.IsError)

	var points []schema.DatePoint
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &points))
	require.Len(t, points, 1, "commits without an author match the unknown label")
	assert.InDelta(t, 7, points[0].Value, 1e-9)
}

func TestMCPServerAuthorsAndStatus(t *testing.T) {
	store := newSeededStore(t)
	cfg := &contract.Config{Location: time.UTC}

	res := callTool(t, cfg, store, mcp_internal.AuthorsTool, map[string]any{"limit": 1.0})
	require.False(t, res.IsError)
	var authors []schema.AuthorCount
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &authors))
	assert.Equal(t, []schema.AuthorCount{{Author: "alice", Commits: 2}}, authors)

	res = callTool(t, cfg, store, mcp_internal.StoreStatusTool, nil)
	require.False(t, res.IsError)
	var status schema.StoreStatus
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &status))
	assert.Equal(t, 3, status.TotalRevisions)
	assert.Equal(t, int64(3), status.LastRevision)
	assert.Equal(t, 3, status.TotalPaths)
}

func TestMCPServerStoreErrors(t *testing.T) {
	store := newSeededStore(t)
	require.NoError(t, store.Close())

	res := callTool(t, &contract.Config{}, store, mcp_internal.AggregateTool, map[string]any{"aggregate": "loc"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "aggregate failed")
}
