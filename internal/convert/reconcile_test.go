package convert

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/svnplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticLookup(rows ...schema.PathNetLines) NetLinesLookup {
	return func(context.Context, string, int64) ([]schema.PathNetLines, error) {
		return rows, nil
	}
}

func TestNeedsReconciliation(t *testing.T) {
	cases := []struct {
		name   string
		change schema.ChangeRecord
		want   bool
	}{
		{"copy", schema.ChangeRecord{Type: schema.Added, CopyFrom: &schema.CopySource{Path: "/trunk", Revision: 1}}, true},
		{"plain add", schema.ChangeRecord{Type: schema.Added}, false},
		{"delete without delta", schema.ChangeRecord{Type: schema.Deleted}, true},
		{"delete with delta", schema.ChangeRecord{Type: schema.Deleted, LinesDeleted: 4}, false},
		{"modify", schema.ChangeRecord{Type: schema.Modified}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NeedsReconciliation(tc.change))
		})
	}
}

func TestReconcileCopyRewritesPaths(t *testing.T) {
	change := schema.ChangeRecord{
		Path:     "/branches/b1/",
		Type:     schema.Added,
		CopyFrom: &schema.CopySource{Path: "/trunk/", Revision: 7},
	}
	got, err := Reconcile(context.Background(), 9, change, staticLookup(
		schema.PathNetLines{Path: "/trunk/src/main.c", Added: 40, Deleted: 10},
		schema.PathNetLines{Path: "/trunk/README", Added: 5},
	))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "/branches/b1/src/main.c", got[0].Path)
	assert.Equal(t, 30, got[0].LinesAdded)
	assert.Equal(t, schema.Added, got[0].ChangeType)
	assert.Equal(t, schema.SyntheticEntry, got[0].EntryKind)
	assert.Equal(t, int64(9), got[0].Revision)
	assert.True(t, got[0].LineCountFresh)
	assert.Equal(t, &schema.CopySource{Path: "/trunk/src/main.c", Revision: 7}, got[0].CopyFrom)

	assert.Equal(t, "/branches/b1/README", got[1].Path)
}

func TestReconcileClampsNetAtZero(t *testing.T) {
	change := schema.ChangeRecord{Path: "/old", Type: schema.Deleted}
	got, err := Reconcile(context.Background(), 3, change, staticLookup(
		schema.PathNetLines{Path: "/old/gone.txt", Added: 10, Deleted: 10},
		schema.PathNetLines{Path: "/old/neg.txt", Added: 1, Deleted: 6},
		schema.PathNetLines{Path: "/old/kept.txt", Added: 8, Deleted: 2},
	))
	require.NoError(t, err)
	require.Len(t, got, 3, "every prior file is deleted, even with no lines left")

	want := map[string]int{"/old/gone.txt": 0, "/old/neg.txt": 0, "/old/kept.txt": 6}
	for _, d := range got {
		assert.Equal(t, schema.Deleted, d.ChangeType)
		assert.Equal(t, want[d.Path], d.LinesDeleted, d.Path)
		assert.Zero(t, d.LinesAdded)
	}
}

func TestReconcileCopiesEmptyFiles(t *testing.T) {
	change := schema.ChangeRecord{
		Path:     "/tags/v1",
		Type:     schema.Added,
		CopyFrom: &schema.CopySource{Path: "/trunk", Revision: 1},
	}
	got, err := Reconcile(context.Background(), 2, change, staticLookup(
		schema.PathNetLines{Path: "/trunk/__init__.py", Kind: schema.FileKind, LastChange: schema.Added},
	))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/tags/v1/__init__.py", got[0].Path)
	assert.Zero(t, got[0].LinesAdded)
}

func TestReconcileSkipsDeadPathsAndDirectories(t *testing.T) {
	change := schema.ChangeRecord{
		Path:     "/tags/v1",
		Type:     schema.Added,
		CopyFrom: &schema.CopySource{Path: "/trunk", Revision: 5},
	}
	got, err := Reconcile(context.Background(), 6, change, staticLookup(
		schema.PathNetLines{Path: "/trunk", Kind: schema.DirKind, LastChange: schema.Added},
		schema.PathNetLines{Path: "/trunk/lib", Kind: schema.UnknownKind, LastChange: schema.Added},
		schema.PathNetLines{Path: "/trunk/lib/x.go", Added: 3, Kind: schema.FileKind, LastChange: schema.Added},
		schema.PathNetLines{Path: "/trunk/old.txt", Added: 9, Deleted: 9, Kind: schema.FileKind, LastChange: schema.Deleted},
	))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/tags/v1/lib/x.go", got[0].Path)
	assert.Equal(t, 3, got[0].LinesAdded)
}

func TestReconcileLookupError(t *testing.T) {
	boom := errors.New("boom")
	change := schema.ChangeRecord{Path: "/old", Type: schema.Deleted}
	_, err := Reconcile(context.Background(), 3, change, func(context.Context, string, int64) ([]schema.PathNetLines, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestReconcileNoop(t *testing.T) {
	called := false
	got, err := Reconcile(context.Background(), 3, schema.ChangeRecord{Path: "/a", Type: schema.Modified},
		func(context.Context, string, int64) ([]schema.PathNetLines, error) {
			called = true
			return nil, nil
		})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, called)
}
