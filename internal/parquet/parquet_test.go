package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/svnplot/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevisionStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Revision))
	require.NotNil(t, s)

	for _, colName := range []string{"revno", "commit_date", "author", "msg", "added_files", "changed_files", "deleted_files"} {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestChangeDetailStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ChangeDetail))
	require.NotNil(t, s)

	for _, colName := range []string{
		"revno", "changed_path", "change_type", "copy_from_path", "copy_from_rev",
		"path_type", "lines_added", "lines_deleted", "line_count_fresh", "entry_type",
	} {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestWriteRevisionsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "revisions.parquet")
	date := time.Date(2009, 1, 2, 3, 4, 5, 0, time.UTC)

	data := ConvertRevisions([]schema.RevisionSummary{
		{Revision: 1, CommitDate: date, Author: "alice", Message: "import", AddedFiles: 2},
		{Revision: 2, CommitDate: date.Add(time.Hour), Author: "", Message: "tag", ChangedFiles: 1},
	})
	require.NoError(t, WriteRevisionsParquet(data, outputPath))

	got := readAll[Revision](t, outputPath)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Revision)
	assert.Equal(t, "alice", got[0].Author)
	assert.Equal(t, int32(2), got[0].AddedFiles)
	assert.WithinDuration(t, date, got[0].CommitDate, time.Nanosecond)
	assert.Equal(t, int32(1), got[1].ChangedFiles)
}

func TestWriteChangeDetailsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "details.parquet")

	data := ConvertChangeDetails([]schema.ChangeDetail{
		{Revision: 1, Path: "/trunk/a.txt", ChangeType: schema.Added, PathKind: schema.FileKind,
			LinesAdded: 100, LineCountFresh: true, EntryKind: schema.RealEntry},
		{Revision: 2, Path: "/tags/v1/a.txt", ChangeType: schema.Added, PathKind: schema.FileKind,
			CopyFrom: &schema.CopySource{Path: "/trunk/a.txt", Revision: 1},
			LinesAdded: 100, LineCountFresh: true, EntryKind: schema.SyntheticEntry},
	})
	require.NoError(t, WriteChangeDetailsParquet(data, outputPath))

	got := readAll[ChangeDetail](t, outputPath)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].CopyFromPath)
	assert.Nil(t, got[0].CopyFromRevision)
	require.NotNil(t, got[1].CopyFromPath)
	assert.Equal(t, "/trunk/a.txt", *got[1].CopyFromPath)
	assert.Equal(t, int64(1), *got[1].CopyFromRevision)
	assert.Equal(t, "D", got[1].EntryKind)
	assert.Equal(t, int32(100), got[1].LinesAdded)
}

func TestWriteRevisionsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRevisionsParquet([]Revision{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Parquet file should have a footer even when empty")
}

func TestWriteParquet_BadPath(t *testing.T) {
	err := WriteRevisionsParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	assert.Error(t, err)
}
