//go:build basic

package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/svnplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSQLiteReports seeds a SQLite store and reads every surface of it through the CLI.
func TestSQLiteReports(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "repo.db")
	seedStore(t, schema.SQLiteBackend, dbPath)

	t.Run("dirs as json", func(t *testing.T) {
		out, err := runCommand(t, nil, "report", "dirs", "--output", "json", dbPath)
		require.NoError(t, err)
		var dirs []schema.DirectorySize
		require.NoError(t, json.Unmarshal([]byte(out), &dirs))
		assert.Equal(t, wantDirs, dirs)
	})

	t.Run("file count as csv", func(t *testing.T) {
		out, err := runCommand(t, nil, "report", "files", "--output", "csv", dbPath)
		require.NoError(t, err)
		records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"date", "files"},
			{"2012-03-01", "2.00"},
			{"2012-03-02", "2.00"},
			{"2012-03-03", "4.00"},
			{"2012-03-04", "3.00"},
		}, records)
	})

	t.Run("committers table", func(t *testing.T) {
		out, err := runCommand(t, nil, "report", "committers", "--color", "no", dbPath)
		require.NoError(t, err)
		assert.Contains(t, out, "alice")
		assert.Contains(t, out, "Report completed in")
	})

	t.Run("unknown aggregate", func(t *testing.T) {
		_, err := runCommand(t, nil, "report", "bogus", dbPath)
		assert.Error(t, err)
	})

	t.Run("charts", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "charts")
		_, err := runCommand(t, nil, "charts", dbPath, outDir)
		require.NoError(t, err)
		entries, err := os.ReadDir(outDir)
		require.NoError(t, err)
		assert.Len(t, entries, len(schema.AllAggregates))
	})

	t.Run("export", func(t *testing.T) {
		prefix := filepath.Join(t.TempDir(), "repo")
		_, err := runCommand(t, nil, "store", "export", "--output-file", prefix, dbPath)
		require.NoError(t, err)
		assert.FileExists(t, prefix+".revisions.parquet")
		assert.FileExists(t, prefix+".change_details.parquet")
	})
}
