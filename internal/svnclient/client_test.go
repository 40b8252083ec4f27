package svnclient

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoXML = `<?xml version="1.0" encoding="UTF-8"?>
<info>
<entry kind="dir" path="repo" revision="12">
<url>svn://example.com/repo/trunk</url>
<repository>
<root>svn://example.com/repo</root>
<uuid>1f0c5b2e-0000-0000-0000-000000000000</uuid>
</repository>
<commit revision="11">
<author>alice</author>
<date>2009-01-02T03:04:05.000000Z</date>
</commit>
</entry>
</info>`

const logXML = `<?xml version="1.0" encoding="UTF-8"?>
<log>
<logentry revision="1">
<author>alice</author>
<date>2009-01-02T03:04:05.123456Z</date>
<paths>
<path kind="dir" action="A">/trunk</path>
<path kind="file" action="A">/trunk/a.txt</path>
</paths>
<msg>initial import</msg>
</logentry>
<logentry revision="2">
</logentry>
<logentry revision="3">
<date>2009-01-03T10:00:00.000000Z</date>
<paths>
<path kind="dir" action="A" copyfrom-path="/trunk" copyfrom-rev="1">/tags/v1</path>
<path kind="file" action="M">/trunk/logo.png</path>
</paths>
<msg>tag</msg>
</logentry>
</log>`

const diffXML = `Index: a.txt
===================================================================
--- a.txt	(nonexistent)
+++ a.txt	(revision 1)
@@ -0,0 +1,3 @@
+one
+two
+three

Property changes on: a.txt
___________________________________________________________________
Added: svn:keywords
## -0,0 +1 ##
+Id
`

type fakeRunner struct {
	calls   [][]string
	respond func(args []string) ([]byte, error)
}

func (f *fakeRunner) run(_ context.Context, args ...string) ([]byte, error) {
	f.calls = append(f.calls, args)
	return f.respond(args)
}

func TestParseLog(t *testing.T) {
	entries, err := parseLog([]byte(logXML))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	first := entries[0]
	assert.True(t, first.Valid)
	assert.Equal(t, int64(1), first.Revision)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, "initial import", first.Message)
	assert.Equal(t, time.Date(2009, 1, 2, 3, 4, 5, 123456000, time.UTC), first.Date)
	require.Len(t, first.Changes, 2)
	assert.Equal(t, schema.DirKind, first.Changes[0].Kind)
	assert.Equal(t, schema.Added, first.Changes[1].Type)

	assert.False(t, entries[1].Valid, "empty logentry is unreadable")

	third := entries[2]
	assert.True(t, third.Valid)
	assert.Empty(t, third.Author, "missing author is kept as-is")
	require.NotNil(t, third.Changes[0].CopyFrom)
	assert.Equal(t, "/trunk", third.Changes[0].CopyFrom.Path)
	assert.Equal(t, int64(1), third.Changes[0].CopyFrom.Revision)
	assert.True(t, third.Changes[0].IsCopy())
}

func TestParseLogInvalidXML(t *testing.T) {
	_, err := parseLog([]byte("<log><logentry"))
	assert.Error(t, err)
}

func TestCountDiffLines(t *testing.T) {
	added, deleted := countDiffLines([]byte(diffXML))
	assert.Equal(t, 3, added)
	assert.Equal(t, 0, deleted)

	added, deleted = countDiffLines([]byte("--- a\n+++ b\n@@ -1,2 +1,2 @@\n-old\n+new\n context\n"))
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, deleted)
}

func TestCountDiffLinesHeaderLikeContent(t *testing.T) {
	diff := strings.Join([]string{
		"Index: schema.sql",
		"===================================================================",
		"--- schema.sql\t(revision 3)",
		"+++ schema.sql\t(revision 4)",
		"@@ -1,2 +1,2 @@",
		"--- old sql comment",
		"+++ counter",
		" SELECT 1;",
		"Index: init.lua",
		"===================================================================",
		"--- init.lua\t(revision 3)",
		"+++ init.lua\t(revision 4)",
		"@@ -1 +1 @@",
		"-local x = 1",
		"+-- header moved",
		"",
	}, "\n")

	added, deleted := countDiffLines([]byte(diff))
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, deleted)
}

func TestIsBinaryPath(t *testing.T) {
	c := NewClient("svn://example.com/repo")
	assert.True(t, isBinaryPath("/trunk/logo.PNG", c.binaryExts))
	assert.False(t, isBinaryPath("/trunk/main.c", c.binaryExts))
	assert.False(t, isBinaryPath("/trunk/Makefile", c.binaryExts))
}

func TestRevisionRange(t *testing.T) {
	fr := &fakeRunner{respond: func(args []string) ([]byte, error) {
		if args[0] == "info" {
			return []byte(infoXML), nil
		}
		return []byte(`<log><logentry revision="4"></logentry></log>`), nil
	}}
	c := NewClient("svn://example.com/repo/trunk/", WithRunner(fr.run))

	minRev, maxRev, err := c.RevisionRange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), minRev)
	assert.Equal(t, int64(11), maxRev)
}

func TestRootURL(t *testing.T) {
	fr := &fakeRunner{respond: func([]string) ([]byte, error) { return []byte(infoXML), nil }}
	c := NewClient("svn://example.com/repo/trunk", WithRunner(fr.run))

	root, err := c.RootURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "svn://example.com/repo", root)

	_, err = c.RootURL(context.Background())
	require.NoError(t, err)
	assert.Len(t, fr.calls, 1, "root url is cached")
}

func TestRevisionsBatchesAndLineCounts(t *testing.T) {
	fr := &fakeRunner{respond: func(args []string) ([]byte, error) {
		switch args[0] {
		case "info":
			return []byte(infoXML), nil
		case "diff":
			return []byte(diffXML), nil
		default:
			if args[4] == "1:2" {
				return []byte(logXML), nil
			}
			return []byte(`<log></log>`), nil
		}
	}}
	c := NewClient("svn://example.com/repo", WithRunner(fr.run), WithBatchSize(2))

	var got []*schema.LogEntry
	for entry, err := range c.Revisions(context.Background(), 1, 3, true) {
		require.NoError(t, err)
		got = append(got, entry)
	}
	require.Len(t, got, 3)

	// Only the text file of revision 1 is diffed: dirs, copies and binaries are skipped.
	assert.Equal(t, 3, got[0].Changes[1].LinesAdded)
	assert.Equal(t, 0, got[0].Changes[0].LinesAdded)
	assert.Equal(t, 0, got[2].Changes[1].LinesAdded)

	var logRanges []string
	for _, call := range fr.calls {
		if call[0] == "log" {
			logRanges = append(logRanges, call[4])
		}
		if call[0] == "diff" {
			assert.True(t, strings.HasSuffix(call[3], "/trunk/a.txt@1"))
		}
	}
	assert.Equal(t, []string{"1:2", "3:3"}, logRanges)
}

func TestRevisionsSourceError(t *testing.T) {
	fr := &fakeRunner{respond: func([]string) ([]byte, error) { return nil, errors.New("E170013: Unable to connect") }}
	c := NewClient("svn://example.com/repo", WithRunner(fr.run))

	for entry, err := range c.Revisions(context.Background(), 1, 10, false) {
		assert.Nil(t, entry)
		var se *contract.SourceError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "log", se.Op)
	}
}

func TestDiffLineCountSkipsDeletes(t *testing.T) {
	fr := &fakeRunner{respond: func([]string) ([]byte, error) { return nil, errors.New("should not run") }}
	c := NewClient("svn://example.com/repo", WithRunner(fr.run))

	added, deleted, err := c.DiffLineCount(context.Background(), 5, "/trunk/a.txt", schema.Deleted)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Zero(t, deleted)
	assert.Empty(t, fr.calls)
}
