//go:build basic || database

package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/internal/convert"
	"github.com/huangsam/svnplot/internal/logdb"
	"github.com/huangsam/svnplot/schema"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared svnplot binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the svnplot binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "svnplot-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "svnplot")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build svnplot: %v", err))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// runCommand runs the svnplot binary with extra environment and returns its stdout.
func runCommand(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// historyEntries is a small history with a branch copy and a directory delete:
//
//	r1 alice adds /trunk/src/main.c (120 lines) and /trunk/README (10 lines)
//	r2 bob   modifies /trunk/src/main.c (+30 -20)
//	r3 alice copies /trunk to /branches/rel
//	r4 carol deletes /trunk/src
func historyEntries() []*schema.LogEntry {
	at := func(d int) time.Time { return time.Date(2012, 3, d, 14, 0, 0, 0, time.UTC) }
	return []*schema.LogEntry{
		{Revision: 1, Date: at(1), Author: "alice", Message: "import", Valid: true, Changes: []schema.ChangeRecord{
			{Path: "/trunk/src/main.c", Type: schema.Added, Kind: schema.FileKind, LinesAdded: 120},
			{Path: "/trunk/README", Type: schema.Added, Kind: schema.FileKind, LinesAdded: 10},
		}},
		{Revision: 2, Date: at(2), Author: "bob", Message: "fix", Valid: true, Changes: []schema.ChangeRecord{
			{Path: "/trunk/src/main.c", Type: schema.Modified, Kind: schema.FileKind, LinesAdded: 30, LinesDeleted: 20},
		}},
		{Revision: 3, Date: at(3), Author: "alice", Message: "branch", Valid: true, Changes: []schema.ChangeRecord{
			{Path: "/branches/rel", Type: schema.Added, Kind: schema.DirKind, CopyFrom: &schema.CopySource{Path: "/trunk", Revision: 2}},
		}},
		{Revision: 4, Date: at(4), Author: "carol", Message: "cleanup", Valid: true, Changes: []schema.ChangeRecord{
			{Path: "/trunk/src", Type: schema.Deleted, Kind: schema.DirKind},
		}},
	}
}

// seedStore converts historyEntries into the given store.
func seedStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()
	ctx := context.Background()
	store, err := logdb.Open(ctx, backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Clear(ctx))

	src := &contract.MockLogSource{}
	src.On("RootURL", mock.Anything).Return("svn://example/repo", nil)
	src.On("RevisionRange", mock.Anything).Return(int64(1), int64(4), nil)
	src.On("Revisions", mock.Anything, int64(1), int64(4), true).Return(historyEntries(), nil)

	sum, err := convert.NewController(src, store, convert.RetryPolicy{MaxAttempts: 1}, nil).Convert(ctx, true)
	require.NoError(t, err)
	require.Equal(t, 4, sum.Converted)
	require.Equal(t, int64(4), sum.LastRevision)
}

// wantDirs is the depth-2 directory breakdown of historyEntries.
var wantDirs = []schema.DirectorySize{
	{Directory: "/branches/rel", Lines: 140},
	{Directory: "/trunk", Lines: 10},
}
