// Package svnclient implements the log source on top of the local 'svn' binary.
package svnclient

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/schema"
)

// Runner executes one svn command and returns its stdout.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// Client implements the LogSource interface by executing the
// local 'svn' binary installed on the machine.
type Client struct {
	url        string
	username   string
	password   string
	batchSize  int64
	binaryExts map[string]struct{}
	run        Runner
	logger     *slog.Logger
	rootURL    string
}

var _ contract.LogSource = &Client{} // Compile-time check

// Option configures a Client.
type Option func(*Client)

// WithCredentials passes a username and password to every svn command.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithBatchSize sets how many revisions are requested per 'svn log' call.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = int64(n)
		}
	}
}

// WithRunner replaces command execution, mostly for tests.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.run = r }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithBinaryExtensions replaces the list of extensions that are never diffed.
func WithBinaryExtensions(exts []string) Option {
	return func(c *Client) {
		c.binaryExts = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			c.binaryExts[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
		}
	}
}

// NewClient creates a client for the repository at url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:       strings.TrimRight(url, "/"),
		batchSize: contract.DefaultBatchSize,
		logger:    slog.Default(),
	}
	WithBinaryExtensions(DefaultBinaryExtensions)(c)
	c.run = c.exec
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// exec runs the svn binary non-interactively with the configured credentials.
func (c *Client) exec(ctx context.Context, args ...string) ([]byte, error) {
	fullArgs := append([]string{"--non-interactive"}, args...)
	if c.username != "" {
		fullArgs = append(fullArgs, "--username", c.username, "--no-auth-cache")
	}
	if c.password != "" {
		fullArgs = append(fullArgs, "--password", c.password)
	}
	cmd := exec.CommandContext(ctx, "svn", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("svn %s failed for %q: %s", args[0], c.url, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("svn command failed: %w. Ensure Subversion is installed and available on your PATH", err)
	}
	return out, nil
}

// RootURL implements the LogSource interface.
func (c *Client) RootURL(ctx context.Context) (string, error) {
	if c.rootURL != "" {
		return c.rootURL, nil
	}
	out, err := c.run(ctx, "info", "--xml", c.url)
	if err != nil {
		return "", contract.WrapSourceError("info", err)
	}
	root, _, _, err := parseInfo(out)
	if err != nil {
		return "", contract.WrapSourceError("info", err)
	}
	c.rootURL = root
	return root, nil
}

// RevisionRange implements the LogSource interface.
// The first revision is the oldest one touching the URL; the last is its last changed revision.
func (c *Client) RevisionRange(ctx context.Context) (int64, int64, error) {
	out, err := c.run(ctx, "info", "--xml", "-r", "HEAD", c.url)
	if err != nil {
		return 0, 0, contract.WrapSourceError("info", err)
	}
	_, rev, lastChanged, err := parseInfo(out)
	if err != nil {
		return 0, 0, contract.WrapSourceError("info", err)
	}
	maxRev := lastChanged
	if maxRev == 0 {
		maxRev = rev
	}

	out, err = c.run(ctx, "log", "--xml", "-q", "-r", "1:HEAD", "-l", "1", c.url)
	if err != nil {
		return 0, 0, contract.WrapSourceError("log", err)
	}
	entries, err := parseLog(out)
	if err != nil {
		return 0, 0, contract.WrapSourceError("log", err)
	}
	minRev := int64(1)
	if len(entries) > 0 {
		minRev = entries[0].Revision
	}
	return minRev, maxRev, nil
}

// Revisions implements the LogSource interface.
// Log pages are fetched lazily, one batch at a time.
func (c *Client) Revisions(ctx context.Context, start, end int64, withLineCounts bool) iter.Seq2[*schema.LogEntry, error] {
	return func(yield func(*schema.LogEntry, error) bool) {
		for lo := start; lo <= end; lo += c.batchSize {
			hi := min(lo+c.batchSize-1, end)
			rangeArg := strconv.FormatInt(lo, 10) + ":" + strconv.FormatInt(hi, 10)
			c.logger.Debug("fetching svn log", "range", rangeArg)

			out, err := c.run(ctx, "log", "--xml", "-v", "-r", rangeArg, c.url)
			if err != nil {
				yield(nil, contract.WrapSourceError("log", err))
				return
			}
			entries, err := parseLog(out)
			if err != nil {
				yield(nil, contract.WrapSourceError("log", err))
				return
			}

			for _, entry := range entries {
				if withLineCounts && entry.Valid {
					if err := c.fillLineCounts(ctx, entry); err != nil {
						yield(nil, err)
						return
					}
				}
				if !yield(entry, nil) {
					return
				}
			}
		}
	}
}

func (c *Client) fillLineCounts(ctx context.Context, entry *schema.LogEntry) error {
	for i := range entry.Changes {
		ch := &entry.Changes[i]
		if ch.Kind == schema.DirKind || ch.IsCopy() {
			continue
		}
		added, deleted, err := c.DiffLineCount(ctx, entry.Revision, ch.Path, ch.Type)
		if err != nil {
			return err
		}
		ch.LinesAdded, ch.LinesDeleted = added, deleted
	}
	return nil
}

// DiffLineCount implements the LogSource interface.
// Deleted and binary paths report zero; deletes are accounted for during reconciliation.
func (c *Client) DiffLineCount(ctx context.Context, revision int64, path string, changeType schema.ChangeType) (int, int, error) {
	if changeType == schema.Deleted || isBinaryPath(path, c.binaryExts) {
		return 0, 0, nil
	}
	root, err := c.RootURL(ctx)
	if err != nil {
		return 0, 0, err
	}
	target := fmt.Sprintf("%s%s@%d", root, path, revision)
	out, err := c.run(ctx, "diff", "-c", strconv.FormatInt(revision, 10), target)
	if err != nil {
		return 0, 0, contract.WrapSourceError("diff", err)
	}
	added, deleted := countDiffLines(out)
	return added, deleted, nil
}
