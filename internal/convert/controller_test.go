package convert

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quickPolicy(attempts uint) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts}
}

func TestControllerResumesAfterFailure(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	src := &fakeSource{
		entries: []*schema.LogEntry{
			entry(1, schema.ChangeRecord{Path: "/trunk/a.txt", Type: schema.Added, Kind: schema.FileKind, LinesAdded: 10}),
			entry(2, schema.ChangeRecord{Path: "/trunk/a.txt", Type: schema.Modified, Kind: schema.FileKind, LinesAdded: 2}),
			entry(3, schema.ChangeRecord{Path: "/trunk/b.txt", Type: schema.Added, Kind: schema.FileKind, LinesAdded: 4}),
			entry(4, schema.ChangeRecord{Path: "/trunk/b.txt", Type: schema.Modified, Kind: schema.FileKind, LinesDeleted: 1}),
		},
		failAt:   3,
		failures: 1,
	}

	sum, err := NewController(src, s, quickPolicy(3), nil).Convert(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Attempts)
	assert.Equal(t, 4, sum.Converted)
	assert.False(t, sum.Exhausted)
	assert.Equal(t, int64(4), sum.LastRevision)

	revs, err := s.AllRevisions(ctx)
	require.NoError(t, err)
	require.Len(t, revs, 4)
	for i, r := range revs {
		assert.Equal(t, int64(i+1), r.Revision)
	}
	assert.Equal(t, int64(15), netUnder(t, s, "/trunk"))

	// A second run finds nothing new.
	sum, err = NewController(src, s, quickPolicy(3), nil).Convert(ctx, true)
	require.NoError(t, err)
	assert.Zero(t, sum.Converted)

	revs, err = s.AllRevisions(ctx)
	require.NoError(t, err)
	assert.Len(t, revs, 4)
}

func TestControllerGivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	src := &contract.MockLogSource{}
	src.On("RootURL", mock.Anything).Return("file:///repo", nil)
	src.On("RevisionRange", mock.Anything).Return(int64(0), int64(0), errors.New("svn: E170013"))

	sum, err := NewController(src, s, quickPolicy(3), nil).Convert(ctx, false)
	require.NoError(t, err)
	assert.True(t, sum.Exhausted)
	assert.Equal(t, 3, sum.Attempts)
	src.AssertNumberOfCalls(t, "RevisionRange", 3)
	src.AssertNotCalled(t, "Revisions", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestControllerDoesNotRetryStoreErrors(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Close())

	src := &contract.MockLogSource{}
	_, err := NewController(src, s, quickPolicy(3), nil).Convert(ctx, false)
	require.Error(t, err)
	assert.False(t, IsSourceError(err))
	src.AssertNotCalled(t, "RootURL", mock.Anything)
}

func TestControllerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := openStore(t)

	src := &contract.MockLogSource{}
	src.On("RootURL", mock.Anything).Return("", context.Canceled)

	_, err := NewController(src, s, quickPolicy(5), nil).Convert(ctx, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryPolicy(t *testing.T) {
	p := RetryPolicy{}
	assert.Equal(t, uint(1), p.attempts())
	assert.True(t, p.retryable(contract.WrapSourceError("log", errors.New("x"))))
	assert.False(t, p.retryable(errors.New("disk full")))

	p.Retryable = func(error) bool { return true }
	assert.True(t, p.retryable(errors.New("disk full")))

	d := DefaultRetryPolicy()
	assert.Equal(t, uint(contract.DefaultMaxRetries), d.MaxAttempts)
	assert.Equal(t, contract.DefaultRetryDelay, d.Delay)
}
