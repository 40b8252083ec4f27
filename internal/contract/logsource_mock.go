package contract

import (
	"context"
	"iter"

	"github.com/huangsam/svnplot/schema"
	"github.com/stretchr/testify/mock"
)

// MockLogSource is a mock implementation of LogSource for testing.
type MockLogSource struct {
	mock.Mock
}

var _ LogSource = &MockLogSource{} // Compile-time check

// RootURL implements the LogSource interface.
func (m *MockLogSource) RootURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// RevisionRange implements the LogSource interface.
func (m *MockLogSource) RevisionRange(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// Revisions implements the LogSource interface.
// The mocked return value is the slice of entries to yield, followed by an
// optional error yielded after them.
func (m *MockLogSource) Revisions(ctx context.Context, start, end int64, withLineCounts bool) iter.Seq2[*schema.LogEntry, error] {
	args := m.Called(ctx, start, end, withLineCounts)
	entries, _ := args.Get(0).([]*schema.LogEntry)
	err := args.Error(1)
	return func(yield func(*schema.LogEntry, error) bool) {
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
		if err != nil {
			yield(nil, err)
		}
	}
}

// DiffLineCount implements the LogSource interface.
func (m *MockLogSource) DiffLineCount(ctx context.Context, revision int64, path string, changeType schema.ChangeType) (int, int, error) {
	args := m.Called(ctx, revision, path, changeType)
	return args.Int(0), args.Int(1), args.Error(2)
}
