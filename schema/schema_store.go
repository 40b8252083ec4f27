package schema

import "time"

// RevisionSummary represents a row from the revision_log table.
type RevisionSummary struct {
	Revision     int64
	CommitDate   time.Time
	Author       string
	Message      string
	AddedFiles   int
	ChangedFiles int
	DeletedFiles int
}

// ChangeDetail represents a row from the revision_log_detail table with its
// path ids resolved to strings. The store interns paths on write.
type ChangeDetail struct {
	Revision       int64
	Path           string
	ChangeType     ChangeType
	CopyFrom       *CopySource
	PathKind       PathKind
	LinesAdded     int
	LinesDeleted   int
	LineCountFresh bool
	EntryKind      EntryKind
}

// PathNetLines is the running line total of one path up to some revision.
type PathNetLines struct {
	Path       string
	Added      int64
	Deleted    int64
	Kind       PathKind
	LastChange ChangeType // latest stored change, Deleted once the path is gone
}

// Alive reports whether the path was not deleted by its latest stored change.
func (p PathNetLines) Alive() bool {
	return p.LastChange != Deleted
}

// Net returns added minus deleted, clamped at zero.
func (p PathNetLines) Net() int64 {
	return max(p.Added-p.Deleted, 0)
}

// StaleDetail identifies a real change detail row whose line counts
// have not been computed yet.
type StaleDetail struct {
	Revision   int64
	PathID     int64
	Path       string
	ChangeType ChangeType
	PathKind   PathKind
}
