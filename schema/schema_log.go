package schema

import "time"

// CopySource identifies the path and revision a change was copied from.
type CopySource struct {
	Path     string `json:"path"`
	Revision int64  `json:"revision"`
}

// ChangeRecord is one changed path within a revision as reported by the log source.
type ChangeRecord struct {
	Path         string      `json:"path"`
	Type         ChangeType  `json:"type"`
	CopyFrom     *CopySource `json:"copy_from,omitempty"`
	Kind         PathKind    `json:"kind"`
	LinesAdded   int         `json:"lines_added"`
	LinesDeleted int         `json:"lines_deleted"`
}

// IsCopy reports whether the record was added with a copy source.
func (c ChangeRecord) IsCopy() bool {
	return c.Type == Added && c.CopyFrom != nil
}

// LogEntry is a single revision pulled from the log source.
// Entries with Valid set to false are unreadable and carry no other data.
type LogEntry struct {
	Revision int64          `json:"revision"`
	Date     time.Time      `json:"date"`
	Author   string         `json:"author"`
	Message  string         `json:"message"`
	Changes  []ChangeRecord `json:"changes"`
	Valid    bool           `json:"valid"`
}

// FileCounts returns the number of added, changed and deleted files in the entry.
// Directory records are not counted.
func (e *LogEntry) FileCounts() (added, changed, deleted int) {
	for _, c := range e.Changes {
		if c.Kind == DirKind {
			continue
		}
		switch c.Type {
		case Added:
			added++
		case Deleted:
			deleted++
		case Modified, Replaced:
			changed++
		}
	}
	return added, changed, deleted
}
