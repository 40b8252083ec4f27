package schema

// Custom string types for type safety.
type (
	// ChangeType represents the kind of change made to a path in a revision.
	ChangeType string

	// PathKind represents whether a changed path is a file or a directory.
	PathKind string

	// EntryKind distinguishes rows reported by the log source from rows
	// fabricated during conversion.
	EntryKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the log store.
	DatabaseBackend string

	// Aggregate names a report that can be computed from the log store.
	Aggregate string
)

// All change types reported by the log source.
const (
	Added    ChangeType = "A"
	Modified ChangeType = "M"
	Deleted  ChangeType = "D"
	Replaced ChangeType = "R"
)

// All path kinds.
const (
	FileKind    PathKind = "F"
	DirKind     PathKind = "D"
	UnknownKind PathKind = "U"
)

// All entry kinds.
const (
	RealEntry      EntryKind = "R"
	SyntheticEntry EntryKind = "D"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// All aggregates supported by the report command and MCP server.
const (
	WeekdayAggregate     Aggregate = "weekday"
	HourAggregate        Aggregate = "hour"
	LOCAggregate         Aggregate = "loc"
	LOCByAuthorAggregate Aggregate = "loc-by-author"
	FileCountAggregate   Aggregate = "files"
	AvgFileSizeAggregate Aggregate = "avg-file-size"
	AuthorShareAggregate Aggregate = "authors"
	ScatterAggregate     Aggregate = "commit-scatter"
	DirectoryAggregate   Aggregate = "dirs"
)

// ValidChangeTypes lists all valid change types.
var ValidChangeTypes = map[ChangeType]struct{}{
	Added:    {},
	Modified: {},
	Deleted:  {},
	Replaced: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// AllAggregates lists every aggregate in report order.
var AllAggregates = []Aggregate{
	WeekdayAggregate,
	HourAggregate,
	LOCAggregate,
	LOCByAuthorAggregate,
	FileCountAggregate,
	AvgFileSizeAggregate,
	AuthorShareAggregate,
	ScatterAggregate,
	DirectoryAggregate,
}

// ValidAggregates lists all valid aggregates.
var ValidAggregates = func() map[Aggregate]struct{} {
	m := make(map[Aggregate]struct{}, len(AllAggregates))
	for _, a := range AllAggregates {
		m[a] = struct{}{}
	}
	return m
}()

// UnknownAuthor is shown in place of an empty author name.
const UnknownAuthor = "unknown"
