package schema

import "time"

// ActivityBucket is the commit count for one weekday or hour of day.
type ActivityBucket struct {
	Bucket  int    `json:"bucket"`
	Label   string `json:"label"`
	Commits int    `json:"commits"`
}

// DatePoint is one value of a date series.
type DatePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// AuthorSeries is a date series belonging to one author.
type AuthorSeries struct {
	Author string      `json:"author"`
	Points []DatePoint `json:"points"`
}

// AuthorShare is one author's percentage of added, changed and deleted files.
type AuthorShare struct {
	Author  string  `json:"author"`
	Added   float64 `json:"added_pct"`
	Changed float64 `json:"changed_pct"`
	Deleted float64 `json:"deleted_pct"`
	Commits int     `json:"commits"`
}

// CommitTime is the date and hour of day of one commit.
type CommitTime struct {
	Date time.Time `json:"date"`
	Hour int       `json:"hour"`
}

// AuthorCommits holds every commit time of one author.
type AuthorCommits struct {
	Author  string       `json:"author"`
	Commits []CommitTime `json:"commits"`
}

// DirectorySize is the net line count of a directory.
type DirectorySize struct {
	Directory string `json:"directory"`
	Lines     int64  `json:"lines"`
}

// AuthorCount is the number of commits made by one author.
type AuthorCount struct {
	Author  string `json:"author"`
	Commits int    `json:"commits"`
}
