// Package parquet provides data structures and functions for exporting converted
// revision history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/svnplot/schema"
	"github.com/parquet-go/parquet-go"
)

// Revision represents a single revision summary.
// This struct maps to the revision_log database table.
type Revision struct {
	// Revision is the repository revision number
	Revision int64 `parquet:"revno,snappy"`

	// CommitDate is when the revision was committed (stored as TIMESTAMP with nanosecond precision)
	CommitDate time.Time `parquet:"commit_date,snappy"`

	// Author is the committer name, empty when unknown
	Author string `parquet:"author,snappy"`

	// Message is the commit message
	Message string `parquet:"msg,snappy"`

	AddedFiles   int32 `parquet:"added_files,snappy"`
	ChangedFiles int32 `parquet:"changed_files,snappy"`
	DeletedFiles int32 `parquet:"deleted_files,snappy"`
}

// ChangeDetail represents one changed path of a revision.
// This struct maps to the revision_log_detail_vw database view.
type ChangeDetail struct {
	Revision   int64  `parquet:"revno,snappy"`
	Path       string `parquet:"changed_path,snappy"`
	ChangeType string `parquet:"change_type,snappy"`

	// CopyFromPath and CopyFromRevision are both set for copies (nullable)
	CopyFromPath     *string `parquet:"copy_from_path,optional,snappy"`
	CopyFromRevision *int64  `parquet:"copy_from_rev,optional,snappy"`

	PathKind       string `parquet:"path_type,snappy"`
	LinesAdded     int32  `parquet:"lines_added,snappy"`
	LinesDeleted   int32  `parquet:"lines_deleted,snappy"`
	LineCountFresh bool   `parquet:"line_count_fresh,snappy"`

	// EntryKind is "R" for rows reported by the log source and "D" for synthetic rows
	EntryKind string `parquet:"entry_type,snappy"`
}

// WriteRevisionsParquet writes a slice of Revision structs to a Parquet file.
func WriteRevisionsParquet(data []Revision, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteChangeDetailsParquet writes a slice of ChangeDetail structs to a Parquet file.
func WriteChangeDetailsParquet(data []ChangeDetail, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows with the schema derived from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRevisions converts store rows into Parquet rows.
func ConvertRevisions(records []schema.RevisionSummary) []Revision {
	out := make([]Revision, 0, len(records))
	for _, r := range records {
		out = append(out, Revision{
			Revision:     r.Revision,
			CommitDate:   r.CommitDate,
			Author:       r.Author,
			Message:      r.Message,
			AddedFiles:   int32(r.AddedFiles),
			ChangedFiles: int32(r.ChangedFiles),
			DeletedFiles: int32(r.DeletedFiles),
		})
	}
	return out
}

// ConvertChangeDetails converts store rows into Parquet rows.
func ConvertChangeDetails(records []schema.ChangeDetail) []ChangeDetail {
	out := make([]ChangeDetail, 0, len(records))
	for _, d := range records {
		row := ChangeDetail{
			Revision:       d.Revision,
			Path:           d.Path,
			ChangeType:     string(d.ChangeType),
			PathKind:       string(d.PathKind),
			LinesAdded:     int32(d.LinesAdded),
			LinesDeleted:   int32(d.LinesDeleted),
			LineCountFresh: d.LineCountFresh,
			EntryKind:      string(d.EntryKind),
		}
		if d.CopyFrom != nil {
			path, rev := d.CopyFrom.Path, d.CopyFrom.Revision
			row.CopyFromPath = &path
			row.CopyFromRevision = &rev
		}
		out = append(out, row)
	}
	return out
}
