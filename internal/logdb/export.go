package logdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/svnplot/internal/parquet"
)

// ExportResult lists the files written by an export.
type ExportResult struct {
	RevisionsFile string
	DetailsFile   string
	Revisions     int
	Details       int
}

// ExportParquet writes the revision summaries and change details of the store
// to two Parquet files named after outputPrefix.
func (s *Store) ExportParquet(ctx context.Context, outputPrefix string) (ExportResult, error) {
	var result ExportResult
	if outputPrefix == "" {
		return result, errors.New("--output-file is required for export command")
	}

	revisions, err := s.AllRevisions(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to retrieve revisions: %w", err)
	}
	if len(revisions) == 0 {
		return result, errors.New("no converted revisions found to export")
	}
	details, err := s.AllDetails(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to retrieve change details: %w", err)
	}

	result.RevisionsFile = outputPrefix + ".revisions.parquet"
	if err := parquet.WriteRevisionsParquet(parquet.ConvertRevisions(revisions), result.RevisionsFile); err != nil {
		return result, fmt.Errorf("failed to write revisions: %w", err)
	}
	result.Revisions = len(revisions)

	result.DetailsFile = outputPrefix + ".change_details.parquet"
	if err := parquet.WriteChangeDetailsParquet(parquet.ConvertChangeDetails(details), result.DetailsFile); err != nil {
		return result, fmt.Errorf("failed to write change details: %w", err)
	}
	result.Details = len(details)
	return result, nil
}
