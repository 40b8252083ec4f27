package logdb

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/schema"
	"github.com/olekukonko/tablewriter"
)

// GetStatus returns status information about the log store.
func (s *Store) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}

	version, err := s.SchemaVersion()
	if err != nil {
		return status, err
	}
	status.SchemaVersion = int(version)

	summaryQuery := fmt.Sprintf(`SELECT COUNT(*), COALESCE(MIN(revno), 0), COALESCE(MAX(revno), 0),
		COALESCE(MIN(commitdate), 0), COALESCE(MAX(commitdate), 0) FROM %s`, RevisionTable)
	var first, last int64
	if err := s.db.QueryRowContext(ctx, summaryQuery).Scan(
		&status.TotalRevisions, &status.FirstRevision, &status.LastRevision, &first, &last); err != nil {
		return status, fmt.Errorf("failed to get revision totals: %w", err)
	}
	if status.TotalRevisions > 0 {
		status.FirstCommitTime = time.Unix(first, 0).UTC()
		status.LastCommitTime = time.Unix(last, 0).UTC()
	}

	detailQuery := s.Rebind(fmt.Sprintf(`SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN entrytype = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN linecountfresh = ? THEN 1 ELSE 0 END), 0)
		FROM %s`, DetailTable))
	if err := s.db.QueryRowContext(ctx, detailQuery, string(schema.SyntheticEntry), false).Scan(
		&status.TotalDetails, &status.SyntheticDetails, &status.StaleDetails); err != nil {
		return status, fmt.Errorf("failed to get change detail totals: %w", err)
	}

	for _, table := range []string{RevisionTable, DetailTable, PathTable} {
		var count int64
		if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalPaths = int(status.TableSizes[PathTable])
	return status, nil
}

// Clear deletes all converted history. The schema is kept.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, table := range []string{DetailTable, RevisionTable, PathTable} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// PrintStoreStatus prints store status information as a table.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Property", "Value"})

	rows := [][]string{
		{"Backend", status.Backend},
		{"Connected", fmt.Sprintf("%t", status.Connected)},
	}
	if status.Connected {
		rows = append(rows,
			[]string{"Schema Version", fmt.Sprintf("%d", status.SchemaVersion)},
			[]string{"Revisions", fmt.Sprintf("%d", status.TotalRevisions)},
		)
		if status.TotalRevisions > 0 {
			rows = append(rows,
				[]string{"Revision Range", fmt.Sprintf("r%d - r%d", status.FirstRevision, status.LastRevision)},
				[]string{"First Commit", status.FirstCommitTime.Format(contract.DateFormat)},
				[]string{"Last Commit", status.LastCommitTime.Format(contract.DateFormat)},
			)
		}
		rows = append(rows,
			[]string{"Change Details", fmt.Sprintf("%d", status.TotalDetails)},
			[]string{"Synthetic Details", fmt.Sprintf("%d", status.SyntheticDetails)},
			[]string{"Stale Line Counts", fmt.Sprintf("%d", status.StaleDetails)},
			[]string{"Paths", fmt.Sprintf("%d", status.TotalPaths)},
		)
	}

	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
