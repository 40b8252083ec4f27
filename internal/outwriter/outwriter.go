// Package outwriter has output and writer logic for aggregate reports.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// OutWriter provides a unified interface for all report output.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// Write prints a report in the configured format. JSON and CSV honor the
// configured output file; tables always go to stdout.
func (ow *OutWriter) Write(r Report, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteReport(w, r, cfg, duration)
		}, "Wrote "+strings.ToUpper(string(cfg.Output))+" "+strings.ToLower(r.Title))
	default:
		return WriteReport(os.Stdout, r, cfg, duration)
	}
}

// WriteReport writes a report to w, dispatching on the configured output format.
func WriteReport(w io.Writer, r Report, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, r.Data); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeCSVWithHeader(w, r.Header, func(cw *csv.Writer) error {
			return cw.WriteAll(r.Rows)
		})
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeTable(w, r, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeTable prints the report with tablewriter, truncating the path column to fit the terminal.
func writeTable(w io.Writer, r Report, cfg *contract.Config, duration time.Duration) error {
	if cfg.UseColors {
		_, _ = contract.HeaderColor.Fprintln(w, r.Title)
	} else {
		_, _ = fmt.Fprintln(w, r.Title)
	}

	table := tablewriter.NewWriter(w)
	table.Header(r.Header)
	if !r.LeftAlign {
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignRight
		})
	}

	rows := r.Rows
	if r.PathCol >= 0 {
		others := 0
		for i, h := range r.Header {
			if i != r.PathCol {
				others += max(len(h), 8) + 3
			}
		}
		width := GetMaxTablePathWidth(cfg, others)
		rows = make([][]string, len(r.Rows))
		for i, row := range r.Rows {
			row = append([]string(nil), row...)
			row[r.PathCol] = contract.TruncatePath(row[r.PathCol], width)
			rows[i] = row
		}
	}

	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Report completed in %v with %d rows\n", duration.Round(time.Millisecond), len(r.Rows))
	return nil
}
