package outwriter

import (
	"fmt"
	"strconv"

	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/schema"
)

// Report is the tabular form of one aggregate. Rows feed the table and CSV
// output; Data is encoded as is for JSON output.
type Report struct {
	Title     string
	Header    []string
	Rows      [][]string
	Data      any
	PathCol   int // column holding a path to truncate in tables, -1 for none
	LeftAlign bool
}

// ActivityReport renders weekday or hour buckets.
func ActivityReport(title string, buckets []schema.ActivityBucket) Report {
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{b.Label, strconv.Itoa(b.Commits)})
	}
	return Report{Title: title, Header: []string{"bucket", "commits"}, Rows: rows, Data: buckets, PathCol: -1}
}

// SeriesReport renders a date series.
func SeriesReport(title, valueName string, points []schema.DatePoint) Report {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Date.Format(contract.DateFormat), fmtFloat(p.Value)})
	}
	return Report{Title: title, Header: []string{"date", valueName}, Rows: rows, Data: points, PathCol: -1}
}

// AuthorSeriesReport renders one date series per author.
func AuthorSeriesReport(title, valueName string, series []schema.AuthorSeries) Report {
	var rows [][]string
	for _, s := range series {
		author := schema.AuthorLabel(s.Author)
		for _, p := range s.Points {
			rows = append(rows, []string{author, p.Date.Format(contract.DateFormat), fmtFloat(p.Value)})
		}
	}
	return Report{Title: title, Header: []string{"author", "date", valueName}, Rows: rows, Data: series, PathCol: -1}
}

// AuthorShareReport renders per-author activity percentages.
func AuthorShareReport(shares []schema.AuthorShare) Report {
	rows := make([][]string, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []string{
			schema.AuthorLabel(s.Author),
			fmtFloat(s.Added),
			fmtFloat(s.Changed),
			fmtFloat(s.Deleted),
			strconv.Itoa(s.Commits),
		})
	}
	return Report{
		Title:   "Author Activity",
		Header:  []string{"author", "added_pct", "changed_pct", "deleted_pct", "commits"},
		Rows:    rows,
		Data:    shares,
		PathCol: -1,
	}
}

// ScatterReport renders the commit times of each author.
func ScatterReport(series []schema.AuthorCommits) Report {
	var rows [][]string
	for _, s := range series {
		author := schema.AuthorLabel(s.Author)
		for _, c := range s.Commits {
			rows = append(rows, []string{author, c.Date.Format(contract.DateFormat), strconv.Itoa(c.Hour)})
		}
	}
	return Report{Title: "Commit Activity", Header: []string{"author", "date", "hour"}, Rows: rows, Data: series, PathCol: -1}
}

// DirectoryReport renders directory sizes.
func DirectoryReport(dirs []schema.DirectorySize) Report {
	rows := make([][]string, 0, len(dirs))
	for _, d := range dirs {
		rows = append(rows, []string{d.Directory, strconv.FormatInt(d.Lines, 10)})
	}
	return Report{Title: "Directory Sizes", Header: []string{"directory", "lines"}, Rows: rows, Data: dirs, PathCol: 0, LeftAlign: true}
}

// AuthorsReport renders authors by commit count.
func AuthorsReport(authors []schema.AuthorCount) Report {
	rows := make([][]string, 0, len(authors))
	for _, a := range authors {
		rows = append(rows, []string{schema.AuthorLabel(a.Author), strconv.Itoa(a.Commits)})
	}
	return Report{Title: "Authors", Header: []string{"author", "commits"}, Rows: rows, Data: authors, PathCol: -1}
}

// ReportFor builds the report of an aggregate from the value Querier.Compute returned for it.
func ReportFor(agg schema.Aggregate, data any) (Report, error) {
	switch v := data.(type) {
	case []schema.ActivityBucket:
		if agg == schema.HourAggregate {
			return ActivityReport("Activity By Hour of Day", v), nil
		}
		return ActivityReport("Activity By Weekday", v), nil
	case []schema.DatePoint:
		switch agg {
		case schema.FileCountAggregate:
			return SeriesReport("File Count", "files", v), nil
		case schema.AvgFileSizeAggregate:
			return SeriesReport("Average File Size", "avg_lines", v), nil
		default:
			return SeriesReport("Lines of Code", "loc", v), nil
		}
	case []schema.AuthorSeries:
		return AuthorSeriesReport("Contributed Lines of Code", "loc", v), nil
	case []schema.AuthorShare:
		return AuthorShareReport(v), nil
	case []schema.AuthorCommits:
		return ScatterReport(v), nil
	case []schema.DirectorySize:
		return DirectoryReport(v), nil
	case []schema.AuthorCount:
		return AuthorsReport(v), nil
	}
	return Report{}, fmt.Errorf("no report for aggregate %q with %T", agg, data)
}
