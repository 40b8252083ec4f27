package charts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/render"
	"github.com/huangsam/svnplot/internal/aggregate"
	"github.com/huangsam/svnplot/schema"
)

// Chart file names written by RenderAll.
const (
	WeekdayFile     = "actbyweekday.html"
	HourFile        = "actbytimeofday.html"
	LOCFile         = "loc.html"
	LOCByAuthorFile = "locbydev.html"
	FileCountFile   = "filecount.html"
	AvgFileSizeFile = "avgloc.html"
	AuthorShareFile = "authactivity.html"
	ScatterFile     = "commitactivity.html"
	DirectoryFile   = "dirsizepie.html"
)

// Options controls what RenderAll draws.
type Options struct {
	Filter     aggregate.Filter
	Depth      int
	MaxAuthors int
}

// chartPage builds one chart from the store.
type chartPage struct {
	file  string
	build func(ctx context.Context) (render.Renderer, error)
}

// RenderAll writes one HTML page per aggregate into outDir and returns the
// written paths in a fixed order.
func RenderAll(ctx context.Context, q *aggregate.Querier, outDir string, o Options, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	authorCounts, err := q.Authors(ctx, o.Filter, o.MaxAuthors)
	if err != nil {
		return nil, err
	}
	authors := aggregate.AuthorNames(authorCounts)
	f := o.Filter

	pages := []chartPage{
		{WeekdayFile, func(ctx context.Context) (render.Renderer, error) {
			b, err := q.WeekdayActivity(ctx, f)
			return renderer(ActivityChart("Activity By Weekday", "Day of Week", b), err)
		}},
		{HourFile, func(ctx context.Context) (render.Renderer, error) {
			b, err := q.HourActivity(ctx, f)
			return renderer(ActivityChart("Activity By Hour of Day", "Hour of Day", b), err)
		}},
		{LOCFile, func(ctx context.Context) (render.Renderer, error) {
			p, err := q.CumulativeLOC(ctx, f)
			return renderer(SeriesChart("Lines of Code", "Lines", p), err)
		}},
		{LOCByAuthorFile, func(ctx context.Context) (render.Renderer, error) {
			s, err := q.CumulativeLOCByAuthor(ctx, f, authors)
			return renderer(AuthorSeriesChart("Contributed Lines of Code", "Lines", s), err)
		}},
		{FileCountFile, func(ctx context.Context) (render.Renderer, error) {
			p, err := q.FileCount(ctx, f)
			return renderer(SeriesChart("File Count", "Files", p), err)
		}},
		{AvgFileSizeFile, func(ctx context.Context) (render.Renderer, error) {
			p, err := q.AverageFileSize(ctx, f)
			return renderer(SeriesChart("Average File Size", "Lines per File", p), err)
		}},
		{AuthorShareFile, func(ctx context.Context) (render.Renderer, error) {
			s, err := q.AuthorShare(ctx, f)
			return renderer(AuthorShareChart(s), err)
		}},
		{ScatterFile, func(ctx context.Context) (render.Renderer, error) {
			s, err := q.CommitScatter(ctx, f, authors)
			return renderer(CommitScatterChart(s), err)
		}},
		{DirectoryFile, func(ctx context.Context) (render.Renderer, error) {
			d, err := q.DirectorySizes(ctx, f, o.Depth)
			return renderer(DirectoryPieChart(d), err)
		}},
	}

	written := make([]string, 0, len(pages))
	for _, page := range pages {
		r, err := page.build(ctx)
		if err != nil {
			return written, fmt.Errorf("failed to build %s: %w", page.file, err)
		}
		path := filepath.Join(outDir, page.file)
		if err := writePage(path, r); err != nil {
			return written, err
		}
		logger.Debug("wrote chart", "path", path)
		written = append(written, path)
	}
	return written, nil
}

// renderer pairs a built chart with the error of the query that fed it.
func renderer(r render.Renderer, err error) (render.Renderer, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

func writePage(path string, r render.Renderer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := r.Render(f); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}

// ChartFile maps an aggregate name to its chart file.
func ChartFile(agg schema.Aggregate) string {
	switch agg {
	case schema.WeekdayAggregate:
		return WeekdayFile
	case schema.HourAggregate:
		return HourFile
	case schema.LOCAggregate:
		return LOCFile
	case schema.LOCByAuthorAggregate:
		return LOCByAuthorFile
	case schema.FileCountAggregate:
		return FileCountFile
	case schema.AvgFileSizeAggregate:
		return AvgFileSizeFile
	case schema.AuthorShareAggregate:
		return AuthorShareFile
	case schema.ScatterAggregate:
		return ScatterFile
	case schema.DirectoryAggregate:
		return DirectoryFile
	}
	return ""
}
