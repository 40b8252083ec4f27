// Package charts renders aggregates as standalone HTML chart pages.
package charts

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/svnplot/internal/contract"
	"github.com/huangsam/svnplot/schema"
)

const (
	chartWidth  = "100%"
	chartHeight = "500px"
)

func initOpts(title string) opts.Initialization {
	return opts.Initialization{PageTitle: title, Width: chartWidth, Height: chartHeight}
}

func titleOpts(title, subtitle string) opts.Title {
	return opts.Title{Title: title, Subtitle: subtitle}
}

// ActivityChart draws weekday or hour buckets as a bar chart.
func ActivityChart(title, axis string, buckets []schema.ActivityBucket) *charts.Bar {
	labels := make([]string, len(buckets))
	data := make([]opts.BarData, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
		data[i] = opts.BarData{Value: b.Commits}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(title)),
		charts.WithTitleOpts(titleOpts(title, "")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: axis}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Commits"}),
	)
	bar.SetXAxis(labels).AddSeries("Commits", data)
	return bar
}

func linePoints(points []schema.DatePoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Value: []any{p.Date.Format(contract.DateFormat), p.Value}}
	}
	return data
}

func dateLine(title, yName string, legend bool) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(title)),
		charts.WithTitleOpts(titleOpts(title, "")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legend), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)
	return line
}

// SeriesChart draws one date series as a line.
func SeriesChart(title, yName string, points []schema.DatePoint) *charts.Line {
	line := dateLine(title, yName, false)
	line.AddSeries(yName, linePoints(points))
	return line
}

// AuthorSeriesChart draws one line per author.
func AuthorSeriesChart(title, yName string, series []schema.AuthorSeries) *charts.Line {
	line := dateLine(title, yName, true)
	for _, s := range series {
		line.AddSeries(schema.AuthorLabel(s.Author), linePoints(s.Points))
	}
	return line
}

// AuthorShareChart draws each author's add, modify and delete percentages as stacked bars.
func AuthorShareChart(shares []schema.AuthorShare) *charts.Bar {
	authors := make([]string, len(shares))
	added := make([]opts.BarData, len(shares))
	changed := make([]opts.BarData, len(shares))
	deleted := make([]opts.BarData, len(shares))
	for i, s := range shares {
		authors[i] = schema.AuthorLabel(s.Author)
		added[i] = opts.BarData{Value: s.Added}
		changed[i] = opts.BarData{Value: s.Changed}
		deleted[i] = opts.BarData{Value: s.Deleted}
	}

	stack := charts.WithBarChartOpts(opts.BarChart{Stack: "share"})
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts("Author Activity")),
		charts.WithTitleOpts(titleOpts("Author Activity", "Share of file changes (%)")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	bar.SetXAxis(authors).
		AddSeries("Adding", added, stack).
		AddSeries("Modifying", changed, stack).
		AddSeries("Deleting", deleted, stack)
	bar.XYReversal()
	return bar
}

// CommitScatterChart draws the hour of day of every commit over time, one series per author.
func CommitScatterChart(series []schema.AuthorCommits) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts("Commit Activity")),
		charts.WithTitleOpts(titleOpts("Commit Activity", "Hour of day per commit")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Hour", Type: "value", Min: 0, Max: 24}),
	)
	for _, s := range series {
		data := make([]opts.ScatterData, len(s.Commits))
		for i, c := range s.Commits {
			data[i] = opts.ScatterData{Value: []any{c.Date.Format(contract.DateFormat), c.Hour}, SymbolSize: 6}
		}
		scatter.AddSeries(schema.AuthorLabel(s.Author), data)
	}
	return scatter
}

// DirectoryPieChart draws directory sizes as a pie.
func DirectoryPieChart(dirs []schema.DirectorySize) *charts.Pie {
	data := make([]opts.PieData, len(dirs))
	for i, d := range dirs {
		data[i] = opts.PieData{Name: d.Directory, Value: d.Lines}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts("Directory Sizes")),
		charts.WithTitleOpts(titleOpts("Directory Sizes", "Net lines per directory")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	pie.AddSeries("Lines", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
			charts.WithPieChartOpts(opts.PieChart{Radius: "60%"}),
		)
	return pie
}
