// Package plot renders the per-page reading chart.
package plot

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/hmoravej/pagewatch/internal/model"
)

var (
	barColor  = color.RGBA{R: 0, G: 139, B: 139, A: 255} // darkcyan
	lineColor = color.RGBA{R: 200, G: 30, B: 30, A: 255}
)

// RenderBar writes a PNG bar chart to path: one bar per page in the range,
// y-axis in minutes, with a dashed line marking the average. A single-page
// mapping still renders.
func RenderBar(result model.AnalysisResult, perPage map[int]float64, path string) error {
	if len(perPage) == 0 {
		return fmt.Errorf("nothing to plot for pages %s", result.PageRange)
	}

	pages := make([]int, 0, len(perPage))
	for page := range perPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	values := make(plotter.Values, len(pages))
	labels := make([]string, len(pages))
	for i, page := range pages {
		values[i] = perPage[page] / 60
		labels[i] = strconv.Itoa(page)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Reading Duration per Page: %s\n(Pages %s)", result.BookTitle, result.PageRange)
	p.X.Label.Text = "Page Number"
	p.Y.Label.Text = "Duration (Minutes)"

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)

	avgMin := result.AvgDurationPerPage / 60
	avgLine, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: avgMin},
		{X: float64(len(pages)) - 0.5, Y: avgMin},
	})
	if err != nil {
		return fmt.Errorf("failed to build average line: %w", err)
	}
	avgLine.LineStyle.Color = lineColor
	avgLine.LineStyle.Width = vg.Points(1.5)
	avgLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(avgLine)

	p.Legend.Add("Duration per Page", bars)
	p.Legend.Add(fmt.Sprintf("Average (%.2f min)", avgMin), avgLine)
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

// Filename builds the chart file name for a book and range, e.g.
// "algorithms_p335-339_analysis.png".
func Filename(bookTitle string, pr model.PageRange) string {
	name := strings.TrimSuffix(bookTitle, ".pdf")
	for _, r := range []string{"/", "\\", ":"} {
		name = strings.ReplaceAll(name, r, "_")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "book"
	}
	return fmt.Sprintf("%s_p%d-%d_analysis.png", name, pr.Start, pr.End)
}
