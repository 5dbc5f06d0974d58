package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/hmoravej/pagewatch/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Bold(true)
)

// RenderSummary prints the analysis summary. session marks delta results,
// where durations cover only the reading done since the initial snapshot.
func RenderSummary(w io.Writer, res model.AnalysisResult, session bool) error {
	heading := fmt.Sprintf("%s (pages %s)", res.BookTitle, res.PageRange)
	if session {
		heading += " (session delta)"
	}
	if _, err := fmt.Fprintln(w, titleStyle.Render(heading)); err != nil {
		return err
	}
	lines := []struct {
		label string
		value string
	}{
		{"Pages analyzed", fmt.Sprintf("%d", res.PagesAnalyzed)},
		{"Total duration", fmt.Sprintf("%.2f min", res.TotalDuration/60)},
		{"Average per page", fmt.Sprintf("%.2f min", res.AvgDurationPerPage/60)},
	}
	for _, line := range lines {
		_, err := fmt.Fprintf(w, "%s %s\n",
			labelStyle.Render(line.label+":"),
			valueStyle.Render(line.value))
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderPageTable prints per-page durations in range, sorted by page, with
// an ASCII bar scaled to the longest dwell.
func RenderPageTable(w io.Writer, perPage map[int]float64, barWidth int) error {
	if len(perPage) == 0 {
		return nil
	}
	pages := make([]int, 0, len(perPage))
	maxDur := 0.0
	for page, dur := range perPage {
		pages = append(pages, page)
		if dur > maxDur {
			maxDur = dur
		}
	}
	sort.Ints(pages)

	headers := []string{"Page", "Minutes", ""}
	rows := make([][]string, 0, len(pages))
	for _, page := range pages {
		dur := perPage[page]
		rows = append(rows, []string{
			fmt.Sprintf("%d", page),
			fmt.Sprintf("%.2f", dur/60),
			bar(dur, maxDur, barWidth),
		})
	}
	rightAlign := map[int]bool{0: true, 1: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
