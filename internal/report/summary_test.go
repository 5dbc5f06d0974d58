package report

import (
	"strings"
	"testing"

	"github.com/hmoravej/pagewatch/internal/model"
)

func TestRenderSummary(t *testing.T) {
	res := model.AnalysisResult{
		BookTitle:          "algorithms.pdf",
		PageRange:          model.PageRange{Start: 335, End: 339},
		PagesAnalyzed:      4,
		TotalDuration:      2259,
		AvgDurationPerPage: 564.75,
	}
	var b strings.Builder
	if err := RenderSummary(&b, res, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := b.String()
	for _, want := range []string{"algorithms.pdf", "335-339", "37.65 min", "9.41 min", "4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "session delta") {
		t.Fatalf("full-capture summary must not be tagged as a session delta")
	}
}

func TestRenderSummarySession(t *testing.T) {
	res := model.AnalysisResult{
		BookTitle:          "algorithms.pdf",
		PageRange:          model.PageRange{Start: 335, End: 339},
		PagesAnalyzed:      2,
		TotalDuration:      85.2,
		AvgDurationPerPage: 42.6,
	}
	var b strings.Builder
	if err := RenderSummary(&b, res, true); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "session delta") {
		t.Fatalf("delta summary should be tagged:\n%s", out)
	}
	if !strings.Contains(out, "1.42 min") {
		t.Fatalf("delta summary missing total:\n%s", out)
	}
}

func TestRenderPageTable(t *testing.T) {
	perPage := map[int]float64{335: 600, 336: 0, 337: 300}
	var b strings.Builder
	if err := RenderPageTable(&b, perPage, 20); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	// Header plus one row per page.
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), b.String())
	}
	if !strings.Contains(lines[1], "335") || !strings.Contains(lines[1], "10.00") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if strings.Contains(lines[2], "█") {
		t.Fatalf("zero-duration page must not draw a bar: %q", lines[2])
	}
}
