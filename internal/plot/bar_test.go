package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hmoravej/pagewatch/internal/model"
)

func TestRenderBarWritesPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	result := model.AnalysisResult{
		BookTitle:          "algorithms.pdf",
		PageRange:          model.PageRange{Start: 335, End: 339},
		PagesAnalyzed:      4,
		TotalDuration:      2259,
		AvgDurationPerPage: 564.75,
	}
	perPage := map[int]float64{335: 600, 336: 0, 337: 300, 338: 1200, 339: 159}
	if err := RenderBar(result, perPage, path); err != nil {
		t.Fatalf("render: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat chart: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("chart file is empty")
	}
}

func TestRenderBarSinglePage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "single.png")
	result := model.AnalysisResult{
		BookTitle:          "notes.pdf",
		PageRange:          model.PageRange{Start: 12, End: 12},
		PagesAnalyzed:      1,
		TotalDuration:      90,
		AvgDurationPerPage: 90,
	}
	if err := RenderBar(result, map[int]float64{12: 90}, path); err != nil {
		t.Fatalf("single-page render: %v", err)
	}
}

func TestRenderBarEmptyMapping(t *testing.T) {
	result := model.AnalysisResult{PageRange: model.PageRange{Start: 1, End: 2}}
	if err := RenderBar(result, nil, "unused.png"); err == nil {
		t.Fatalf("expected error for empty mapping")
	}
}

func TestFilename(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"algorithms.pdf", "algorithms_p335-339_analysis.png"},
		{"my/book.pdf", "my_book_p335-339_analysis.png"},
		{"notes", "notes_p335-339_analysis.png"},
	}
	pr := model.PageRange{Start: 335, End: 339}
	for _, tc := range cases {
		if got := Filename(tc.title, pr); got != tc.want {
			t.Fatalf("Filename(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
