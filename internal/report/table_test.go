package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Page", "Minutes"}
	rows := [][]string{
		{"335", "10.00"},
		{"1024", "2.65"},
	}
	rightAlign := map[int]bool{0: true, 1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Page  Minutes" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != " 335    10.00" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "1024     2.65" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}

func TestBarScaling(t *testing.T) {
	if got := bar(100, 100, 10); got != "██████████" {
		t.Fatalf("full bar = %q", got)
	}
	if got := bar(50, 100, 10); got != "█████" {
		t.Fatalf("half bar = %q", got)
	}
	if got := bar(1, 1000, 10); got != "█" {
		t.Fatalf("tiny nonzero value should render one cell, got %q", got)
	}
	if got := bar(0, 100, 10); got != "" {
		t.Fatalf("zero value should render nothing, got %q", got)
	}
}
