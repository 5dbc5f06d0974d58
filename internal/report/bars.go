package report

import (
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	defaultBarWidth = 40
	maxBarWidth     = 80
	// Page and minutes columns plus separators.
	tableOverhead = 20
)

// AutoBarWidth sizes the page-table bars to the terminal, falling back to a
// fixed width when stdout is not a terminal.
func AutoBarWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultBarWidth
	}
	width -= tableOverhead
	if width < 10 {
		return 10
	}
	if width > maxBarWidth {
		return maxBarWidth
	}
	return width
}

func bar(value, max float64, width int) string {
	if width <= 0 {
		width = defaultBarWidth
	}
	if max <= 0 || value <= 0 {
		return ""
	}
	n := int(value / max * float64(width))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}
