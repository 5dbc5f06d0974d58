// Package pipeline implements the fetch -> filter -> clean -> delta ->
// aggregate transformations over window activity events.
package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hmoravej/pagewatch/internal/model"
)

// Document viewers put the position inside brackets, e.g.
// "algorithms.pdf [335/612]". The first number is the current page.
var pagePositionRe = regexp.MustCompile(`\[.*?(\d+)/(\d+).*?\]`)

// SplitTitle splits a window title into the book title and the current page.
// ok is false when the title carries no parseable page position.
func SplitTitle(windowTitle string) (book string, page int, ok bool) {
	book = windowTitle
	if i := strings.Index(windowTitle, "["); i >= 0 {
		book = windowTitle[:i]
	}
	book = strings.TrimSpace(book)
	m := pagePositionRe.FindStringSubmatch(windowTitle)
	if m == nil {
		return book, 0, false
	}
	page, err := strconv.Atoi(m[1])
	if err != nil || page < 1 {
		return book, 0, false
	}
	return book, page, true
}

// WarnFunc receives non-fatal per-event diagnostics.
type WarnFunc func(format string, args ...any)

// FilterEvents selects events whose book title matches the case-insensitive
// pattern and attributes each to a page. It returns the page events in their
// original (chronological) order together with the single matched book title.
//
// Matching events without a parseable page number are skipped through warnf.
// Zero matching titles is ErrNoMatch; more than one distinct matching title
// is ErrAmbiguousTitle, so a too-broad pattern never mixes books.
func FilterEvents(events []model.RawEvent, pattern string, warnf WarnFunc) ([]model.PageEvent, string, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, "", fmt.Errorf("invalid title pattern %q: %w", pattern, err)
	}
	if warnf == nil {
		warnf = func(string, ...any) {}
	}

	// Keyed by folded title so casing differences never split one book in two.
	matched := make(map[string]string)
	var out []model.PageEvent
	var title string
	for _, ev := range events {
		book, page, ok := SplitTitle(ev.WindowTitle)
		if book == "" || !re.MatchString(book) {
			continue
		}
		if _, seen := matched[strings.ToLower(book)]; !seen {
			matched[strings.ToLower(book)] = book
		}
		if !ok {
			warnf("skipping event: %v: %q", ErrUnparseablePage, ev.WindowTitle)
			continue
		}
		title = matched[strings.ToLower(book)]
		out = append(out, model.PageEvent{
			Page:      page,
			Timestamp: ev.Timestamp,
			Duration:  ev.Duration,
		})
	}

	if len(matched) == 0 {
		return nil, "", fmt.Errorf("%w: %q", ErrNoMatch, pattern)
	}
	if len(matched) > 1 {
		titles := make([]string, 0, len(matched))
		for _, t := range matched {
			titles = append(titles, t)
		}
		sort.Strings(titles)
		return nil, "", fmt.Errorf("%w: %q matched %s", ErrAmbiguousTitle, pattern, strings.Join(titles, ", "))
	}
	if len(out) == 0 {
		// Every matching event lacked a page number.
		return nil, "", fmt.Errorf("%w: %q", ErrNoMatch, pattern)
	}
	return out, title, nil
}
