// Package model defines shared data structures.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawEvent is a single window-focus event as reported by the tracker.
// Duration is in seconds.
type RawEvent struct {
	Timestamp   time.Time
	Duration    float64
	WindowTitle string
}

// PageEvent is a RawEvent attributed to a document page.
type PageEvent struct {
	Page      int
	Timestamp time.Time
	Duration  float64
}

// CleanedRecord aggregates all activity on one page within a capture.
// Pages are unique within a cleaned set; TotalDuration is in seconds.
type CleanedRecord struct {
	Page          int
	TotalDuration float64
	FirstSeen     time.Time
	LastSeen      time.Time
}

// DeltaRecord is the incremental per-page activity between two snapshots.
// DeltaDuration is in seconds and never negative.
type DeltaRecord struct {
	Page          int
	DeltaDuration float64
}

// PageRange is an inclusive interval of page numbers.
type PageRange struct {
	Start int
	End   int
}

// ParsePageRange parses a "START-END" range with START >= 1 and START <= END.
func ParsePageRange(s string) (PageRange, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return PageRange{}, fmt.Errorf("invalid page range %q: expected START-END (e.g. 335-340)", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return PageRange{}, fmt.Errorf("invalid start page in %q: %w", s, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return PageRange{}, fmt.Errorf("invalid end page in %q: %w", s, err)
	}
	if start < 1 || start > end {
		return PageRange{}, fmt.Errorf("invalid page range %q: need START >= 1 and START <= END", s)
	}
	return PageRange{Start: start, End: end}, nil
}

// Contains reports whether page falls inside the range.
func (r PageRange) Contains(page int) bool {
	return page >= r.Start && page <= r.End
}

func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// AnalysisResult summarizes reading activity over a page range.
// Durations are in seconds.
type AnalysisResult struct {
	BookTitle          string
	PageRange          PageRange
	PagesAnalyzed      int
	TotalDuration      float64
	AvgDurationPerPage float64
}
