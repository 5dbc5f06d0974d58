package pipeline

import (
	"fmt"

	"github.com/hmoravej/pagewatch/internal/model"
)

// Aggregate restricts per-page totals to the range, sums them, and averages
// over the pages that were actually read. Pages never visited (or visited
// with zero dwell) are excluded from the average, not counted as zeros.
// It returns the summary and the in-range page totals for plotting.
//
// When no page in the range has nonzero duration there is no meaningful
// result and ErrEmptyRange is returned instead of a zero or NaN average.
func Aggregate(perPage map[int]float64, bookTitle string, pr model.PageRange) (model.AnalysisResult, map[int]float64, error) {
	inRange := make(map[int]float64)
	var total float64
	var read int
	for page, dur := range perPage {
		if !pr.Contains(page) {
			continue
		}
		inRange[page] = dur
		total += dur
		if dur > 0 {
			read++
		}
	}
	if read == 0 {
		return model.AnalysisResult{}, nil, fmt.Errorf("%w: pages %s of %q", ErrEmptyRange, pr, bookTitle)
	}
	return model.AnalysisResult{
		BookTitle:          bookTitle,
		PageRange:          pr,
		PagesAnalyzed:      read,
		TotalDuration:      total,
		AvgDurationPerPage: total / float64(read),
	}, inRange, nil
}
