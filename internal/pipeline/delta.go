package pipeline

import (
	"sort"

	"github.com/hmoravej/pagewatch/internal/model"
)

// Delta computes the incremental per-page activity between two cleaned
// snapshots of the same cumulative history. The current snapshot is a
// refetch of all-time activity, so the session contribution for a page is
// current minus initial, floored at zero (a shrunk cumulative count means
// the tracker's history rolled over, never negative reading time). Pages
// present only in the initial snapshot contribute nothing to the session
// and are dropped. Output is sorted by page.
func Delta(initial, current []model.CleanedRecord) []model.DeltaRecord {
	base := PageTotals(initial)
	out := make([]model.DeltaRecord, 0, len(current))
	for _, rec := range current {
		d := rec.TotalDuration - base[rec.Page]
		if d < 0 {
			d = 0
		}
		out = append(out, model.DeltaRecord{Page: rec.Page, DeltaDuration: d})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Page < out[j].Page
	})
	return out
}

// DeltaTotals maps each page to its delta duration in seconds.
func DeltaTotals(records []model.DeltaRecord) map[int]float64 {
	totals := make(map[int]float64, len(records))
	for _, rec := range records {
		totals[rec.Page] = rec.DeltaDuration
	}
	return totals
}
