package pipeline

import (
	"sort"

	"github.com/hmoravej/pagewatch/internal/model"
)

// Clean collapses a raw page-event stream into one record per distinct page.
// Durations accumulate across revisits, so a record holds the total dwell
// time on that page over the whole capture. Zero-duration events still move
// the first/last-seen bookmarks. Output is sorted by page.
func Clean(events []model.PageEvent) []model.CleanedRecord {
	byPage := make(map[int]*model.CleanedRecord)
	for _, ev := range events {
		rec, ok := byPage[ev.Page]
		if !ok {
			rec = &model.CleanedRecord{
				Page:      ev.Page,
				FirstSeen: ev.Timestamp,
				LastSeen:  ev.Timestamp,
			}
			byPage[ev.Page] = rec
		}
		rec.TotalDuration += ev.Duration
		if ev.Timestamp.Before(rec.FirstSeen) {
			rec.FirstSeen = ev.Timestamp
		}
		if ev.Timestamp.After(rec.LastSeen) {
			rec.LastSeen = ev.Timestamp
		}
	}

	out := make([]model.CleanedRecord, 0, len(byPage))
	for _, rec := range byPage {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Page < out[j].Page
	})
	return out
}

// PageTotals maps each cleaned page to its total duration in seconds.
func PageTotals(records []model.CleanedRecord) map[int]float64 {
	totals := make(map[int]float64, len(records))
	for _, rec := range records {
		totals[rec.Page] = rec.TotalDuration
	}
	return totals
}
