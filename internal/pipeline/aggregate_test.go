package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/hmoravej/pagewatch/internal/model"
)

func TestAggregateWorkedExample(t *testing.T) {
	// Minutes per page: 335:10, 336:0, 337:5, 338:20, 339:2.65.
	perPage := map[int]float64{
		335: 10 * 60,
		336: 0,
		337: 5 * 60,
		338: 20 * 60,
		339: 2.65 * 60,
	}
	res, inRange, err := Aggregate(perPage, "algorithms.pdf", model.PageRange{Start: 335, End: 339})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if res.PagesAnalyzed != 4 {
		t.Fatalf("pages analyzed = %d, want 4 (unread page 336 excluded)", res.PagesAnalyzed)
	}
	if wantTotal := 37.65 * 60; math.Abs(res.TotalDuration-wantTotal) > 1e-9 {
		t.Fatalf("total = %v s, want %v s", res.TotalDuration, wantTotal)
	}
	if wantAvg := 9.4125 * 60; math.Abs(res.AvgDurationPerPage-wantAvg) > 1e-9 {
		t.Fatalf("average = %v s, want %v s", res.AvgDurationPerPage, wantAvg)
	}
	if len(inRange) != 5 {
		t.Fatalf("expected 5 in-range pages for plotting, got %d", len(inRange))
	}
}

func TestAggregateRestrictsToRange(t *testing.T) {
	perPage := map[int]float64{1: 100, 5: 50, 6: 30, 10: 80}
	res, inRange, err := Aggregate(perPage, "algorithms.pdf", model.PageRange{Start: 5, End: 6})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if res.TotalDuration != 80 || res.PagesAnalyzed != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, ok := inRange[10]; ok {
		t.Fatalf("page 10 must not appear in the in-range mapping")
	}
}

func TestAggregateEmptyRange(t *testing.T) {
	perPage := map[int]float64{335: 600}
	_, _, err := Aggregate(perPage, "algorithms.pdf", model.PageRange{Start: 400, End: 410})
	if !errors.Is(err, ErrEmptyRange) {
		t.Fatalf("expected ErrEmptyRange, got %v", err)
	}
}

func TestAggregateAllZeroDurationsIsEmptyRange(t *testing.T) {
	perPage := map[int]float64{335: 0, 336: 0}
	_, _, err := Aggregate(perPage, "algorithms.pdf", model.PageRange{Start: 335, End: 336})
	if !errors.Is(err, ErrEmptyRange) {
		t.Fatalf("expected ErrEmptyRange for zero-only range, got %v", err)
	}
}
