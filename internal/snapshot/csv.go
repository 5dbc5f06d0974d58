// Package snapshot reads and writes CSV captures of activity data.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/hmoravej/pagewatch/internal/model"
)

// ErrMalformedSnapshot means a snapshot file lacks a required column.
var ErrMalformedSnapshot = errors.New("snapshot is missing required columns")

// Columns are resolved by name, so snapshots survive reordering and extra
// columns added by other tools.
type rawRow struct {
	Timestamp   time.Time `csv:"timestamp"`
	Duration    float64   `csv:"duration"`
	WindowTitle string    `csv:"window_title"`
}

type cleanedRow struct {
	Page          int       `csv:"page"`
	TotalDuration float64   `csv:"total_duration"`
	FirstSeen     time.Time `csv:"first_seen"`
	LastSeen      time.Time `csv:"last_seen"`
}

var (
	rawColumns     = []string{"timestamp", "duration", "window_title"}
	cleanedColumns = []string{"page", "total_duration", "first_seen", "last_seen"}
)

// ReadRaw loads a raw event snapshot.
func ReadRaw(path string) ([]model.RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	dec, err := newDecoder(f, path, rawColumns)
	if err != nil {
		return nil, err
	}
	var events []model.RawEvent
	for {
		var row rawRow
		if err := dec.Decode(&row); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
		}
		events = append(events, model.RawEvent{
			Timestamp:   row.Timestamp,
			Duration:    row.Duration,
			WindowTitle: row.WindowTitle,
		})
	}
	return events, nil
}

// WriteRaw saves a raw event snapshot. The file appears atomically and only
// after every row is written.
func WriteRaw(path string, events []model.RawEvent) error {
	rows := make([]rawRow, len(events))
	for i, ev := range events {
		rows[i] = rawRow{
			Timestamp:   ev.Timestamp,
			Duration:    ev.Duration,
			WindowTitle: ev.WindowTitle,
		}
	}
	return writeRows(path, rows)
}

// ReadCleaned loads a cleaned per-page snapshot.
func ReadCleaned(path string) ([]model.CleanedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	dec, err := newDecoder(f, path, cleanedColumns)
	if err != nil {
		return nil, err
	}
	var records []model.CleanedRecord
	for {
		var row cleanedRow
		if err := dec.Decode(&row); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
		}
		records = append(records, model.CleanedRecord{
			Page:          row.Page,
			TotalDuration: row.TotalDuration,
			FirstSeen:     row.FirstSeen,
			LastSeen:      row.LastSeen,
		})
	}
	return records, nil
}

// WriteCleaned saves a cleaned per-page snapshot atomically.
func WriteCleaned(path string, records []model.CleanedRecord) error {
	rows := make([]cleanedRow, len(records))
	for i, rec := range records {
		rows[i] = cleanedRow{
			Page:          rec.Page,
			TotalDuration: rec.TotalDuration,
			FirstSeen:     rec.FirstSeen,
			LastSeen:      rec.LastSeen,
		}
	}
	return writeRows(path, rows)
}

func newDecoder(r io.Reader, path string, required []string) (*csvutil.Decoder, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty (no header row)", ErrMalformedSnapshot, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}

	have := make(map[string]struct{}, len(dec.Header()))
	for _, col := range dec.Header() {
		have[col] = struct{}{}
	}
	for _, col := range required {
		if _, ok := have[col]; !ok {
			return nil, fmt.Errorf("%w: %s lacks %q", ErrMalformedSnapshot, path, col)
		}
	}
	return dec, nil
}

func writeRows[T any](path string, rows []T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "snapshot-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := csv.NewWriter(tmpFile)
	enc := csvutil.NewEncoder(writer)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode snapshot row: %w", err)
		}
	}
	if len(rows) == 0 {
		// Encode never ran, so emit the header explicitly: an empty capture
		// is still a valid snapshot.
		var zero T
		if err := enc.EncodeHeader(zero); err != nil {
			return fmt.Errorf("failed to encode snapshot header: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
