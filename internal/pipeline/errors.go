package pipeline

import "errors"

var (
	// ErrNoMatch means no event matched the title pattern. Fatal; the user
	// must refine the pattern.
	ErrNoMatch = errors.New("no events match the title pattern")

	// ErrAmbiguousTitle means the pattern matched more than one distinct
	// book title. Fatal; the user must refine the pattern.
	ErrAmbiguousTitle = errors.New("pattern matches multiple book titles")

	// ErrUnparseablePage means a title matched but carried no page number.
	// Per-event; the event is skipped with a warning.
	ErrUnparseablePage = errors.New("window title has no parseable page number")

	// ErrEmptyRange means no page in the requested range has any reading
	// time. Fatal at the aggregation stage.
	ErrEmptyRange = errors.New("no reading activity in page range")
)
