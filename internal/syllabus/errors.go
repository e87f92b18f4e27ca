package syllabus

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound covers both an unknown course id and an unknown version
	// number of an existing course.
	ErrNotFound = errors.New("syllabus not found")

	// ErrConflict is returned to the losing writer of a concurrent update;
	// the caller may retry by re-reading latest and reapplying.
	ErrConflict = errors.New("version conflict")

	// ErrMalformedInput marks payloads that do not parse as a document tree.
	ErrMalformedInput = errors.New("malformed input")
)

// ValidationError reports required scalar fields missing from normalized
// content. Fields is sorted so callers get a stable display order.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
