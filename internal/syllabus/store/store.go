package store

import (
	"context"

	"github.com/YoderBy/gil-bot/internal/syllabus"
)

// Filter narrows ListSummaries. Search is a case-insensitive substring match
// on id, name and heb_name; Year and Semester are exact.
type Filter struct {
	Search   string
	Year     string
	Semester string
}

// Store is the append-only version ledger. Versions are never mutated or
// deleted once appended.
//
// Append expects v.Version to be preassigned to latest+1 (1 for a new
// course). The store is the serialization point for concurrent writers to the
// same course: when two appends race for the same number, exactly one
// succeeds and the other gets syllabus.ErrConflict. Appends to different
// courses are independent.
type Store interface {
	Append(ctx context.Context, v *syllabus.Version) error
	Get(ctx context.Context, syllabusID string, version int) (*syllabus.Version, error)
	Latest(ctx context.Context, syllabusID string) (*syllabus.Version, error)
	ListVersions(ctx context.Context, syllabusID string) ([]syllabus.VersionMeta, error)
	ListSummaries(ctx context.Context, f Filter) ([]syllabus.Summary, error)
}
