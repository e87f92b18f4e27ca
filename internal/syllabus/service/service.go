package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YoderBy/gil-bot/internal/syllabus"
	"github.com/YoderBy/gil-bot/internal/syllabus/store"
	"github.com/YoderBy/gil-bot/pkg/metrics"
)

// Options control write behavior.
type Options struct {
	// SkipUnchanged makes a save with zero detected changes return the
	// current version without appending. Off by default: every save creates
	// a version.
	SkipUnchanged bool
}

// Service orchestrates normalize -> validate -> diff -> append on writes and
// version/diff lookups on reads. It is stateless between calls; all state
// lives in the Store.
type Service struct {
	store store.Store
	opts  Options
	now   func() time.Time
}

func New(st store.Store, opts Options) *Service {
	return &Service{store: st, opts: opts, now: func() time.Time { return time.Now().UTC() }}
}

// UpdateResult is the write summary returned to the caller.
type UpdateResult struct {
	Version int `json:"version"`
	Changes int `json:"changes"`
}

// DiffResult is the change list between two stored versions.
type DiffResult struct {
	FromVersion int                     `json:"from_version"`
	ToVersion   int                     `json:"to_version"`
	Changes     []syllabus.ChangeRecord `json:"changes"`
}

// GetDocument returns the canonical content of the given version, or of the
// latest version when version is 0. The course id is included under "id".
func (s *Service) GetDocument(ctx context.Context, id string, version int) (syllabus.Content, error) {
	var (
		v   *syllabus.Version
		err error
	)
	if version == 0 {
		v, err = s.store.Latest(ctx, id)
	} else {
		v, err = s.store.Get(ctx, id, version)
	}
	if err != nil {
		return nil, err
	}
	out := make(syllabus.Content, len(v.Content)+1)
	for k, val := range v.Content {
		out[k] = val
	}
	out["id"] = id
	return out, nil
}

func (s *Service) ListSummaries(ctx context.Context, f store.Filter) ([]syllabus.Summary, error) {
	return s.store.ListSummaries(ctx, f)
}

func (s *Service) ListVersions(ctx context.Context, id string) ([]syllabus.VersionMeta, error) {
	return s.store.ListVersions(ctx, id)
}

// CreateDocument stores version 1 of a new course. It fails with ErrConflict
// when the course already exists.
func (s *Service) CreateDocument(ctx context.Context, id string, raw map[string]any, editorID, changeSummary string) (*UpdateResult, error) {
	if _, err := s.store.Latest(ctx, id); err == nil {
		return nil, fmt.Errorf("course %s already exists: %w", id, syllabus.ErrConflict)
	} else if !errors.Is(err, syllabus.ErrNotFound) {
		return nil, err
	}
	return s.UpdateDocument(ctx, id, raw, editorID, changeSummary)
}

// UpdateDocument normalizes and validates raw content, diffs it against the
// latest stored version (or an empty document for a new course) and appends
// it as the next version. A concurrent writer that raced for the same number
// gets ErrConflict and may retry with fresh state.
func (s *Service) UpdateDocument(ctx context.Context, id string, raw map[string]any, editorID, changeSummary string) (*UpdateResult, error) {
	normalized := syllabus.Normalize(raw)
	if err := syllabus.ValidateContent(normalized); err != nil {
		return nil, err
	}

	base := syllabus.Normalize(map[string]any{})
	next := 1
	latest, err := s.store.Latest(ctx, id)
	switch {
	case err == nil:
		base = latest.Content
		next = latest.Version + 1
	case errors.Is(err, syllabus.ErrNotFound):
		// first version of a new course
	default:
		return nil, err
	}

	changes := syllabus.Diff(base, normalized)
	if s.opts.SkipUnchanged && latest != nil && len(changes) == 0 {
		return &UpdateResult{Version: latest.Version, Changes: 0}, nil
	}

	if changeSummary == "" {
		changeSummary = fmt.Sprintf("Updated %d fields", len(changes))
	}
	v := &syllabus.Version{
		SyllabusID:    id,
		Version:       next,
		CreatedAt:     s.now(),
		EditorID:      editorID,
		ChangeSummary: changeSummary,
		Content:       normalized,
	}
	if err := s.store.Append(ctx, v); err != nil {
		if errors.Is(err, syllabus.ErrConflict) {
			metrics.VersionConflicts.Inc()
		}
		return nil, err
	}
	metrics.VersionsAppended.Inc()
	return &UpdateResult{Version: next, Changes: len(changes)}, nil
}

// VersionDiff returns the change list between two stored versions. Both must
// resolve or the call fails with ErrNotFound.
func (s *Service) VersionDiff(ctx context.Context, id string, v1, v2 int) (*DiffResult, error) {
	before, err := s.store.Get(ctx, id, v1)
	if err != nil {
		return nil, err
	}
	after, err := s.store.Get(ctx, id, v2)
	if err != nil {
		return nil, err
	}
	metrics.DiffsComputed.Inc()
	return &DiffResult{
		FromVersion: v1,
		ToVersion:   v2,
		Changes:     syllabus.Diff(before.Content, after.Content),
	}, nil
}
