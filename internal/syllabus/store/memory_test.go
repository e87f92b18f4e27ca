package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/YoderBy/gil-bot/internal/syllabus"
)

func version(id string, n int, content map[string]any) *syllabus.Version {
	return &syllabus.Version{
		SyllabusID: id,
		Version:    n,
		CreatedAt:  time.Now().UTC(),
		Content:    syllabus.Normalize(content),
	}
}

func TestMemoryStore_AppendAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, version("CS101", 1, map[string]any{"heb_name": "מבוא", "year": "2024", "semester": "A"})))
	require.NoError(t, s.Append(ctx, version("CS101", 2, map[string]any{"heb_name": "מבוא", "year": "2024", "semester": "B"})))

	v1, err := s.Get(ctx, "CS101", 1)
	require.NoError(t, err)
	require.Equal(t, "A", v1.Content["semester"])

	latest, err := s.Latest(ctx, "CS101")
	require.NoError(t, err)
	require.Equal(t, 2, latest.Version)
	require.Equal(t, "B", latest.Content["semester"])
}

func TestMemoryStore_AppendConflictOnStaleVersion(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, version("CS101", 1, map[string]any{"heb_name": "x", "year": "2024", "semester": "A"})))

	// a second writer that also built on version 1 loses
	err := s.Append(ctx, version("CS101", 1, map[string]any{"heb_name": "y", "year": "2024", "semester": "A"}))
	require.ErrorIs(t, err, syllabus.ErrConflict)

	// so does a writer that skipped a number
	err = s.Append(ctx, version("CS101", 3, map[string]any{"heb_name": "y", "year": "2024", "semester": "A"}))
	require.ErrorIs(t, err, syllabus.ErrConflict)
}

func TestMemoryStore_ListVersionsAscendingContiguous(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for n := 1; n <= 5; n++ {
		require.NoError(t, s.Append(ctx, version("CS101", n, map[string]any{"heb_name": "x", "year": "2024", "semester": "A"})))
	}

	metas, err := s.ListVersions(ctx, "CS101")
	require.NoError(t, err)
	require.Len(t, metas, 5)
	for i, meta := range metas {
		require.Equal(t, i+1, meta.Version)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing", 1)
	require.ErrorIs(t, err, syllabus.ErrNotFound)
	_, err = s.Latest(ctx, "missing")
	require.ErrorIs(t, err, syllabus.ErrNotFound)
	_, err = s.ListVersions(ctx, "missing")
	require.ErrorIs(t, err, syllabus.ErrNotFound)

	require.NoError(t, s.Append(ctx, version("CS101", 1, map[string]any{"heb_name": "x", "year": "2024", "semester": "A"})))
	_, err = s.Get(ctx, "CS101", 2)
	require.ErrorIs(t, err, syllabus.ErrNotFound)
}

func TestMemoryStore_AppendedVersionIsImmutable(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	content := map[string]any{"heb_name": "x", "year": "2024", "semester": "A"}
	v := version("CS101", 1, content)
	require.NoError(t, s.Append(ctx, v))

	// mutating the caller's struct after append must not affect the ledger
	v.ChangeSummary = "rewritten"
	got, err := s.Get(ctx, "CS101", 1)
	require.NoError(t, err)
	require.Empty(t, got.ChangeSummary)
}

func TestMemoryStore_ListSummariesFilters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, version("CS101", 1, map[string]any{
		"name": "Intro to CS", "heb_name": "מבוא", "year": "2024", "semester": "A",
	})))
	require.NoError(t, s.Append(ctx, version("BIO200", 1, map[string]any{
		"name": "Neuroanatomy", "heb_name": "נוירו", "year": "2025", "semester": "B",
	})))

	all, err := s.ListSummaries(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "BIO200", all[0].ID)

	byYear, err := s.ListSummaries(ctx, Filter{Year: "2024"})
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	require.Equal(t, "CS101", byYear[0].ID)

	bySearch, err := s.ListSummaries(ctx, Filter{Search: "neuro"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	require.Equal(t, "BIO200", bySearch[0].ID)

	bySemester, err := s.ListSummaries(ctx, Filter{Semester: "B", Search: "neuro"})
	require.NoError(t, err)
	require.Len(t, bySemester, 1)

	none, err := s.ListSummaries(ctx, Filter{Year: "2024", Semester: "B"})
	require.NoError(t, err)
	require.Empty(t, none)
}
