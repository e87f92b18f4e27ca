package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/YoderBy/gil-bot/internal/syllabus"
)

// MemoryStore is the in-memory ledger used for unit tests and for running the
// service without MongoDB configured.
type MemoryStore struct {
	mu      sync.RWMutex
	courses map[string][]*syllabus.Version
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{courses: make(map[string][]*syllabus.Version)}
}

func (m *MemoryStore) Append(ctx context.Context, v *syllabus.Version) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	versions := m.courses[v.SyllabusID]
	if v.Version != len(versions)+1 {
		return syllabus.ErrConflict
	}
	cp := *v
	m.courses[v.SyllabusID] = append(versions, &cp)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, syllabusID string, version int) (*syllabus.Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	versions, ok := m.courses[syllabusID]
	if !ok {
		return nil, syllabus.ErrNotFound
	}
	if version < 1 || version > len(versions) {
		return nil, syllabus.ErrNotFound
	}
	return versions[version-1], nil
}

func (m *MemoryStore) Latest(ctx context.Context, syllabusID string) (*syllabus.Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	versions, ok := m.courses[syllabusID]
	if !ok || len(versions) == 0 {
		return nil, syllabus.ErrNotFound
	}
	return versions[len(versions)-1], nil
}

func (m *MemoryStore) ListVersions(ctx context.Context, syllabusID string) ([]syllabus.VersionMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	versions, ok := m.courses[syllabusID]
	if !ok {
		return nil, syllabus.ErrNotFound
	}
	out := make([]syllabus.VersionMeta, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.Meta())
	}
	return out, nil
}

func (m *MemoryStore) ListSummaries(ctx context.Context, f Filter) ([]syllabus.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []syllabus.Summary{}
	for id, versions := range m.courses {
		if len(versions) == 0 {
			continue
		}
		s := syllabus.SummaryFromContent(id, versions[len(versions)-1].Content)
		if matches(s, f) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matches(s syllabus.Summary, f Filter) bool {
	if f.Year != "" && s.Year != f.Year {
		return false
	}
	if f.Semester != "" && s.Semester != f.Semester {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(s.ID), q) ||
		strings.Contains(strings.ToLower(s.Name), q) ||
		strings.Contains(strings.ToLower(s.HebName), q)
}
