package syllabus

import "time"

// Content is the dynamic syllabus document tree. The editable schema is wide and
// still drifting (new nested sections get added per course), so the content is
// kept as a JSON-like tree and shaped by the normalizer rather than a rigid
// struct. Canonical form: every declared collection field present (possibly
// empty) at every depth, no null map values, numbers as float64.
type Content = map[string]any

// Version is one immutable snapshot of a course's syllabus content.
// Version numbers are contiguous per course starting at 1.
type Version struct {
	SyllabusID    string    `bson:"syllabus_id" json:"syllabus_id"`
	Version       int       `bson:"version" json:"version"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	EditorID      string    `bson:"editor_id,omitempty" json:"editor_id,omitempty"`
	ChangeSummary string    `bson:"change_summary,omitempty" json:"change_summary,omitempty"`
	Content       Content   `bson:"data" json:"data"`
}

// VersionMeta is the content-free view returned by version listings.
type VersionMeta struct {
	Version       int       `bson:"version" json:"version"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	EditorID      string    `bson:"editor_id,omitempty" json:"editor_id,omitempty"`
	ChangeSummary string    `bson:"change_summary,omitempty" json:"change_summary,omitempty"`
}

// Meta returns the content-free view of v.
func (v *Version) Meta() VersionMeta {
	return VersionMeta{
		Version:       v.Version,
		CreatedAt:     v.CreatedAt,
		EditorID:      v.EditorID,
		ChangeSummary: v.ChangeSummary,
	}
}

// Summary is the course list entry used by the management page.
type Summary struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	HebName  string `bson:"heb_name" json:"heb_name"`
	Year     string `bson:"year" json:"year"`
	Semester string `bson:"semester" json:"semester"`
}

// SummaryFromContent extracts the list-page metadata scalars from canonical content.
func SummaryFromContent(id string, c Content) Summary {
	return Summary{
		ID:       id,
		Name:     stringField(c, "name"),
		HebName:  stringField(c, "heb_name"),
		Year:     stringField(c, "year"),
		Semester: stringField(c, "semester"),
	}
}

func stringField(c Content, key string) string {
	s, _ := c[key].(string)
	return s
}

// Change types reported by Diff.
const (
	ChangeAdd    = "add"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

// ChangeRecord is one field-path-addressed difference between two versions.
// FieldPath reproduces the nesting, e.g.
// "schedule.calendar_entries[2].time_slots[0].subject".
type ChangeRecord struct {
	FieldPath  string `bson:"field_path" json:"field_path"`
	OldValue   any    `bson:"old_value" json:"old_value"`
	NewValue   any    `bson:"new_value" json:"new_value"`
	ChangeType string `bson:"change_type" json:"change_type"`
}
