package syllabus

// The canonical shape of a syllabus document is declared here once and driven
// by the normalizer, instead of scattering per-field defaulting over every
// load path. Only container fields are declared; scalars are left to the
// editor and pass through untouched.

type fieldKind int

const (
	kindObject fieldKind = iota
	kindList
	kindMapping
)

type fieldSpec struct {
	kind fieldKind

	// fields lists the declared container children of an object.
	fields map[string]*fieldSpec

	// elem is the shape of a list element or mapping value.
	// nil means scalar (or schemaless record) elements.
	elem *fieldSpec
}

func object(fields map[string]*fieldSpec) *fieldSpec {
	return &fieldSpec{kind: kindObject, fields: fields}
}

func list(elem *fieldSpec) *fieldSpec {
	return &fieldSpec{kind: kindList, elem: elem}
}

func mapping(elem *fieldSpec) *fieldSpec {
	return &fieldSpec{kind: kindMapping, elem: elem}
}

// courseSchema mirrors the admin editor's form tree: description and
// lab_groups are string-keyed mappings, everything else nests ordered lists up
// to three levels deep (schedule -> calendar_entries -> time_slots -> resources).
var courseSchema = object(map[string]*fieldSpec{
	"description": mapping(nil),
	"personnel": object(map[string]*fieldSpec{
		"coordinators":       list(nil),
		"overall_lecturers":  list(nil),
		"rv_lab_coordinator": list(nil),
	}),
	"target_audience": list(nil),
	"assignments":     list(nil),
	"tests": list(object(map[string]*fieldSpec{
		"moadim": list(nil),
	})),
	"schedule": object(map[string]*fieldSpec{
		"calendar_entries": list(object(map[string]*fieldSpec{
			"time_slots": list(object(map[string]*fieldSpec{
				"instructors":      list(nil),
				"attending_groups": list(nil),
				"resources":        list(nil),
			})),
		})),
	}),
	"student_groups": list(object(map[string]*fieldSpec{
		"students": list(nil),
		"matzpen_groups": list(object(map[string]*fieldSpec{
			"students": list(nil),
		})),
		"rrbg_groups": list(object(map[string]*fieldSpec{
			"students": list(nil),
		})),
	})),
	"lab_groups": mapping(list(object(map[string]*fieldSpec{
		"students": list(nil),
	}))),
})
