package syllabus

import (
	"fmt"
	"reflect"
	"sort"
)

// Diff computes the field-path-addressed change list between two canonical
// content trees. Maps are compared by key, ordered lists position by position
// (trailing extra positions become whole-element add/delete records), scalars
// by value. Both inputs are expected in canonical form, so Diff(x, x) is
// empty and the result does not depend on map iteration order.
//
// List comparison is positional, not content-matched: the nested list schemas
// carry no per-item identifier to key on, so reordering an otherwise unchanged
// item reports an update at each shifted position. That is a documented
// policy, not a heuristic.
func Diff(before, after Content) []ChangeRecord {
	var changes []ChangeRecord
	diffMap("", before, after, &changes)
	return changes
}

func diffMap(prefix string, before, after map[string]any, changes *[]ChangeRecord) {
	keys := make([]string, 0, len(before)+len(after))
	seen := make(map[string]bool, len(before)+len(after))
	for k := range before {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range after {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := joinPath(prefix, k)
		ov, inBefore := before[k]
		nv, inAfter := after[k]
		switch {
		case !inBefore:
			*changes = append(*changes, ChangeRecord{FieldPath: path, NewValue: nv, ChangeType: ChangeAdd})
		case !inAfter:
			*changes = append(*changes, ChangeRecord{FieldPath: path, OldValue: ov, ChangeType: ChangeDelete})
		default:
			diffValue(path, ov, nv, changes)
		}
	}
}

func diffValue(path string, before, after any, changes *[]ChangeRecord) {
	om, oIsMap := before.(map[string]any)
	nm, nIsMap := after.(map[string]any)
	if oIsMap && nIsMap {
		diffMap(path, om, nm, changes)
		return
	}

	ol, oIsList := before.([]any)
	nl, nIsList := after.([]any)
	if oIsList && nIsList {
		diffList(path, ol, nl, changes)
		return
	}

	if !reflect.DeepEqual(before, after) {
		*changes = append(*changes, ChangeRecord{FieldPath: path, OldValue: before, NewValue: after, ChangeType: ChangeUpdate})
	}
}

func diffList(path string, before, after []any, changes *[]ChangeRecord) {
	n := len(before)
	if len(after) < n {
		n = len(after)
	}
	for i := 0; i < n; i++ {
		diffValue(indexPath(path, i), before[i], after[i], changes)
	}
	for i := n; i < len(after); i++ {
		*changes = append(*changes, ChangeRecord{FieldPath: indexPath(path, i), NewValue: after[i], ChangeType: ChangeAdd})
	}
	for i := n; i < len(before); i++ {
		*changes = append(*changes, ChangeRecord{FieldPath: indexPath(path, i), OldValue: before[i], ChangeType: ChangeDelete})
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
