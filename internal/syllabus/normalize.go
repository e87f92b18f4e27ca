package syllabus

import "encoding/json"

// Normalize converts a raw, possibly schema-drifted document tree into
// canonical form: every container field declared in the course schema is
// present (empty when missing) at every depth, null-valued map entries are
// dropped, numbers become float64, and a bare scalar in a declared list slot
// is wrapped into a one-element list. Unknown fields pass through unmodified.
//
// Normalize is total (never fails) and idempotent; it returns a fresh tree
// and never aliases the input.
func Normalize(raw map[string]any) Content {
	return normalizeObject(raw, courseSchema)
}

func normalizeObject(raw map[string]any, sp *fieldSpec) map[string]any {
	out := make(map[string]any, len(raw)+len(sp.fields))
	for k, v := range raw {
		child, declared := sp.fields[k]
		if !declared {
			if cv, ok := copyValue(v); ok {
				out[k] = cv
			}
			continue
		}
		out[k] = normalizeField(v, child)
	}
	for name, child := range sp.fields {
		if _, ok := out[name]; !ok {
			out[name] = normalizeField(nil, child)
		}
	}
	return out
}

func normalizeField(v any, sp *fieldSpec) any {
	switch sp.kind {
	case kindList:
		return normalizeList(v, sp.elem)
	case kindMapping:
		return normalizeMapping(v, sp.elem)
	default:
		return normalizeObject(asMap(v), sp)
	}
}

func normalizeList(v any, elem *fieldSpec) []any {
	items, ok := v.([]any)
	if !ok {
		if v == nil {
			return []any{}
		}
		// schema drift: a scalar authored where a list now lives (seen with
		// target_audience) is wrapped rather than dropped
		items = []any{v}
	}
	out := make([]any, 0, len(items))
	for _, it := range items {
		if elem != nil {
			if m, ok := it.(map[string]any); ok {
				out = append(out, normalizeObject(m, elem))
				continue
			}
		}
		cv, ok := copyValue(it)
		if !ok {
			out = append(out, nil)
			continue
		}
		out = append(out, cv)
	}
	return out
}

func normalizeMapping(v any, elem *fieldSpec) map[string]any {
	m := asMap(v)
	out := make(map[string]any, len(m))
	for k, mv := range m {
		if mv == nil {
			continue
		}
		if elem != nil {
			out[k] = normalizeField(mv, elem)
			continue
		}
		if cv, ok := copyValue(mv); ok {
			out[k] = cv
		}
	}
	return out
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// copyValue deep-copies a schemaless subtree into canonical representation.
// The second return is false for null map values, which are dropped so that
// "null" and "absent" have a single canonical form.
func copyValue(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			if cv, ok := copyValue(vv); ok {
				out[k] = cv
			}
		}
		return out, true
	case []any:
		out := make([]any, 0, len(t))
		for _, vv := range t {
			cv, ok := copyValue(vv)
			if !ok {
				out = append(out, nil)
				continue
			}
			out = append(out, cv)
		}
		return out, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String(), true
		}
		return f, true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	default:
		return t, true
	}
}
