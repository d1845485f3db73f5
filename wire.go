package classdict

import (
	"slices"

	json "github.com/goccy/go-json"
)

// normalizeObject rewrites json.Number leaves of a decoded document into the
// Go numeric types the schema's rules accept.
func normalizeObject(s *Schema, m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if f, ok := s.Field(k); ok {
			out[k] = normalizeRule(f.rule, v)
			continue
		}
		out[k] = normalizeAny(v)
	}
	return out
}

func normalizeRule(r Rule, v any) any {
	switch r.shape {
	case ShapeEmbedded:
		if m, ok := v.(map[string]any); ok {
			return normalizeObject(r.schema, m)
		}
	case ShapeList:
		if seq, ok := v.([]any); ok {
			out := make([]any, len(seq))
			for i, e := range seq {
				out[i] = normalizeRule(*r.elem, e)
			}
			return out
		}
	case ShapeTuple:
		if seq, ok := v.([]any); ok {
			out := make([]any, len(seq))
			for i, e := range seq {
				if i < len(r.items) {
					out[i] = normalizeRule(r.items[i], e)
				} else {
					out[i] = normalizeAny(e)
				}
			}
			return out
		}
	case ShapeScalar:
		switch n := v.(type) {
		case json.Number:
			return normalizeNumber(r.kinds, n)
		case int:
			if floatOnly(r.kinds) {
				return float64(n)
			}
		case int64:
			if floatOnly(r.kinds) {
				return float64(n)
			}
		case uint64:
			if floatOnly(r.kinds) {
				return float64(n)
			}
		}
	}
	return normalizeAny(v)
}

// floatOnly reports whether kinds take floats but no integers. YAML decodes
// whole numbers to Go ints, which such a rule would otherwise reject.
func floatOnly(kinds []ScalarKind) bool {
	return slices.Contains(kinds, KindFloat) && !slices.Contains(kinds, KindInt) && !slices.Contains(kinds, KindNumber)
}

// normalizeNumber picks int64 or float64 for n according to kinds. A number
// no kind can hold is left as json.Number so validation reports it.
func normalizeNumber(kinds []ScalarKind, n json.Number) any {
	has := func(k ScalarKind) bool { return len(kinds) == 0 || slices.Contains(kinds, k) }
	if i, err := n.Int64(); err == nil && (has(KindInt) || has(KindNumber)) {
		return i
	}
	if has(KindFloat) || has(KindNumber) {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return n
}

func normalizeAny(v any) any {
	switch t := v.(type) {
	case json.Number:
		return normalizeNumber(nil, t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeAny(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeAny(e)
		}
		return out
	}
	return v
}
