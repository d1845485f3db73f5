package classdict

import "strconv"

// ToDict is the generic to-mapping conversion. Objects become their ToDict
// mapping; every other value is returned unchanged.
func ToDict(v any) (any, error) {
	if obj, ok := v.(*Object); ok && obj != nil {
		m, err := obj.ToDict()
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return v, nil
}

// FromDict is the generic from-mapping conversion. It dispatches on the shape
// of r: embedded rules construct an Object of the wrapped schema, list and
// tuple rules convert element-wise, scalar rules return blob unchanged.
func FromDict(r Rule, blob any) (any, error) {
	return fromDictRule(r, blob, "value", "")
}

// toDictRule converts a validated value following the shape of r.
func toDictRule(r Rule, v any) (any, error) {
	switch r.shape {
	case ShapeEmbedded:
		return ToDict(v)
	case ShapeScalar:
		return plainBlob(v)
	case ShapeList:
		seq, _ := asSequence(v)
		out := make([]any, len(seq))
		for i, e := range seq {
			b, err := toDictRule(*r.elem, e)
			if err != nil {
				return nil, rebase(err, "/"+strconv.Itoa(i))
			}
			out[i] = b
		}
		return out, nil
	case ShapeTuple:
		seq, _ := asSequence(v)
		out := make([]any, len(seq))
		for i, e := range seq {
			if i >= len(r.items) {
				break
			}
			b, err := toDictRule(r.items[i], e)
			if err != nil {
				return nil, rebase(err, "/"+strconv.Itoa(i))
			}
			out[i] = b
		}
		return out, nil
	}
	return v, nil
}

// plainBlob converts objects nested in map[string]any and []any scalar
// values so that a mapping never carries an *Object.
func plainBlob(v any) (any, error) {
	switch t := v.(type) {
	case *Object:
		return ToDict(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			b, err := plainBlob(e)
			if err != nil {
				return nil, rebase(err, "/"+k)
			}
			out[k] = b
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			b, err := plainBlob(e)
			if err != nil {
				return nil, rebase(err, "/"+strconv.Itoa(i))
			}
			out[i] = b
		}
		return out, nil
	}
	return v, nil
}

func fromDictRule(r Rule, blob any, field, path string) (any, error) {
	switch r.shape {
	case ShapeScalar:
		return blob, nil
	case ShapeEmbedded:
		if obj, ok := blob.(*Object); ok && obj != nil && obj.schema == r.schema {
			return obj, nil
		}
		m, ok := blob.(map[string]any)
		if !ok {
			return nil, r.mismatch(blob, field, pointerOrRoot(path), -1)
		}
		obj, err := r.schema.FromDict(m)
		if err != nil {
			return nil, rebase(err, path)
		}
		return obj, nil
	case ShapeList:
		seq, ok := asSequence(blob)
		if !ok {
			return nil, issueAt(pointerOrRoot(path), CodeNotList, map[string]string{"field": field, "got": typeName(blob), "expected": r.elem.String()})
		}
		out := make([]any, len(seq))
		for i, e := range seq {
			v, err := fromDictRule(*r.elem, e, field, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case ShapeTuple:
		seq, ok := asSequence(blob)
		if !ok {
			return nil, issueAt(pointerOrRoot(path), CodeNotSequence, map[string]string{"field": field, "got": typeName(blob), "expected": r.itemList()})
		}
		if len(seq) != len(r.items) {
			return nil, arityError(field, pointerOrRoot(path), len(r.items), len(seq))
		}
		out := make([]any, len(seq))
		for i, e := range seq {
			v, err := fromDictRule(r.items[i], e, field, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return blob, nil
}

func pointerOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
