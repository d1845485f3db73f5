package classdict

import (
	"reflect"
	"slices"

	"github.com/google/go-cmp/cmp"
)

// blobOpts lets cmp look inside opaque values stored in any-typed fields.
var blobOpts = []cmp.Option{cmp.Exporter(func(reflect.Type) bool { return true })}

// Difference describes one field whose blob form differs between two objects.
type Difference struct {
	Path   []string // Field names from the root object down to the differing field.
	Left   any      // Blob of the left value (nil when unset).
	Right  any      // Blob of the right value (nil when unset).
	Report string   // Human-readable cmp.Diff report, (-left +right).
}

// Diff compares two objects of the same schema field by field in declaration
// order. Embedded objects present on both sides are compared recursively so
// the reported path points at the innermost differing field.
func Diff(a, b *Object) ([]Difference, error) {
	if a == nil || b == nil {
		return nil, schemaError("/", "cannot diff a nil object")
	}
	return diffObjects(a, b, nil)
}

func diffObjects(a, b *Object, prefix []string) ([]Difference, error) {
	if a.schema != b.schema {
		return nil, rebase(issueAt("/", CodeSchemaMismatch, map[string]string{"got": a.schema.Name(), "expected": b.schema.Name()}), joinPointer(prefix))
	}
	var out []Difference
	for name, f := range a.schema.Members() {
		path := append(slices.Clone(prefix), name)
		l, r := a.values[name], b.values[name]
		if f.rule.shape == ShapeEmbedded {
			lo, lok := l.(*Object)
			ro, rok := r.(*Object)
			if lok && rok && lo != nil && ro != nil {
				sub, err := diffObjects(lo, ro, path)
				if err != nil {
					return nil, err
				}
				out = append(out, sub...)
				continue
			}
		}
		lb, err := blobOf(f, l)
		if err != nil {
			return nil, err
		}
		rb, err := blobOf(f, r)
		if err != nil {
			return nil, err
		}
		if !cmp.Equal(lb, rb, blobOpts...) {
			out = append(out, Difference{Path: path, Left: lb, Right: rb, Report: cmp.Diff(lb, rb, blobOpts...)})
		}
	}
	return out, nil
}

func blobOf(f *Field, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return f.ToDict(v)
}

func joinPointer(path []string) string {
	if len(path) == 0 {
		return ""
	}
	p := ""
	for _, s := range path {
		p += "/" + s
	}
	return p
}
