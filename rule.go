package classdict

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Shape is the variant tag of a Rule.
type Shape int

const (
	ShapeScalar   Shape = iota // One of a set of ScalarKinds.
	ShapeEmbedded              // An *Object of a given Schema.
	ShapeList                  // A homogeneous sequence of one element Rule.
	ShapeTuple                 // A fixed-arity sequence of positional Rules.
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeEmbedded:
		return "embedded"
	case ShapeList:
		return "list"
	case ShapeTuple:
		return "tuple"
	}
	return "Shape(" + strconv.Itoa(int(s)) + ")"
}

// ScalarKind enumerates the runtime value kinds a scalar Rule can accept.
type ScalarKind int

const (
	KindAny    ScalarKind = iota // Any value, including nil.
	KindString                   // string
	KindInt                      // Signed and unsigned integer types (not bool).
	KindFloat                    // float32, float64
	KindNumber                   // Any integer or float type, or json.Number.
	KindBool                     // bool
	KindMap                      // map[string]any
	KindSlice                    // []any
)

var kindNames = [...]string{
	KindAny:    "any",
	KindString: "string",
	KindInt:    "int",
	KindFloat:  "float",
	KindNumber: "number",
	KindBool:   "bool",
	KindMap:    "map",
	KindSlice:  "slice",
}

func (k ScalarKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "ScalarKind(" + strconv.Itoa(int(k)) + ")"
}

// ParseScalarKind resolves a kind from its String() form.
func ParseScalarKind(name string) (ScalarKind, bool) {
	for i, n := range kindNames {
		if n == name {
			return ScalarKind(i), true
		}
	}
	return 0, false
}

// Rule describes the accepted shape of one value. It is a closed variant:
// exactly one of the shape-specific members is meaningful, selected by Shape.
// Rules are values; build them with ScalarRule, EmbeddedRule, ListRule and
// TupleRule (or the dsl package).
type Rule struct {
	shape  Shape
	kinds  []ScalarKind
	schema *Schema
	elem   *Rule
	items  []Rule
}

// ScalarRule accepts values matching any of kinds. No kinds (or KindAny)
// accepts every value.
func ScalarRule(kinds ...ScalarKind) Rule {
	for _, k := range kinds {
		if k == KindAny {
			return Rule{shape: ShapeScalar}
		}
	}
	return Rule{shape: ShapeScalar, kinds: append([]ScalarKind(nil), kinds...)}
}

// EmbeddedRule accepts *Object values built from s.
func EmbeddedRule(s *Schema) Rule { return Rule{shape: ShapeEmbedded, schema: s} }

// ListRule accepts sequences whose every element satisfies elem.
func ListRule(elem Rule) Rule { return Rule{shape: ShapeList, elem: &elem} }

// TupleRule accepts sequences of exactly len(items) elements, element i
// satisfying items[i].
func TupleRule(items ...Rule) Rule {
	return Rule{shape: ShapeTuple, items: append([]Rule(nil), items...)}
}

func (r Rule) Shape() Shape { return r.shape }

// Kinds returns the accepted scalar kinds; nil means any.
func (r Rule) Kinds() []ScalarKind { return append([]ScalarKind(nil), r.kinds...) }

// Schema returns the wrapped schema of an embedded rule.
func (r Rule) Schema() *Schema { return r.schema }

// Elem returns the element rule of a list rule.
func (r Rule) Elem() (Rule, bool) {
	if r.elem == nil {
		return Rule{}, false
	}
	return *r.elem, true
}

// Items returns the positional rules of a tuple rule.
func (r Rule) Items() []Rule { return append([]Rule(nil), r.items...) }

func (r Rule) acceptsAny() bool { return r.shape == ShapeScalar && len(r.kinds) == 0 }

// String renders the rule in the type-expression syntax used by schemafile:
// "string|int", "Person", "list<Tag>", "tuple<Person, Business>".
func (r Rule) String() string {
	switch r.shape {
	case ShapeScalar:
		if len(r.kinds) == 0 {
			return KindAny.String()
		}
		names := make([]string, len(r.kinds))
		for i, k := range r.kinds {
			names[i] = k.String()
		}
		return strings.Join(names, "|")
	case ShapeEmbedded:
		if r.schema == nil {
			return "<nil schema>"
		}
		return r.schema.Name()
	case ShapeList:
		if r.elem == nil {
			return "list<any>"
		}
		return "list<" + r.elem.String() + ">"
	case ShapeTuple:
		return "tuple<" + r.itemList() + ">"
	}
	return r.shape.String()
}

func (r Rule) itemList() string {
	names := make([]string, len(r.items))
	for i, it := range r.items {
		names[i] = it.String()
	}
	return strings.Join(names, ", ")
}

// verify reports declaration mistakes in the rule tree.
func (r Rule) verify(path string) error {
	switch r.shape {
	case ShapeScalar:
		for _, k := range r.kinds {
			if k < KindAny || int(k) >= len(kindNames) {
				return schemaError(path, "unknown scalar kind "+k.String())
			}
		}
	case ShapeEmbedded:
		if r.schema == nil {
			return schemaError(path, "embedded field without a schema")
		}
	case ShapeList:
		if r.elem == nil {
			return schemaError(path, "list field without an element type")
		}
		return r.elem.verify(path)
	case ShapeTuple:
		if len(r.items) == 0 {
			return schemaError(path, "tuple field needs at least one element type")
		}
		for i, it := range r.items {
			if err := it.verify(path + "/" + strconv.Itoa(i)); err != nil {
				return err
			}
		}
	default:
		return schemaError(path, "unknown rule shape "+r.shape.String())
	}
	return nil
}

// check validates a non-absent value against the rule. index is -1 for the
// field value itself and the element position for list/tuple members.
func (r Rule) check(v any, field, path string, index int) error {
	switch r.shape {
	case ShapeScalar:
		if r.acceptsAny() || (v != nil && r.matchScalar(v)) {
			return nil
		}
		return r.mismatch(v, field, path, index)
	case ShapeEmbedded:
		if obj, ok := v.(*Object); ok && obj != nil && obj.schema == r.schema {
			return nil
		}
		return r.mismatch(v, field, path, index)
	case ShapeList:
		seq, ok := asSequence(v)
		if !ok {
			return issueAt(path, CodeNotList, map[string]string{"field": field, "got": typeName(v), "expected": r.elem.String()})
		}
		for i, e := range seq {
			if err := r.elem.check(e, field, path+"/"+strconv.Itoa(i), i); err != nil {
				return err
			}
		}
		return nil
	case ShapeTuple:
		seq, ok := asSequence(v)
		if !ok {
			return issueAt(path, CodeNotSequence, map[string]string{"field": field, "got": typeName(v), "expected": r.itemList()})
		}
		if len(seq) != len(r.items) {
			return arityError(field, path, len(r.items), len(seq))
		}
		for i, e := range seq {
			if err := r.items[i].check(e, field, path+"/"+strconv.Itoa(i), i); err != nil {
				return err
			}
		}
		return nil
	}
	return schemaError(path, "unknown rule shape "+r.shape.String())
}

func (r Rule) mismatch(v any, field, path string, index int) error {
	data := map[string]string{"field": field, "got": typeName(v), "expected": r.String()}
	if index < 0 {
		return issueAt(path, CodeInvalidType, data)
	}
	data["index"] = strconv.Itoa(index)
	return issueAt(path, CodeInvalidElement, data)
}

func arityError(field, path string, want, got int) error {
	return issueAt(path, CodeArity, map[string]string{"field": field, "want": strconv.Itoa(want), "got": strconv.Itoa(got)})
}

func (r Rule) matchScalar(v any) bool {
	for _, k := range r.kinds {
		if matchKind(k, v) {
			return true
		}
	}
	return false
}

func matchKind(k ScalarKind, v any) bool {
	switch k {
	case KindAny:
		return true
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInt:
		return isInt(v)
	case KindFloat:
		return isFloat(v)
	case KindNumber:
		if _, ok := v.(json.Number); ok {
			return true
		}
		return isInt(v) || isFloat(v)
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindMap:
		_, ok := v.(map[string]any)
		return ok
	case KindSlice:
		_, ok := v.([]any)
		return ok
	}
	return false
}

func isInt(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// asSequence views v as a []any. Any Go slice or array qualifies except
// []byte, which is treated as a scalar.
func asSequence(v any) ([]any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case []any:
		return t, true
	case []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// typeName renders the runtime type of v for messages; objects report their
// schema name.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	if obj, ok := v.(*Object); ok && obj != nil {
		return obj.schema.Name()
	}
	return fmt.Sprintf("%T", v)
}
