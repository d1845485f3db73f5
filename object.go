package classdict

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Object is an instance of a Schema. Every declared field holds either the
// validated supplied value or nil.
type Object struct {
	schema *Schema
	values map[string]any
}

func (o *Object) Schema() *Schema { return o.schema }

// Get returns the resolved value of a declared field. ok is false for names
// the schema does not declare.
func (o *Object) Get(name string) (v any, ok bool) {
	if _, declared := o.schema.index[name]; !declared {
		return nil, false
	}
	return o.values[name], true
}

// Value is like Get but returns nil for undeclared names.
func (o *Object) Value(name string) any { return o.values[name] }

// Set replaces the value of a declared field without validating it. Invalid
// values surface on the next ToDict.
func (o *Object) Set(name string, v any) error {
	if _, declared := o.schema.index[name]; !declared {
		return issueAt("/"+name, CodeUnknownKey, map[string]string{"field": name})
	}
	o.values[name] = v
	return nil
}

// ToDict converts the instance to a mapping. Each non-nil field is validated
// again and converted through its descriptor; nil fields are omitted.
func (o *Object) ToDict() (map[string]any, error) {
	out := make(map[string]any, len(o.values))
	for name, f := range o.schema.Members() {
		v := o.values[name]
		if v == nil {
			continue
		}
		if err := f.Validate(v); err != nil {
			return nil, err
		}
		blob, err := f.ToDict(v)
		if err != nil {
			return nil, err
		}
		out[name] = blob
	}
	return out, nil
}

// Equal reports whether other has the same schema and no field differences.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	diffs, err := Diff(o, other)
	return err == nil && len(diffs) == 0
}

// MarshalJSON encodes the ToDict mapping.
func (o *Object) MarshalJSON() ([]byte, error) {
	m, err := o.ToDict()
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// MarshalYAML implements yaml.Marshaler with the ToDict mapping.
func (o *Object) MarshalYAML() (any, error) {
	return o.ToDict()
}

// String renders TypeName(field=value, ...) in declaration order.
func (o *Object) String() string {
	if o == nil {
		return "nil"
	}
	b := &strings.Builder{}
	b.WriteString(o.schema.name)
	b.WriteByte('(')
	i := 0
	for name := range o.schema.Members() {
		if i > 0 {
			b.WriteString(", ")
		}
		i++
		b.WriteString(name)
		b.WriteByte('=')
		writeRepr(b, o.values[name])
	}
	b.WriteByte(')')
	return b.String()
}

func writeRepr(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("nil")
	case string:
		b.WriteString(strconv.Quote(t))
	case *Object:
		b.WriteString(t.String())
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			writeRepr(b, t[k])
		}
		b.WriteByte('}')
	default:
		if seq, ok := asSequence(v); ok {
			b.WriteByte('[')
			for i, e := range seq {
				if i > 0 {
					b.WriteString(", ")
				}
				writeRepr(b, e)
			}
			b.WriteByte(']')
			return
		}
		fmt.Fprintf(b, "%v", v)
	}
}
