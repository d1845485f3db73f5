package classdict

import (
	"iter"
	"sort"
	"strings"
)

// UnknownPolicy controls how FromDict treats keys that name no declared field.
type UnknownPolicy int

const (
	UnknownIgnore UnknownPolicy = iota // Drop unknown keys (forward compatible).
	UnknownStrict                      // Reject the first unknown key.
)

// Values holds the keyword-style arguments of Schema.New.
type Values map[string]any

// Schema is a schema type: a name plus an ordered list of field descriptors.
// It is immutable once built and safe for concurrent use.
type Schema struct {
	name    string
	fields  []*Field
	index   map[string]int
	unknown UnknownPolicy
}

// SchemaOption tweaks a Schema during NewSchema.
type SchemaOption func(*Schema)

// WithUnknownPolicy sets the FromDict policy for undeclared keys.
func WithUnknownPolicy(p UnknownPolicy) SchemaOption {
	return func(s *Schema) { s.unknown = p }
}

// NamedField pairs a field name with its descriptor for NewSchema.
type NamedField struct {
	Name  string
	Field *Field
}

// NewSchema registers the fields of a schema type in declaration order and
// binds each descriptor to its name.
func NewSchema(name string, fields []NamedField, opts ...SchemaOption) (*Schema, error) {
	if strings.TrimSpace(name) == "" {
		return nil, schemaError("/", "schema name is empty")
	}
	s := &Schema{name: name, index: make(map[string]int, len(fields))}
	for _, o := range opts {
		o(s)
	}
	for _, nf := range fields {
		switch {
		case nf.Name == "":
			return nil, schemaError("/", name+": field name is empty")
		case IsReservedName(nf.Name):
			return nil, schemaError("/"+nf.Name, name+": field name "+nf.Name+" is reserved")
		case nf.Field == nil:
			return nil, schemaError("/"+nf.Name, name+": nil field descriptor")
		}
		if _, dup := s.index[nf.Name]; dup {
			return nil, schemaError("/"+nf.Name, name+": duplicate field "+nf.Name)
		}
		if err := nf.Field.rule.verify("/" + nf.Name); err != nil {
			return nil, err
		}
		if err := nf.Field.bind(nf.Name); err != nil {
			return nil, err
		}
		s.index[nf.Name] = len(s.fields)
		s.fields = append(s.fields, nf.Field)
	}
	log.Debugf("schema %s registered with %d fields", name, len(s.fields))
	return s, nil
}

// IsReservedName reports whether a field name uses the reserved
// double-underscore marker at either end.
func IsReservedName(name string) bool {
	return strings.HasPrefix(name, "__") || strings.HasSuffix(name, "__")
}

func (s *Schema) Name() string                 { return s.name }
func (s *Schema) UnknownPolicy() UnknownPolicy { return s.unknown }
func (s *Schema) String() string               { return s.name }

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.fields) }

// Members yields the (name, descriptor) pairs in declaration order. It has
// no side effects and may be called any number of times.
func (s *Schema) Members() iter.Seq2[string, *Field] {
	return func(yield func(string, *Field) bool) {
		for _, f := range s.fields {
			if IsReservedName(f.name) {
				continue
			}
			if !yield(f.name, f) {
				return
			}
		}
	}
}

// Field looks up a declared field by name.
func (s *Schema) Field(name string) (*Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// New constructs an instance from keyword-style values. Fields are checked
// in declaration order and the first failure is returned: a missing required
// field yields a RequiredFieldError, a mismatching value a ValidationError.
// Keys naming no declared field are ignored unless the schema is
// UnknownStrict, in which case they are rejected after all fields pass.
func (s *Schema) New(vals Values) (*Object, error) {
	obj := &Object{schema: s, values: make(map[string]any, len(s.fields))}
	for name, f := range s.Members() {
		v, ok := vals[name]
		if !ok {
			if f.required {
				return nil, issueAt(f.pointer(), CodeRequired, map[string]string{"field": name})
			}
			obj.values[name] = nil
			continue
		}
		if err := f.Validate(v); err != nil {
			return nil, err
		}
		obj.values[name] = v
	}
	if s.unknown == UnknownStrict {
		if k, found := s.firstUnknown(vals); found {
			return nil, issueAt("/"+k, CodeUnknownKey, map[string]string{"field": k})
		}
	}
	log.Debugf("constructed %s", s.name)
	return obj, nil
}

// MustNew is like New but panics on error.
func (s *Schema) MustNew(vals Values) *Object {
	obj, err := s.New(vals)
	if err != nil {
		panic(err)
	}
	return obj
}

// FromDict reconstructs an instance from a mapping. Each declared key present
// in m is converted through its field, validated, and handed to New. Keys with
// no declared field are ignored unless the schema is UnknownStrict.
func (s *Schema) FromDict(m map[string]any) (*Object, error) {
	vals := make(Values, len(s.fields))
	for name, f := range s.Members() {
		blob, ok := m[name]
		if !ok {
			continue
		}
		v, err := f.FromDict(blob)
		if err != nil {
			return nil, err
		}
		if err := f.Validate(v); err != nil {
			return nil, err
		}
		vals[name] = v
	}
	if s.unknown == UnknownStrict {
		if k, found := s.firstUnknown(m); found {
			return nil, issueAt("/"+k, CodeUnknownKey, map[string]string{"field": k})
		}
	}
	return s.New(vals)
}

// firstUnknown returns the smallest key of m that names no declared field.
func (s *Schema) firstUnknown(m map[string]any) (string, bool) {
	var unknown []string
	for k := range m {
		if _, ok := s.index[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return "", false
	}
	sort.Strings(unknown)
	return unknown[0], true
}
