package classdict

// Field describes one named slot of a schema: its accepted Rule and whether
// it must be supplied. Fields are bound to a name when attached to a Schema
// and are shared, read-only metadata afterwards.
type Field struct {
	name     string
	required bool
	rule     Rule
}

// NewField returns an unbound field descriptor.
func NewField(rule Rule, required bool) *Field {
	return &Field{rule: rule, required: required}
}

// Name returns the bound name ("" before the field is attached to a schema).
func (f *Field) Name() string { return f.name }

// Required reports whether absence is a RequiredFieldError.
func (f *Field) Required() bool { return f.required }

func (f *Field) Rule() Rule     { return f.rule }
func (f *Field) Shape() Shape   { return f.rule.shape }
func (f *Field) String() string { return f.name + ": " + f.rule.String() }

func (f *Field) pointer() string { return "/" + f.name }

// bind attaches the field to name. Binding the same name again is a no-op;
// a different name means the descriptor is shared between slots.
func (f *Field) bind(name string) error {
	if f.name == "" || f.name == name {
		f.name = name
		return nil
	}
	return schemaError("/"+name, "field descriptor already bound to "+f.name)
}

// Validate checks v against the field. A nil value is a required-field
// violation for required fields and accepted otherwise.
func (f *Field) Validate(v any) error {
	if v == nil {
		if f.required {
			return issueAt(f.pointer(), CodeRequired, map[string]string{"field": f.name})
		}
		return nil
	}
	return f.rule.check(v, f.name, f.pointer(), -1)
}

// ToDict converts an already validated value to its blob form.
func (f *Field) ToDict(v any) (any, error) {
	out, err := toDictRule(f.rule, v)
	if err != nil {
		return nil, rebase(err, f.pointer())
	}
	return out, nil
}

// FromDict converts a blob to the value form expected by the field. It does
// not validate the result; Schema.FromDict does that.
func (f *Field) FromDict(blob any) (any, error) {
	if blob == nil {
		return nil, nil
	}
	return fromDictRule(f.rule, blob, f.name, f.pointer())
}
