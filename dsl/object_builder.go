package dsl

import (
	classdict "github.com/reoring/classdict"
)

type objectBuilder struct {
	name          string
	order         []string
	fields        map[string]Type
	required      map[string]struct{}
	unknownPolicy classdict.UnknownPolicy
	problem       error
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder for the schema type name. Unknown keys
// are ignored by default.
func Object(name string) *objectBuilder {
	return &objectBuilder{
		name:          name,
		fields:        map[string]Type{},
		required:      map[string]struct{}{},
		unknownPolicy: classdict.UnknownIgnore,
	}
}

// Field registers a field in declaration order. Declaring the same name twice
// is reported by Build.
func (b *objectBuilder) Field(name string, t Type) *fieldStep {
	if _, dup := b.fields[name]; dup && b.problem == nil {
		b.problem = classdict.SchemaError("/"+name, b.name+": duplicate field "+name)
	}
	b.order = append(b.order, name)
	b.fields[name] = t
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

func (f *fieldStep) Field(name string, t Type) *fieldStep   { return f.b.Field(name, t) }
func (f *fieldStep) UnknownStrict() *objectBuilder          { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownIgnore() *objectBuilder          { return f.b.UnknownIgnore() }
func (f *fieldStep) Build() (*classdict.Schema, error)      { return f.b.Build() }
func (f *fieldStep) MustBuild() *classdict.Schema           { return f.b.MustBuild() }
func (f *fieldStep) Require(names ...string) *objectBuilder { return f.b.Require(names...) }

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict makes FromDict reject keys that name no declared field.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = classdict.UnknownStrict
	return b
}

// UnknownIgnore makes FromDict drop keys that name no declared field.
func (b *objectBuilder) UnknownIgnore() *objectBuilder {
	b.unknownPolicy = classdict.UnknownIgnore
	return b
}

// Build validates the declarations and returns the schema type. Each call
// creates fresh field descriptors, so a builder may be built more than once.
func (b *objectBuilder) Build() (*classdict.Schema, error) {
	if b.problem != nil {
		return nil, b.problem
	}
	for n := range b.required {
		if _, ok := b.fields[n]; !ok {
			return nil, classdict.SchemaError("/"+n, b.name+": required field "+n+" is not declared")
		}
	}
	named := make([]classdict.NamedField, 0, len(b.order))
	for _, n := range b.order {
		t := b.fields[n]
		if t.problem != "" {
			return nil, classdict.SchemaError("/"+n, b.name+": "+t.problem)
		}
		_, req := b.required[n]
		named = append(named, classdict.NamedField{Name: n, Field: classdict.NewField(t.rule, req)})
	}
	return classdict.NewSchema(b.name, named, classdict.WithUnknownPolicy(b.unknownPolicy))
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() *classdict.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
