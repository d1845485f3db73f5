// Package schemafile loads classdict schema types from YAML or JSON
// declaration documents.
//
//	types:
//	  - name: Person
//	    fields:
//	      - {name: name, type: string, required: true}
//	      - {name: age, type: int}
//	  - name: RpcMethod
//	    unknown: strict
//	    fields:
//	      - {name: args, type: "tuple<Person, list<string|int>>", required: true}
//
// Documents are checked against a JSON Schema before the declarations are
// compiled, and every problem found is reported at once.
package schemafile

import (
	"context"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	classdict "github.com/reoring/classdict"
)

// Document is the declaration file layout.
type Document struct {
	Types []TypeDecl `json:"types" yaml:"types"`
}

// TypeDecl declares one schema type.
type TypeDecl struct {
	Name    string      `json:"name" yaml:"name"`
	Doc     string      `json:"doc,omitempty" yaml:"doc,omitempty"`
	Unknown string      `json:"unknown,omitempty" yaml:"unknown,omitempty"`
	Fields  []FieldDecl `json:"fields" yaml:"fields"`
}

// FieldDecl declares one field; Type is a type expression.
type FieldDecl struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Doc      string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// Registry holds the compiled schema types of a document.
type Registry struct {
	order   []string
	schemas map[string]*classdict.Schema
	decls   map[string]TypeDecl
}

// Lookup returns the schema type declared under name.
func (r *Registry) Lookup(name string) (*classdict.Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the declared type names in document order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

// Doc returns the documentation of a type, or of one of its fields when field
// is not empty.
func (r *Registry) Doc(typeName, field string) string {
	td := r.decls[typeName]
	if field == "" {
		return td.Doc
	}
	for _, fd := range td.Fields {
		if fd.Name == field {
			return fd.Doc
		}
	}
	return ""
}

// LoadFile reads and compiles a declaration document from path.
func LoadFile(ctx context.Context, path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "schemafile: failed to read declarations")
	}
	reg, err := Load(ctx, data)
	if err != nil {
		return nil, errors.Wrapf(err, "schemafile: %s", path)
	}
	return reg, nil
}

// Load decodes a YAML or JSON declaration document, checks it against the
// declaration JSON Schema and compiles it.
func Load(ctx context.Context, data []byte) (*Registry, error) {
	tree, err := classdict.YAMLBytes(data).Decode(ctx, classdict.ParseOpt{})
	if err != nil {
		return nil, errors.Wrap(err, "schemafile: decode")
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, errors.Wrap(err, "schemafile: encode")
	}
	if err := validateShape(ctx, raw); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "schemafile: decode")
	}
	return Compile(doc)
}

// Compile builds the schema types of doc. Embedded references may point at
// any type of the document; types are built in dependency order and cyclic
// references are rejected.
func Compile(doc Document) (*Registry, error) {
	var result *multierror.Error
	reg := &Registry{
		schemas: make(map[string]*classdict.Schema, len(doc.Types)),
		decls:   make(map[string]TypeDecl, len(doc.Types)),
	}
	for i, td := range doc.Types {
		switch {
		case strings.TrimSpace(td.Name) == "":
			result = multierror.Append(result, errors.Errorf("types[%d]: missing type name", i))
			continue
		case isKeyword(td.Name):
			result = multierror.Append(result, errors.Errorf("type %s: name is reserved for a type expression", td.Name))
			continue
		}
		if _, dup := reg.decls[td.Name]; dup {
			result = multierror.Append(result, errors.Errorf("type %s: declared more than once", td.Name))
			continue
		}
		reg.decls[td.Name] = td
		reg.order = append(reg.order, td.Name)
	}

	exprs := make(map[string][]expr, len(reg.order))
	deps := make(map[string][]string, len(reg.order))
	for _, name := range reg.order {
		td := reg.decls[name]
		if td.Unknown != "" && td.Unknown != "ignore" && td.Unknown != "strict" {
			result = multierror.Append(result, errors.Errorf("type %s: unknown policy %q, want ignore or strict", name, td.Unknown))
		}
		fes := make([]expr, len(td.Fields))
		for j, fd := range td.Fields {
			e, err := parseExpr(fd.Type)
			if err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "type %s: field %s", name, fd.Name))
				continue
			}
			for _, ref := range e.refs(nil) {
				if _, ok := reg.decls[ref]; !ok {
					result = multierror.Append(result, errors.Errorf("type %s: field %s: unknown type %s", name, fd.Name, ref))
					continue
				}
				deps[name] = append(deps[name], ref)
			}
			fes[j] = e
		}
		exprs[name] = fes
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	order, err := dependencyOrder(reg.order, deps)
	if err != nil {
		return nil, err
	}
	lookup := func(name string) *classdict.Schema { return reg.schemas[name] }
	for _, name := range order {
		td := reg.decls[name]
		if !built(reg, deps[name]) {
			continue
		}
		fields := make([]classdict.NamedField, len(td.Fields))
		for j, fd := range td.Fields {
			fields[j] = classdict.NamedField{Name: fd.Name, Field: classdict.NewField(exprs[name][j].rule(lookup), fd.Required)}
		}
		policy := classdict.UnknownIgnore
		if td.Unknown == "strict" {
			policy = classdict.UnknownStrict
		}
		s, err := classdict.NewSchema(name, fields, classdict.WithUnknownPolicy(policy))
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "type %s", name))
			continue
		}
		reg.schemas[name] = s
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	log.Debugf("compiled %d schema types", len(reg.order))
	return reg, nil
}

// built reports whether every dependency compiled; a failed dependency has
// already been reported.
func built(reg *Registry, deps []string) bool {
	for _, d := range deps {
		if _, ok := reg.schemas[d]; !ok {
			return false
		}
	}
	return true
}

// dependencyOrder sorts names so that every type follows the types it embeds,
// keeping document order otherwise. Every cycle is reported once.
func dependencyOrder(names []string, deps map[string][]string) ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(names))
	var (
		order  []string
		stack  []string
		result *multierror.Error
	)
	var visit func(string)
	visit = func(n string) {
		switch state[n] {
		case done:
			return
		case visiting:
			i := len(stack) - 1
			for i > 0 && stack[i] != n {
				i--
			}
			cycle := append(append([]string(nil), stack[i:]...), n)
			result = multierror.Append(result, errors.Errorf("cyclic embedding %s", strings.Join(cycle, " -> ")))
			return
		}
		state[n] = visiting
		stack = append(stack, n)
		for _, d := range deps[n] {
			visit(d)
		}
		stack = stack[:len(stack)-1]
		state[n] = done
		order = append(order, n)
	}
	for _, n := range names {
		visit(n)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return order, nil
}
