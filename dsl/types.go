package dsl

import (
	"fmt"

	classdict "github.com/reoring/classdict"
)

// Type is a declared value type: a classdict.Rule plus any declaration
// mistake found while composing it. Mistakes are reported by Build.
type Type struct {
	rule    classdict.Rule
	problem string
}

// Rule returns the rule described by t.
func (t Type) Rule() classdict.Rule { return t.rule }

// String renders the type expression.
func (t Type) String() string { return t.rule.String() }

func scalar(kinds ...classdict.ScalarKind) Type { return Type{rule: classdict.ScalarRule(kinds...)} }

// Any accepts every value, including nil.
func Any() Type { return scalar(classdict.KindAny) }

func String() Type { return scalar(classdict.KindString) }
func Int() Type    { return scalar(classdict.KindInt) }
func Float() Type  { return scalar(classdict.KindFloat) }
func Bool() Type   { return scalar(classdict.KindBool) }
func Map() Type    { return scalar(classdict.KindMap) }
func Slice() Type  { return scalar(classdict.KindSlice) }

// Number accepts any integer or float, and json.Number.
func Number() Type { return scalar(classdict.KindNumber) }

// OneOf accepts a value matching any of the given scalar types.
func OneOf(types ...Type) Type {
	if len(types) == 0 {
		return Type{rule: classdict.ScalarRule(), problem: "oneof needs at least one type"}
	}
	var kinds []classdict.ScalarKind
	for _, t := range types {
		if t.problem != "" {
			return t
		}
		if t.rule.Shape() != classdict.ShapeScalar {
			return Type{rule: classdict.ScalarRule(), problem: fmt.Sprintf("oneof accepts scalar types only, got %s", t.rule)}
		}
		k := t.rule.Kinds()
		if len(k) == 0 {
			return Any()
		}
		kinds = append(kinds, k...)
	}
	return scalar(kinds...)
}

// Embedded accepts instances of s and reconstructs them from mappings.
func Embedded(s *classdict.Schema) Type {
	if s == nil {
		return Type{rule: classdict.ScalarRule(), problem: "embedded type without a schema"}
	}
	return Type{rule: classdict.EmbeddedRule(s)}
}

// List accepts a sequence whose elements all satisfy elem.
func List(elem Type) Type {
	return Type{rule: classdict.ListRule(elem.rule), problem: elem.problem}
}

// Tuple accepts a sequence of exactly len(items) elements.
func Tuple(items ...Type) Type {
	if len(items) == 0 {
		return Type{rule: classdict.ScalarRule(), problem: "tuple needs at least one element type"}
	}
	rules := make([]classdict.Rule, len(items))
	for i, it := range items {
		if it.problem != "" {
			return Type{rule: classdict.ScalarRule(), problem: it.problem}
		}
		rules[i] = it.rule
	}
	return Type{rule: classdict.TupleRule(rules...)}
}

// FromRule wraps an already built rule.
func FromRule(r classdict.Rule) Type { return Type{rule: r} }
