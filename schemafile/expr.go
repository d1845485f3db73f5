package schemafile

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	classdict "github.com/reoring/classdict"
)

type exprKind int

const (
	exprScalar exprKind = iota
	exprRef
	exprList
	exprTuple
)

// expr is a parsed type expression. Refs are resolved to schemas once every
// declaration they point at has been built.
type expr struct {
	kind  exprKind
	kinds []classdict.ScalarKind
	ref   string
	elem  *expr
	items []expr
}

// refs appends the type names the expression embeds.
func (e expr) refs(dst []string) []string {
	switch e.kind {
	case exprRef:
		dst = append(dst, e.ref)
	case exprList:
		dst = e.elem.refs(dst)
	case exprTuple:
		for _, it := range e.items {
			dst = it.refs(dst)
		}
	}
	return dst
}

func (e expr) rule(lookup func(string) *classdict.Schema) classdict.Rule {
	switch e.kind {
	case exprRef:
		return classdict.EmbeddedRule(lookup(e.ref))
	case exprList:
		return classdict.ListRule(e.elem.rule(lookup))
	case exprTuple:
		items := make([]classdict.Rule, len(e.items))
		for i, it := range e.items {
			items[i] = it.rule(lookup)
		}
		return classdict.TupleRule(items...)
	}
	return classdict.ScalarRule(e.kinds...)
}

type parser struct {
	src string
	pos int
}

// parseExpr parses the type-expression syntax that classdict.Rule.String
// renders:
//
//	expr  = term { "|" term }
//	term  = "list" "<" expr ">" | "tuple" "<" expr { "," expr } ">" | ident
func parseExpr(src string) (expr, error) {
	p := &parser{src: src}
	e, err := p.union()
	if err != nil {
		return expr{}, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return expr{}, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return e, nil
}

func (p *parser) union() (expr, error) {
	first, err := p.term()
	if err != nil {
		return expr{}, err
	}
	if !p.accept('|') {
		return first, nil
	}
	terms := []expr{first}
	for {
		t, err := p.term()
		if err != nil {
			return expr{}, err
		}
		terms = append(terms, t)
		if !p.accept('|') {
			break
		}
	}
	var kinds []classdict.ScalarKind
	for _, t := range terms {
		if t.kind != exprScalar {
			return expr{}, p.errorf("unions accept scalar kinds only")
		}
		if len(t.kinds) == 0 {
			return expr{kind: exprScalar}, nil
		}
		kinds = append(kinds, t.kinds...)
	}
	return expr{kind: exprScalar, kinds: kinds}, nil
}

func (p *parser) term() (expr, error) {
	name := p.ident()
	if name == "" {
		if p.pos >= len(p.src) {
			return expr{}, p.errorf("missing type")
		}
		return expr{}, p.errorf("unexpected %q", p.src[p.pos:p.pos+1])
	}
	switch name {
	case "list":
		if !p.accept('<') {
			return expr{}, p.errorf("list needs an element type in <>")
		}
		elem, err := p.union()
		if err != nil {
			return expr{}, err
		}
		if !p.accept('>') {
			return expr{}, p.errorf("unterminated list<")
		}
		return expr{kind: exprList, elem: &elem}, nil
	case "tuple":
		if !p.accept('<') {
			return expr{}, p.errorf("tuple needs element types in <>")
		}
		var items []expr
		for {
			it, err := p.union()
			if err != nil {
				return expr{}, err
			}
			items = append(items, it)
			if p.accept(',') {
				continue
			}
			if !p.accept('>') {
				return expr{}, p.errorf("unterminated tuple<")
			}
			return expr{kind: exprTuple, items: items}, nil
		}
	}
	if k, ok := classdict.ParseScalarKind(name); ok {
		if k == classdict.KindAny {
			return expr{kind: exprScalar}, nil
		}
		return expr{kind: exprScalar, kinds: []classdict.ScalarKind{k}}, nil
	}
	return expr{kind: exprRef, ref: name}, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.Errorf("type %q at offset %d: %s", strings.TrimSpace(p.src), p.pos, fmt.Sprintf(format, args...))
}

// isKeyword reports names that cannot be used as type names.
func isKeyword(name string) bool {
	if name == "list" || name == "tuple" {
		return true
	}
	_, ok := classdict.ParseScalarKind(name)
	return ok
}
