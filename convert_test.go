package classdict_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	classdict "github.com/reoring/classdict"
)

func TestToDict_Generic(t *testing.T) {
	fx := newFixtures()
	for _, v := range []any{nil, 5, "x", []any{1}} {
		got, err := classdict.ToDict(v)
		if err != nil || !cmp.Equal(v, got) {
			t.Fatalf("non-objects pass through unchanged: %v -> %v (%v)", v, got, err)
		}
	}
	got, err := classdict.ToDict(fx.person.MustNew(classdict.Values{"name": "Bob"}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Bob"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestToDict_ObjectsInsideAnyField(t *testing.T) {
	fx := newFixtures()
	bob := fx.person.MustNew(classdict.Values{"name": "Bob"})
	biz := fx.business.MustNew(classdict.Values{
		"owner":         bob,
		"years_existed": 1,
		"anything":      map[string]any{"people": []any{bob, 3}},
	})
	m, err := biz.ToDict()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"people": []any{map[string]any{"name": "Bob"}, 3}}
	if diff := cmp.Diff(want, m["anything"]); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	if err := bob.Set("age", "old"); err != nil {
		t.Fatal(err)
	}
	_, err = biz.ToDict()
	mustIssue(t, err, classdict.CodeInvalidType, "/anything/people/0/age")
}

func TestFromDict_Generic(t *testing.T) {
	fx := newFixtures()

	v, err := classdict.FromDict(classdict.ScalarRule(classdict.KindInt), 5)
	if err != nil || v != 5 {
		t.Fatalf("scalar blobs are returned unchanged: %v %v", v, err)
	}

	v, err = classdict.FromDict(classdict.EmbeddedRule(fx.person), map[string]any{"name": "Bob"})
	if err != nil {
		t.Fatal(err)
	}
	if obj, ok := v.(*classdict.Object); !ok || obj.Schema() != fx.person || obj.Value("name") != "Bob" {
		t.Fatalf("expected a Person, got %v", v)
	}

	v, err = classdict.FromDict(classdict.ListRule(classdict.EmbeddedRule(fx.tag)), []any{map[string]any{"name": "a"}})
	if err != nil {
		t.Fatal(err)
	}
	if seq := v.([]any); len(seq) != 1 || seq[0].(*classdict.Object).Value("name") != "a" {
		t.Fatalf("unexpected list %v", v)
	}

	_, err = classdict.FromDict(classdict.EmbeddedRule(fx.person), "Bob")
	iss := mustIssue(t, err, classdict.CodeInvalidType, "/")
	if iss.Params["field"] != "value" {
		t.Fatalf("unexpected params %v", iss.Params)
	}

	_, err = classdict.FromDict(classdict.ListRule(classdict.EmbeddedRule(fx.tag)), []any{map[string]any{}})
	mustIssue(t, err, classdict.CodeRequired, "/0/name")

	_, err = classdict.FromDict(classdict.TupleRule(classdict.ScalarRule(), classdict.ScalarRule()), []any{1})
	mustIssue(t, err, classdict.CodeArity, "/")
}

func TestRule_String(t *testing.T) {
	fx := newFixtures()
	cases := map[string]classdict.Rule{
		"any":                       classdict.ScalarRule(),
		"string|int":                classdict.ScalarRule(classdict.KindString, classdict.KindInt),
		"list<BusinessTag>":         classdict.ListRule(classdict.EmbeddedRule(fx.tag)),
		"tuple<Person, list<bool>>": classdict.TupleRule(classdict.EmbeddedRule(fx.person), classdict.ListRule(classdict.ScalarRule(classdict.KindBool))),
	}
	for want, r := range cases {
		if got := r.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if k, ok := classdict.ParseScalarKind("float"); !ok || k != classdict.KindFloat {
		t.Fatalf("parse float: %v %v", k, ok)
	}
	if _, ok := classdict.ParseScalarKind("decimal"); ok {
		t.Fatalf("unexpected kind")
	}
}
