package schemafile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	classdict "github.com/reoring/classdict"
)

const businessDoc = `
types:
  - name: Business
    doc: A company and its owner.
    fields:
      - {name: owner, type: Person, required: true, doc: Who runs it.}
      - {name: years_existed, type: any, required: true}
      - {name: typed_tags, type: "list<BusinessTag>"}
      - {name: id, type: "string|int"}
  - name: Person
    fields:
      - {name: name, type: string, required: true}
      - {name: age, type: int}
  - name: BusinessTag
    unknown: strict
    fields:
      - {name: name, type: string, required: true}
  - name: RpcMethod
    fields:
      - {name: args, type: "tuple<Person, Business>", required: true}
`

func TestLoad_Business(t *testing.T) {
	reg, err := Load(context.Background(), []byte(businessDoc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Business", "Person", "BusinessTag", "RpcMethod"}, reg.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
	biz, ok := reg.Lookup("Business")
	if !ok {
		t.Fatalf("Business not registered")
	}
	var got []string
	for _, f := range biz.Members() {
		got = append(got, f.String())
	}
	want := []string{"owner: Person", "years_existed: any", "typed_tags: list<BusinessTag>", "id: string|int"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields (-want +got):\n%s", diff)
	}
	if reg.Doc("Business", "") != "A company and its owner." || reg.Doc("Business", "owner") != "Who runs it." {
		t.Fatalf("docs not kept")
	}
	tag, _ := reg.Lookup("BusinessTag")
	if tag.UnknownPolicy() != classdict.UnknownStrict {
		t.Fatalf("unknown policy not applied")
	}

	rpc, _ := reg.Lookup("RpcMethod")
	obj, err := rpc.FromDict(map[string]any{"args": []any{
		map[string]any{"name": "Bob"},
		map[string]any{"owner": map[string]any{"name": "Al"}, "years_existed": 2, "id": 7},
	}})
	if err != nil {
		t.Fatalf("from dict: %v", err)
	}
	if _, err := obj.ToDict(); err != nil {
		t.Fatalf("to dict: %v", err)
	}
}

func TestLoad_JSONDocument(t *testing.T) {
	doc := `{"types": [{"name": "Point", "fields": [{"name": "xy", "type": "tuple<float, float>", "required": true}]}]}`
	reg, err := Load(context.Background(), []byte(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, _ := reg.Lookup("Point")
	if _, err := p.New(classdict.Values{"xy": []any{1.5, 2.5}}); err != nil {
		t.Fatalf("new: %v", err)
	}
}

func TestLoad_MetaSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"no types":        `kind: nothing`,
		"bad type name":   "types:\n  - name: 9lives\n    fields: []\n",
		"bad policy":      "types:\n  - name: A\n    unknown: loose\n    fields: []\n",
		"missing type":    "types:\n  - name: A\n    fields:\n      - {name: a}\n",
		"required string": "types:\n  - name: A\n    fields:\n      - {name: a, type: int, required: \"yes\"}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(context.Background(), []byte(doc)); err == nil {
				t.Fatalf("expected meta schema violation")
			}
		})
	}
}

func TestLoad_AggregatesDeclarationErrors(t *testing.T) {
	doc := `
types:
  - name: A
    fields:
      - {name: x, type: "list<"}
      - {name: y, type: Missing}
      - {name: z, type: "Tag|int"}
  - name: A
    fields: []
  - name: int
    fields: []
  - name: Tag
    fields: []
`
	_, err := Load(context.Background(), []byte(doc))
	if err == nil {
		t.Fatalf("expected errors")
	}
	msg := err.Error()
	for _, want := range []string{"field x", "unknown type Missing", "field z", "declared more than once", "type int"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error should mention %q:\n%s", want, msg)
		}
	}
}

func TestLoad_Cycles(t *testing.T) {
	doc := `
types:
  - name: Node
    fields:
      - {name: children, type: "list<Node>"}
  - name: A
    fields:
      - {name: b, type: B}
  - name: B
    fields:
      - {name: a, type: "tuple<A>"}
`
	_, err := Load(context.Background(), []byte(doc))
	if err == nil {
		t.Fatalf("expected cycle errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Node -> Node") || !strings.Contains(msg, "A -> B -> A") {
		t.Fatalf("unexpected error: %s", msg)
	}
}

func TestLoad_SchemaErrorsFromCore(t *testing.T) {
	doc := `
types:
  - name: A
    fields:
      - {name: __x, type: int}
  - name: B
    fields:
      - {name: a, type: A}
`
	_, err := Load(context.Background(), []byte(doc))
	if err == nil || !strings.Contains(err.Error(), "type A") {
		t.Fatalf("expected reserved field error, got %v", err)
	}
	if strings.Contains(err.Error(), "type B") {
		t.Fatalf("dependents of a failed type should not be reported: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.yaml")
	if err := os.WriteFile(path, []byte(businessDoc), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(context.Background(), path); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if _, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestParseExpr_RoundTripsRuleString(t *testing.T) {
	for _, src := range []string{"any", "string|int", "list<list<float>>", "tuple<bool, list<number|string>>", "map", "slice"} {
		e, err := parseExpr(src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if got := e.rule(nil).String(); got != src {
			t.Errorf("got %q, want %q", got, src)
		}
	}
	for _, src := range []string{"", "list", "list<int", "tuple<>", "tuple<int,", "int|", "int int", "list<int>|string"} {
		if _, err := parseExpr(src); err == nil {
			t.Errorf("%q: expected parse error", src)
		}
	}
	e, err := parseExpr(" tuple< Person , list<Tag> > ")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Person", "Tag"}, e.refs(nil)); diff != "" {
		t.Fatalf("refs (-want +got):\n%s", diff)
	}
}
