package classdict_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	classdict "github.com/reoring/classdict"
	g "github.com/reoring/classdict/dsl"
)

func TestParseFrom_JSONNumbers(t *testing.T) {
	ctx := context.Background()
	s := g.Object("Metric").
		Field("count", g.Int()).
		Field("ratio", g.Float()).
		Field("value", g.Number()).
		Field("raw", g.Any()).
		Field("label", g.OneOf(g.String(), g.Int())).
		MustBuild()

	obj, err := classdict.ParseFrom(ctx, s, classdict.JSONBytes([]byte(`{"count": 3, "ratio": 1, "value": 2.5, "raw": {"n": [7]}, "label": 9}`)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if obj.Value("count") != int64(3) || obj.Value("ratio") != float64(1) || obj.Value("value") != 2.5 || obj.Value("label") != int64(9) {
		t.Fatalf("numbers not normalized: %s", obj)
	}
	raw := obj.Value("raw").(map[string]any)
	if raw["n"].([]any)[0] != int64(7) {
		t.Fatalf("nested any numbers not normalized: %#v", raw)
	}

	_, err = classdict.ParseFrom(ctx, s, classdict.JSONBytes([]byte(`{"count": 1.5}`)))
	mustIssue(t, err, classdict.CodeInvalidType, "/count")
}

func TestParseFrom_EmbeddedAndCollections(t *testing.T) {
	fx := newFixtures()
	ctx := context.Background()
	doc := `{
  "name": "ping",
  "args": [
    {"name": "Bob", "age": 42},
    {"owner": {"name": "Al"}, "years_existed": 3, "typed_tags": [{"name": "x"}], "future_field": true}
  ]
}`
	obj, err := classdict.ParseFrom(ctx, fx.rpc, classdict.JSONReader(strings.NewReader(doc)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	args := obj.Value("args").([]any)
	if args[0].(*classdict.Object).Value("age") != int64(42) {
		t.Fatalf("unexpected person %v", args[0])
	}
	biz := args[1].(*classdict.Object)
	if biz.Value("years_existed") != int64(3) {
		t.Fatalf("unexpected business %v", biz)
	}
}

func TestParseFrom_YAML(t *testing.T) {
	fx := newFixtures()
	ctx := context.Background()
	doc := "owner:\n  name: Bob\n  age: 42\nyears_existed: 10\ntags: [a, b]\n"
	obj, err := classdict.ParseFrom(ctx, fx.business, classdict.YAMLBytes([]byte(doc)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if owner := obj.Value("owner").(*classdict.Object); owner.Value("age") != 42 {
		t.Fatalf("unexpected owner %v", owner)
	}

	_, err = classdict.ParseFrom(ctx, fx.business, classdict.YAMLReader(strings.NewReader("years_existed: 1\n")))
	mustIssue(t, err, classdict.CodeRequired, "/owner")

	_, err = classdict.ParseFrom(ctx, fx.business, classdict.YAMLBytes(nil))
	mustIssue(t, err, classdict.CodeParseError, "/")

	score := g.Object("Score").Field("score", g.Float()).Field("count", g.Int()).MustBuild()
	for _, src := range []classdict.Source{
		classdict.JSONBytes([]byte(`{"score": 1, "count": 2}`)),
		classdict.YAMLBytes([]byte("score: 1\ncount: 2\n")),
	} {
		obj, err := classdict.ParseFrom(ctx, score, src)
		if err != nil {
			t.Fatalf("%s: whole number for a float field: %v", src.Name(), err)
		}
		if obj.Value("score") != float64(1) {
			t.Fatalf("%s: expected float64 score, got %#v", src.Name(), obj.Value("score"))
		}
	}
	_, err = classdict.ParseFrom(ctx, score, classdict.YAMLBytes([]byte("count: 1.5\n")))
	mustIssue(t, err, classdict.CodeInvalidType, "/count")
}

func TestParseFrom_InputFailures(t *testing.T) {
	fx := newFixtures()
	ctx := context.Background()
	cases := []struct {
		name string
		src  classdict.Source
		opt  classdict.ParseOpt
		code string
		path string
	}{
		{"malformed", classdict.JSONBytes([]byte(`{"name":`)), classdict.ParseOpt{}, classdict.CodeParseError, "/"},
		{"trailing data", classdict.JSONBytes([]byte(`{"name":"a"} {}`)), classdict.ParseOpt{}, classdict.CodeParseError, "/"},
		{"not an object", classdict.JSONBytes([]byte(`["a"]`)), classdict.ParseOpt{}, classdict.CodeInvalidType, "/"},
		{"too large", classdict.JSONBytes([]byte(`{"name":"abcdefgh"}`)), classdict.ParseOpt{MaxBytes: 8}, classdict.CodeTruncated, "/"},
		{"too deep", classdict.JSONBytes([]byte(`{"name":"a","age":{"x":{"y":1}}}`)), classdict.ParseOpt{MaxDepth: 2}, classdict.CodeTooDeep, "/"},
		{"duplicate", classdict.JSONBytes([]byte(`{"name":"a","name":"b"}`)), classdict.ParseOpt{RejectDuplicateKeys: true}, classdict.CodeDuplicateKey, "/name"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := classdict.ParseFrom(ctx, fx.person, c.src, c.opt)
			if !errors.Is(err, classdict.ErrClassDict) {
				t.Fatalf("expected classdict error, got %v", err)
			}
			mustIssue(t, err, c.code, c.path)
		})
	}

	if _, err := classdict.ParseFrom(ctx, fx.person, classdict.JSONBytes([]byte(`{"name":"a","name":"b"}`))); err != nil {
		t.Fatalf("duplicates are accepted by default: %v", err)
	}
}

func TestParseFrom_ContextAndSchema(t *testing.T) {
	fx := newFixtures()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := classdict.ParseFrom(ctx, fx.person, classdict.MapSource(map[string]any{"name": "a"}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	_, err = classdict.ParseFrom(context.Background(), nil, classdict.MapSource(nil))
	mustIssue(t, err, classdict.CodeSchema, "/")

	obj, err := classdict.ParseFrom(context.Background(), fx.person, classdict.MapSource(map[string]any{"name": "a", "age": 1}))
	if err != nil || obj.Value("age") != 1 {
		t.Fatalf("map source: %v %v", obj, err)
	}
}
