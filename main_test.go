package classdict_test

import (
	"testing"

	classdict "github.com/reoring/classdict"
	g "github.com/reoring/classdict/dsl"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixtures struct {
	person   *classdict.Schema
	tag      *classdict.Schema
	business *classdict.Schema
	rpc      *classdict.Schema
}

func newFixtures() fixtures {
	person := g.Object("Person").
		Field("name", g.String()).Required().
		Field("age", g.Int()).
		MustBuild()
	tag := g.Object("BusinessTag").
		Field("name", g.String()).Required().
		MustBuild()
	business := g.Object("Business").
		Field("owner", g.Embedded(person)).Required().
		Field("years_existed", g.Any()).Required().
		Field("anything", g.Any()).
		Field("tags", g.List(g.String())).
		Field("typed_tags", g.List(g.Embedded(tag))).
		MustBuild()
	rpc := g.Object("RpcMethod").
		Field("name", g.String()).
		Field("args", g.Tuple(g.Embedded(person), g.Embedded(business))).Required().
		MustBuild()
	return fixtures{person: person, tag: tag, business: business, rpc: rpc}
}

func mustIssue(t *testing.T, err error, code, path string) classdict.Issue {
	t.Helper()
	iss, ok := classdict.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got %v", err)
	}
	if iss[0].Code != code || iss[0].Path != path {
		t.Fatalf("expected %s at %s, got %s at %s (%s)", code, path, iss[0].Code, iss[0].Path, iss[0].Message)
	}
	return iss[0]
}
