package classdict_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	classdict "github.com/reoring/classdict"
	"github.com/reoring/classdict/i18n"
)

func TestIssues_ErrorAndKinds(t *testing.T) {
	fx := newFixtures()
	_, err := fx.person.New(classdict.Values{"name": 1})
	want := "field name got value of unexpected type int, expected: string (invalid_type at /name)"
	if err.Error() != want {
		t.Fatalf("got %q\nwant %q", err.Error(), want)
	}

	wrapped := fmt.Errorf("loading person: %w", err)
	if !errors.Is(wrapped, classdict.ErrValidation) || !errors.Is(wrapped, classdict.ErrClassDict) || errors.Is(wrapped, classdict.ErrRequiredField) {
		t.Fatalf("kinds should survive wrapping")
	}
	if _, ok := classdict.AsIssues(wrapped); !ok {
		t.Fatalf("AsIssues should see through wrapping")
	}
	if _, ok := classdict.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors are not Issues")
	}
	if !errors.Is(classdict.ErrRequiredField, classdict.ErrClassDict) || !errors.Is(classdict.ErrValidation, classdict.ErrClassDict) {
		t.Fatalf("kind sentinels must wrap ErrClassDict")
	}
}

func TestIssues_ErrorTruncates(t *testing.T) {
	var iss classdict.Issues
	for i := 0; i < 5; i++ {
		iss = classdict.AppendIssues(iss, classdict.Issue{Path: fmt.Sprintf("/%d", i), Code: classdict.CodeRequired, Message: "m"})
	}
	msg := iss.Error()
	if strings.Count(msg, "(required at") != 3 || !strings.HasSuffix(msg, "(total 5)") {
		t.Fatalf("unexpected summary %q", msg)
	}
	if classdict.Issues(nil).Error() != "" || errors.Is(classdict.Issues{}, classdict.ErrClassDict) {
		t.Fatalf("empty issues")
	}
}

func TestIssues_Localized(t *testing.T) {
	fx := newFixtures()
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	_, err := fx.rpc.New(classdict.Values{})
	iss := mustIssue(t, err, classdict.CodeRequired, "/args")
	if !strings.Contains(iss.Message, "args") || strings.Contains(iss.Message, "supplied") {
		t.Fatalf("expected japanese message, got %q", iss.Message)
	}
}
