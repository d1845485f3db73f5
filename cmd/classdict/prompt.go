package main

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/reoring/classdict"
	"github.com/spf13/cobra"
)

// prompter abstracts the terminal so the prompting flow can be tested
// without one.
type prompter interface {
	Input(message, help string, validate func(string) error) (string, error)
	Confirm(message string, def bool) (bool, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(message, help string, validate func(string) error) (string, error) {
	var out string
	q := &survey.Input{Message: message, Help: help}
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	if err := survey.AskOne(q, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Confirm(message string, def bool) (bool, error) {
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errors.New("prompt interrupted")
	}
	return errors.Wrap(err, "prompt failed")
}

func newPromptCommand(g *globals, p prompter) *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "prompt [options ...]",
		Short: "build an object interactively and print its mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := g.loadType(ctx, typeName)
			if err != nil {
				return err
			}
			blob, err := promptObject(p, s, "")
			if err != nil {
				return err
			}
			obj, err := classdict.ParseFrom(ctx, s, classdict.MapSource(blob))
			if err != nil {
				return reportIssues(cmd.ErrOrStderr(), err)
			}
			m, err := obj.ToDict()
			if err != nil {
				return reportIssues(cmd.ErrOrStderr(), err)
			}
			return writeJSON(cmd.OutOrStdout(), m)
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "schema type to build")
	return cmd
}

// promptObject asks for every field of s in declaration order and returns
// the mapping blob. Embedded objects are prompted field by field; other
// non-text values are entered as JSON.
func promptObject(p prompter, s *classdict.Schema, prefix string) (map[string]any, error) {
	m := make(map[string]any, s.Len())
	for name, f := range s.Members() {
		label := prefix + name
		r := f.Rule()
		if r.Shape() == classdict.ShapeEmbedded {
			if !f.Required() {
				ok, err := p.Confirm(fmt.Sprintf("set %s (%s)?", label, r), false)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
			}
			sub, err := promptObject(p, r.Schema(), label+".")
			if err != nil {
				return nil, err
			}
			m[name] = sub
			continue
		}
		msg := fmt.Sprintf("%s (%s)", label, r)
		if f.Required() {
			msg += " *"
		}
		raw, err := p.Input(msg, answerHelp(r), func(s string) error {
			_, err := parseAnswer(f, s)
			return err
		})
		if err != nil {
			return nil, err
		}
		v, err := parseAnswer(f, raw)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", label)
		}
		if v != nil {
			m[name] = v
		}
	}
	return m, nil
}

func onlyKind(r classdict.Rule, k classdict.ScalarKind) bool {
	kinds := r.Kinds()
	return r.Shape() == classdict.ShapeScalar && len(kinds) > 0 && !slices.ContainsFunc(kinds, func(x classdict.ScalarKind) bool { return x != k })
}

func answerHelp(r classdict.Rule) string {
	switch {
	case onlyKind(r, classdict.KindString):
		return "plain text"
	case onlyKind(r, classdict.KindBool):
		return "true or false"
	}
	return "a JSON value, for example 42, \"text\", [1, 2] or {\"k\": \"v\"}"
}

// parseAnswer turns the text typed for f into a blob value. An empty answer
// leaves optional fields unset.
func parseAnswer(f *classdict.Field, s string) (any, error) {
	if strings.TrimSpace(s) == "" {
		if f.Required() {
			return nil, errors.New("a value is required")
		}
		return nil, nil
	}
	r := f.Rule()
	switch {
	case onlyKind(r, classdict.KindString):
		return s, nil
	case onlyKind(r, classdict.KindBool):
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, errors.New("enter true or false")
		}
		return b, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		if kinds := r.Kinds(); r.Shape() == classdict.ShapeScalar && (len(kinds) == 0 || slices.Contains(kinds, classdict.KindString)) {
			return s, nil
		}
		return nil, errors.Wrap(err, "not a JSON value")
	}
	return v, nil
}
