package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/reoring/classdict"
	"github.com/reoring/classdict/schemafile"
	"github.com/tidwall/gjson"
)

// loadRegistry compiles the configured schema file.
func (g *globals) loadRegistry(ctx context.Context) (*schemafile.Registry, error) {
	if g.cfg.Schema == "" {
		return nil, errors.New("--schema is required")
	}
	return schemafile.LoadFile(ctx, g.cfg.Schema)
}

// loadType compiles the schema file and looks up one type.
func (g *globals) loadType(ctx context.Context, name string) (*classdict.Schema, error) {
	if name == "" {
		return nil, errors.New("--type is required")
	}
	reg, err := g.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	s, ok := reg.Lookup(name)
	if !ok {
		return nil, errors.Errorf("type %s is not declared in %s (declared: %s)", name, g.cfg.Schema, strings.Join(reg.Names(), ", "))
	}
	return s, nil
}

func (g *globals) parseOpt(strict bool) classdict.ParseOpt {
	return classdict.ParseOpt{
		MaxBytes:            g.cfg.MaxBytes,
		MaxDepth:            g.cfg.MaxDepth,
		RejectDuplicateKeys: strict,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// openDocument returns a Source for path ("-" reads JSON from stdin). A
// non-empty selector narrows the document to the gjson path first.
func openDocument(ctx context.Context, path, selector string, stdin io.Reader) (classdict.Source, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read document")
	}
	if selector == "" {
		if isYAML(path) {
			return classdict.YAMLBytes(data), nil
		}
		return classdict.JSONBytes(data), nil
	}
	if isYAML(path) {
		tree, err := classdict.YAMLBytes(data).Decode(ctx, classdict.ParseOpt{})
		if err != nil {
			return nil, err
		}
		if data, err = json.Marshal(tree); err != nil {
			return nil, errors.Wrap(err, "failed to convert YAML document")
		}
	}
	return selectJSON(data, selector)
}

func selectJSON(data []byte, selector string) (classdict.Source, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("document is not valid JSON")
	}
	res := gjson.GetBytes(data, selector)
	if !res.Exists() {
		return nil, errors.Errorf("selector %q matches nothing", selector)
	}
	log.Debugf("selected %s: %d bytes", selector, len(res.Raw))
	return classdict.JSONBytes([]byte(res.Raw)), nil
}

// strictCopy returns a schema with the same fields that rejects unknown keys
// at the top level.
func strictCopy(s *classdict.Schema) (*classdict.Schema, error) {
	fields := make([]classdict.NamedField, 0, s.Len())
	for name, f := range s.Members() {
		fields = append(fields, classdict.NamedField{Name: name, Field: classdict.NewField(f.Rule(), f.Required())})
	}
	return classdict.NewSchema(s.Name(), fields, classdict.WithUnknownPolicy(classdict.UnknownStrict))
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// reportIssues prints every issue of err in red and returns an error that
// only summarizes the failure.
func reportIssues(w io.Writer, err error) error {
	iss, ok := classdict.AsIssues(err)
	if !ok {
		return err
	}
	red := color.New(color.FgRed)
	for _, it := range iss {
		red.Fprintf(w, "%s: %s (%s)\n", it.Path, it.Message, it.Code)
	}
	switch {
	case classdict.IsRequiredField(err):
		return errors.New("required field missing")
	case classdict.IsValidation(err):
		return errors.New("validation failed")
	}
	return errors.New("document rejected")
}

func success(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, format+"\n", args...)
}
