package classdict

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/classdict/internal/wire"
)

// ParseOpt bundles input limits for ParseFrom. Zero values disable a limit.
type ParseOpt struct {
	MaxBytes int64 // Reject inputs larger than this many bytes.
	MaxDepth int   // Reject documents nested deeper than this.
	// RejectDuplicateKeys fails JSON inputs that repeat a key within one
	// object instead of keeping the last member.
	RejectDuplicateKeys bool
}

// Source abstracts over the encodings a document can arrive in. Decode
// returns a JSON-like tree of map[string]any, []any and scalars.
type Source interface {
	Decode(ctx context.Context, opt ParseOpt) (any, error)
	Name() string
}

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return jsonSource{r: bytes.NewReader(b)} }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return jsonSource{r: r} }

// YAMLBytes wraps a byte slice as a YAML Source (first document only).
func YAMLBytes(b []byte) Source { return yamlSource{r: bytes.NewReader(b)} }

// YAMLReader wraps an io.Reader as a YAML Source (first document only).
func YAMLReader(r io.Reader) Source { return yamlSource{r: r} }

// MapSource wraps an already decoded mapping.
func MapSource(m map[string]any) Source { return mapSource{m: m} }

type jsonSource struct{ r io.Reader }

func (jsonSource) Name() string { return "json" }

func (s jsonSource) Decode(ctx context.Context, opt ParseOpt) (any, error) {
	data, err := readLimited(s.r, opt.MaxBytes)
	if err != nil {
		return nil, err
	}
	if opt.RejectDuplicateKeys {
		d, found, err := wire.FirstDuplicateKey(data)
		if err != nil {
			return nil, parseError(err)
		}
		if found {
			return nil, issueAt(d.Path, CodeDuplicateKey, map[string]string{"field": d.Key})
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, parseError(err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, parseError(fmt.Errorf("unexpected data after the top-level value"))
	}
	return v, nil
}

type yamlSource struct{ r io.Reader }

func (yamlSource) Name() string { return "yaml" }

func (s yamlSource) Decode(ctx context.Context, opt ParseOpt) (any, error) {
	data, err := readLimited(s.r, opt.MaxBytes)
	if err != nil {
		return nil, err
	}
	var v any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, parseError(fmt.Errorf("empty document"))
		}
		return nil, parseError(err)
	}
	return yamlNormalizeValue(v), nil
}

type mapSource struct{ m map[string]any }

func (mapSource) Name() string { return "map" }

func (s mapSource) Decode(context.Context, ParseOpt) (any, error) { return s.m, nil }

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, parseError(err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, parseError(err)
	}
	if int64(len(data)) > maxBytes {
		return nil, issueAt("/", CodeTruncated, map[string]string{"want": strconv.FormatInt(maxBytes, 10)})
	}
	return data, nil
}

func parseError(err error) Issues {
	iss := issueAt("/", CodeParseError, map[string]string{"detail": err.Error()})
	iss[0].Cause = err
	return iss
}

// ParseFrom decodes a document from src, normalizes wire numbers against the
// schema's rules and reconstructs an instance through Schema.FromDict.
func ParseFrom(ctx context.Context, s *Schema, src Source, opts ...ParseOpt) (*Object, error) {
	if s == nil {
		return nil, schemaError("/", "nil schema")
	}
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if err := ctx.Err(); err != nil {
		return nil, parseError(err)
	}
	v, err := src.Decode(ctx, opt)
	if err != nil {
		return nil, err
	}
	if opt.MaxDepth > 0 && depthOf(v) > opt.MaxDepth {
		return nil, issueAt("/", CodeTooDeep, map[string]string{"want": strconv.Itoa(opt.MaxDepth)})
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, issueAt("/", CodeInvalidType, map[string]string{"field": s.Name(), "got": typeName(v), "expected": "map"})
	}
	log.Debugf("parsing %s document into %s", src.Name(), s.Name())
	return s.FromDict(normalizeObject(s, m))
}

func depthOf(v any) int {
	switch t := v.(type) {
	case map[string]any:
		d := 0
		for _, e := range t {
			d = max(d, depthOf(e))
		}
		return d + 1
	case []any:
		d := 0
		for _, e := range t {
			d = max(d, depthOf(e))
		}
		return d + 1
	}
	return 0
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like map[string]any recursively.
func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalizeValue(t[i])
		}
		return arr
	default:
		return v
	}
}
