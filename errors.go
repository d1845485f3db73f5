package classdict

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/classdict/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Required-field violations.
	CodeRequired = "required"
	// Validation violations.
	CodeInvalidType    = "invalid_type"
	CodeInvalidElement = "invalid_element"
	CodeNotList        = "not_list"
	CodeNotSequence    = "not_sequence"
	CodeArity          = "arity"
	CodeUnknownKey     = "unknown_key"
	// Generic library failures (schema misuse, input decoding).
	CodeSchema         = "schema"
	CodeSchemaMismatch = "schema_mismatch"
	CodeParseError     = "parse_error"
	CodeTooDeep        = "too_deep"
	CodeTruncated      = "truncated"
	CodeDuplicateKey   = "duplicate_key"
)

// Error kinds. Every Issues value matches ErrClassDict; required-field and
// validation failures additionally match ErrRequiredField or ErrValidation.
//
//	if errors.Is(err, classdict.ErrRequiredField) { ... }
var (
	ErrClassDict     = errors.New("classdict: error")
	ErrRequiredField = fmt.Errorf("%w: required field", ErrClassDict)
	ErrValidation    = fmt.Errorf("%w: validation", ErrClassDict)
)

// Issue represents a single failure.
type Issue struct {
	Path    string // JSON Pointer (for example: /typed_tags/1).
	Code    string // One of the codes listed above.
	Message string
	// Params carries the structured values the message was rendered from
	// (field, got, expected, index, want).
	Params map[string]any
	Cause  error // Optional: underlying error.
}

// Issues is a collection of failures that implements error. Operations in
// this package are fail-fast and return exactly one Issue.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. field age got value of unexpected type string, expected: int (invalid_type at /age)
		fmt.Fprintf(b, "%s (%s at %s)", it.Message, it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is maps issue codes onto the error kinds so errors.Is works on Issues.
func (iss Issues) Is(target error) bool {
	if len(iss) == 0 {
		return false
	}
	switch target {
	case ErrClassDict:
		return true
	case ErrRequiredField:
		return iss[0].Code == CodeRequired
	case ErrValidation:
		return isValidationCode(iss[0].Code)
	}
	return false
}

// Unwrap exposes the causes of the issues to errors.Is/As.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

func isValidationCode(code string) bool {
	switch code {
	case CodeInvalidType, CodeInvalidElement, CodeNotList, CodeNotSequence, CodeArity, CodeUnknownKey:
		return true
	}
	return false
}

// IsRequiredField reports whether err is a required-field violation.
func IsRequiredField(err error) bool { return errors.Is(err, ErrRequiredField) }

// IsValidation reports whether err is a type/shape validation violation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// issueAt renders the message for code through i18n and keeps the raw values
// as Params.
func issueAt(path, code string, data map[string]string) Issues {
	params := make(map[string]any, len(data))
	for k, v := range data {
		params[k] = v
	}
	return Issues{Issue{Path: path, Code: code, Message: i18n.T(code, data), Params: params}}
}

// schemaError reports a misuse of the declaration API.
func schemaError(path, detail string) Issues {
	return issueAt(path, CodeSchema, map[string]string{"detail": detail})
}

// rebase prefixes the paths of a nested failure with the path of the field
// that holds the nested value.
func rebase(err error, base string) error {
	if base == "" {
		return err
	}
	iss, ok := AsIssues(err)
	if !ok {
		return Issues{Issue{Path: base, Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// SchemaError returns a generic library failure (CodeSchema) for misuse of
// the declaration API at path.
func SchemaError(path, detail string) error { return schemaError(path, detail) }
