package schemafile

import (
	"context"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/qri-io/jsonschema"
)

// metaSchema describes the shape of a declaration document. Type expressions
// are plain strings here and are checked by the expression parser.
const metaSchema = `{
  "title": "classdict declarations",
  "type": "object",
  "required": ["types"],
  "additionalProperties": false,
  "properties": {
    "types": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "fields"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_]*$"},
          "doc": {"type": "string"},
          "unknown": {"enum": ["ignore", "strict"]},
          "fields": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name", "type"],
              "additionalProperties": false,
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "type": {"type": "string", "minLength": 1},
                "required": {"type": "boolean"},
                "doc": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var meta = func() *jsonschema.Schema {
	s := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(metaSchema), s); err != nil {
		panic(errors.Wrap(err, "schemafile: reading meta schema failed"))
	}
	return s
}()

// validateShape checks a JSON-encoded declaration document against the meta
// schema and returns every violation.
func validateShape(ctx context.Context, doc []byte) error {
	keyErrs, err := meta.ValidateBytes(ctx, doc)
	if err != nil {
		return errors.Wrap(err, "schemafile: meta validation")
	}
	var result *multierror.Error
	for _, ke := range keyErrs {
		path := ke.PropertyPath
		if path == "" {
			path = "/"
		}
		result = multierror.Append(result, errors.Errorf("%s: %s", path, ke.Message))
	}
	return result.ErrorOrNil()
}
