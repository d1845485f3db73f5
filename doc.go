// Package classdict provides declarative schema types for structured objects:
//
// - A schema type is an ordered list of named Field descriptors (Schema)
// - Construction validates supplied values against the descriptors (Schema.New)
// - Instances convert to plain mappings (Object.ToDict) and back (Schema.FromDict)
// - Embedded objects, homogeneous lists and fixed-arity tuples nest freely
// - A stable error model via Issues (JSON Pointer, code, message)
//
// Design policy:
//   - Keep only public APIs in the root package; declaration builders live in dsl/.
//   - Descriptors are static metadata: a Rule (a closed variant of accepted
//     shapes) plus required-ness. Conversion dispatches on the Rule shape, never
//     on the runtime shape of a value.
//   - Every operation is fail-fast: the first failure is returned as an Issues
//     value matching ErrRequiredField or ErrValidation (both wrap ErrClassDict).
//
// Typical usage:
//
//	person := dsl.Object("Person").
//	    Field("name", dsl.String()).Required().
//	    Field("age", dsl.Int()).
//	    MustBuild()
//
//	bob, err := person.New(classdict.Values{"name": "Bob"})
//	m, err := bob.ToDict()            // map[name:Bob]
//	again, err := person.FromDict(m)  // again.Value("age") == nil
//
//	obj, err := classdict.ParseFrom(ctx, person, classdict.JSONBytes(data))
package classdict
