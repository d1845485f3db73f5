// Package dsl provides the declaration DSL for classdict schema types.
//
// Overview
//   - Builder API: declare a schema type with Object(name).Field(...).Required()...MustBuild().
//   - Types: Any()/String()/Int()/Float()/Number()/Bool()/Map()/Slice() scalars,
//     OneOf(...) for a union of scalar kinds, Embedded(schema), List(elem), Tuple(items...).
//   - Unknown keys: UnknownIgnore() (default, forward compatible) or UnknownStrict().
//
// Entry points
//   - Object(name): create an object builder; chain Field/Required/Optional/Unknown* then Build()/MustBuild().
//   - Embedded(s): nest another schema type.
//   - List(elem)/Tuple(items...): homogeneous lists and fixed-arity tuples.
//
// File layout (roles)
//   - types.go: Type and the rule constructors.
//   - object_builder.go: objectBuilder/fieldStep and Build/MustBuild.
//
// Declaration mistakes (an empty Tuple, OneOf over non-scalar types, a nil
// embedded schema, duplicate or reserved field names) are reported by Build
// as a classdict.ErrClassDict failure with code "schema".
//
// Example (quickstart)
//
//	person := dsl.Object("Person").
//	    Field("name", dsl.String()).Required().
//	    Field("age", dsl.Int()).
//	    MustBuild()
//
//	tag := dsl.Object("BusinessTag").Field("name", dsl.String()).MustBuild()
//
//	business := dsl.Object("Business").
//	    Field("anything", dsl.Any()).
//	    Field("typed_tags", dsl.List(dsl.Embedded(tag))).
//	    Field("years_existed", dsl.Any()).Required().
//	    Field("owner", dsl.Embedded(person)).Required().
//	    MustBuild()
//
//	rpc := dsl.Object("RpcMethod").
//	    Field("args", dsl.Tuple(dsl.Embedded(person), dsl.Embedded(business))).Required().
//	    MustBuild()
package dsl
