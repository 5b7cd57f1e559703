// Package schema provides a typed record system for nested game data.
//
// A record type is described once, at startup, by an ordered list of fields.
// Each field has a name, a type descriptor and optionally a default:
//
//	var Ability = schema.MustDefine("Ability", []schema.Field{
//	    schema.Required("name", schema.String()),
//	    schema.Required("effects", schema.Seq(schema.String())),
//	})
//
//	var Piece = schema.MustDefine("Piece", []schema.Field{
//	    schema.Required("kind", schema.String()),
//	    schema.Required("abilities", schema.Seq(schema.Ref(Ability))),
//	})
//
// Descriptors form a closed set: primitives (Bool, Int, Float, String, Null),
// Ref to another record, first-match Union, Seq, fixed-arity Tuple, Map and
// SetOf, plus Any for untyped data.
//
// Four operations are built on them:
//
//	schema.Matches(v, t)        structural check of a wire value
//	record.Construct(pos, named) build an instance from arguments
//	schema.Load(v, t)           wire value -> typed value
//	schema.Dump(v)              typed value -> wire value
//
// Load succeeds exactly when Matches does, and Load(Dump(x)) equals x for any
// instance built with every field supplied.
//
// Type strings give the same descriptors a textual form, used by record field
// tables:
//
//	t, err := schema.ParseType("{string:[Ability]}", registry)
package schema
