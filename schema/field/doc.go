// Package field describes the columns of a record type.
//
// A field is a name, a Type from the closed registry and a set of
// Modifiers:
//
//	d := field.Descriptor{
//		Name: "author_id",
//		Type: field.TypeForeign,
//		Modifiers: field.Modifiers{
//			field.OnDelete: field.StringValue("cascade"),
//		},
//	}
//
// # Field Types
//
// Every Type carries the spellings used by the generators:
//
//	field.TypeInteger.String()      // "integer", as written in field-specs
//	field.TypeInteger.Builder()     // "Integer", the migrate.Table method
//	field.TypeInteger.GoType()      // "int"
//	field.TypeInteger.TSType()      // "number"
//	field.TypeInteger.GraphQLType() // "Int"
//
// Lookup matches type names case-insensitively:
//
//	t, ok := field.Lookup("bigInteger")
//
// # Modifiers
//
// Modifiers are either flags (nullable, index, unique, constrained) or
// carry a raw argument (default, on, onDelete, onUpdate, min, max,
// values). Keys returns them in the canonical order used when a field is
// rendered back into a field-spec.
//
// # Validation
//
// Rules derives the validation rules written into generated handlers:
//
//	field.RuleString(d) // "required|integer|min:18"
package field
