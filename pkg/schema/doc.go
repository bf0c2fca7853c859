// Package schema provides the type system used to validate step requests
// and responses.
//
// A Schema maps field names to types. Types cover the primitives (string,
// int, float, bool), slices, nested objects, variant unions and exact-value
// literals. Literal types are what pin a mapped field to the value recorded
// by an earlier step: deriving a schema with WithLiterals replaces the
// listed fields with "must equal V" constraints while leaving the rest of
// the schema untouched.
//
// Basic usage:
//
//	s := schema.Schema{
//	    "token":  schema.String(),
//	    "fields": schema.Slice(schema.String()),
//	}
//
//	if err := schema.Validate(s, payload); err != nil {
//	    for _, fe := range schema.Fields(err) {
//	        // fe.Path, fe.Reason
//	    }
//	}
//
// Schemas can also be parsed from plain type-name maps (the form used by
// protocol files on disk):
//
//	s, err := schema.ParseFieldMap(map[string]any{
//	    "token":  "string",
//	    "fields": "[string]",
//	    "user":   map[string]any{"id": "string"},
//	})
package schema
