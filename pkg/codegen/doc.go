/*
Package codegen emits Go declarations for a validated protocol in which
every field constrained to equal a specific prior step's output carries a
provenance tag.

The tag mechanism is a phantom type parameter: the generated file declares
a generic wrapper

	type Tagged[T any, Origin any] struct { Value T }

plus one empty marker type per distinct (step, field path) origin. A field
pinned by a mapping is rendered as Tagged[base, marker], and the same
marker is used at the origin step's response field, so the compiler rejects
a structurally identical value with a different provenance.

Dependent steps get no request declaration: their request shape only
exists after evaluating the user-supplied derivation function against a
runtime value, which is outside static generation.
*/
package codegen
