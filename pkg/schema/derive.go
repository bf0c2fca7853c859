package schema

// WithLiterals derives a new schema from base in which every field named in
// resolved is pinned to an exact-value constraint. Unlisted fields keep
// their original, looser type. The base schema is not modified.
//
// A resolved value of Unresolved produces a pin that always fails
// validation; this is how a mapping whose source step has not executed yet
// surfaces as a request-validation error rather than a silent pass. A value
// of nil is an ordinary pin: the source recorded null, and only null
// satisfies it.
func WithLiterals(base Schema, resolved map[string]any) Schema {
	derived := make(Schema, len(base))
	for name, t := range base {
		derived[name] = t
	}
	for name, value := range resolved {
		if value == Unresolved {
			derived[name] = UnresolvedLiteral()
			continue
		}
		derived[name] = Literal(value)
	}
	return derived
}
