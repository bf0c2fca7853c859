package schema

// ZeroValue synthesizes a value that conforms to the schema, using the
// zero value of each field's type. Useful for stub executors and dry runs.
func ZeroValue(s Schema) map[string]any {
	out := make(map[string]any, len(s))
	for name, t := range s {
		out[name] = zeroFor(t)
	}
	return out
}

func zeroFor(t Type) any {
	switch tt := t.(type) {
	case *StringType:
		return ""
	case *IntType:
		return 0
	case *FloatType:
		return 0.0
	case *BoolType:
		return false
	case *SliceType:
		return []any{}
	case *ObjectType:
		return ZeroValue(tt.fields)
	case *OneOfType:
		if len(tt.variants) > 0 {
			return ZeroValue(tt.variants[0].Fields)
		}
		return map[string]any{}
	case *LiteralType:
		return tt.want
	default:
		return nil
	}
}
