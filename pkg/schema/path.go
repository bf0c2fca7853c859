package schema

import (
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// GetPath walks a dot-separated path into a nested value.
// It returns (nil, false) as soon as any intermediate value is missing or
// not an indexable object; it never panics. Paths are plain field chains
// like "user.id"; each segment is a literal map key, so keys containing
// dashes or spaces resolve like any other.
func GetPath(obj map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	value, err := jsonpath.Get(bracketExpr(path), any(obj))
	if err != nil {
		return nil, false
	}
	return value, true
}

// bracketExpr builds a jsonpath expression addressing each dot-separated
// segment as a quoted literal key: "access-token.sub key" becomes
// $["access-token"]["sub key"]. Dot notation would reject any segment that
// is not a bare identifier.
func bracketExpr(path string) string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, seg := range strings.Split(path, ".") {
		sb.WriteString(`["`)
		sb.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg, `\`, `\\`), `"`, `\"`))
		sb.WriteString(`"]`)
	}
	return sb.String()
}

// TypeAtPath resolves the declared type at a dot path inside a schema,
// descending through Object fields. Returns false if any segment is not
// declared or a non-final segment is not an object.
func TypeAtPath(s Schema, path string) (Type, bool) {
	segments := strings.Split(path, ".")
	current := s
	for i, seg := range segments {
		t, ok := current[seg]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return t, true
		}
		obj, ok := t.(*ObjectType)
		if !ok {
			return nil, false
		}
		current = obj.fields
	}
	return nil, false
}
