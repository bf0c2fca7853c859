package schema

import (
	"fmt"
	"sort"
)

// Validate checks if data conforms to the schema.
// It returns a *ValidationError carrying one FieldError per offending
// field path, or nil when everything conforms. An empty or nil schema
// validates anything.
func Validate(s Schema, data map[string]any) error {
	if len(s) == 0 {
		return nil
	}
	var fields []*FieldError
	validateInto(s, data, "", &fields)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validateInto walks the schema, accumulating failures with dot paths.
// Nested objects recurse here rather than through ObjectType.Validate so
// that paths stay rooted at the request/response top level.
func validateInto(s Schema, data map[string]any, prefix string, out *[]*FieldError) {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fieldType := s[name]
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		value, exists := data[name]
		if !exists {
			*out = append(*out, &FieldError{Path: path, Reason: "required"})
			continue
		}

		switch t := fieldType.(type) {
		case *ObjectType:
			obj, ok := value.(map[string]any)
			if !ok {
				*out = append(*out, &FieldError{Path: path, Reason: fmt.Sprintf("expected object, got %T", value), Value: value})
				continue
			}
			validateInto(t.fields, obj, path, out)
		default:
			if err := fieldType.Validate(value); err != nil {
				*out = append(*out, &FieldError{Path: path, Reason: err.Error(), Value: value})
			}
		}
	}
}

// ParseType converts a type-name string to a Type.
// Supports "string", "int", "float", "bool" and slice forms like "[string]".
func ParseType(typeStr string) (Type, error) {
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elem, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseFieldMap converts a map of field names to type declarations into a
// Schema. Values are either type-name strings or nested maps, which become
// Object types. This is the form protocol files on disk use.
//
// Example: {"token": "string", "user": {"id": "string"}}
func ParseFieldMap(fieldMap map[string]any) (Schema, error) {
	result := make(Schema, len(fieldMap))
	for name, decl := range fieldMap {
		t, err := parseFieldDecl(decl)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		result[name] = t
	}
	return result, nil
}

func parseFieldDecl(decl any) (Type, error) {
	switch d := decl.(type) {
	case string:
		return ParseType(d)
	case map[string]any:
		inner, err := ParseFieldMap(d)
		if err != nil {
			return nil, err
		}
		return Object(inner), nil
	default:
		return nil, fmt.Errorf("unsupported field declaration %T", decl)
	}
}
