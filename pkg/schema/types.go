package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// Schema is a map of field names to their expected types.
// Example: {"token": String(), "retries": Int(), "tags": Slice(String())}
type Schema map[string]Type

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float64:
		// JSON unmarshaling yields float64; accept whole numbers.
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// FloatType validates floating-point values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64:
		return nil
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elem Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elem.Name())
}

// Elem returns the element type of the slice.
func (t *SliceType) Elem() Type { return t.elem }

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// ObjectType validates nested maps against an inner field schema.
// Validation recurses, producing dot-separated paths in field errors.
type ObjectType struct {
	fields Schema
}

func (t *ObjectType) Name() string {
	names := make([]string, 0, len(t.fields))
	for k := range t.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("object{%s}", strings.Join(names, ","))
}

// Fields returns the inner field schema.
func (t *ObjectType) Fields() Schema { return t.fields }

func (t *ObjectType) Validate(value any) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", value)
	}
	var fields []*FieldError
	validateInto(t.fields, obj, "", &fields)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Unresolved marks a mapped field whose source value could not be
// resolved: the source step has not executed, or its response does not
// contain the mapped path. It is distinct from a source that legitimately
// recorded null.
var Unresolved any = unresolvedValue{}

type unresolvedValue struct{}

// LiteralType pins a field to an exact value taken from an earlier step.
// An unresolved pin always fails; a pin resolved to nil accepts exactly
// nil.
type LiteralType struct {
	want     any
	resolved bool
}

func (t *LiteralType) Name() string {
	if !t.resolved {
		return "literal(<unresolved>)"
	}
	return fmt.Sprintf("literal(%v)", t.want)
}

// Want returns the pinned value.
func (t *LiteralType) Want() any { return t.want }

// Resolved reports whether the pin carries an actual source value.
func (t *LiteralType) Resolved() bool { return t.resolved }

func (t *LiteralType) Validate(value any) error {
	if !t.resolved {
		return fmt.Errorf("mapped source value is unresolved (source step has not executed or path is absent)")
	}
	if !equalValues(t.want, value) {
		return fmt.Errorf("expected exact value %v, got %v", t.want, value)
	}
	return nil
}

// Variant is one alternative shape inside a OneOf type.
type Variant struct {
	Name   string
	Fields Schema
}

// OneOfType validates a value against a set of alternative object shapes.
// The value matches if any variant validates it.
type OneOfType struct {
	variants []Variant
}

func (t *OneOfType) Name() string {
	names := make([]string, 0, len(t.variants))
	for _, v := range t.variants {
		names = append(names, v.Name)
	}
	return fmt.Sprintf("oneof(%s)", strings.Join(names, "|"))
}

// Variants returns the alternatives in declaration order.
func (t *OneOfType) Variants() []Variant { return t.variants }

func (t *OneOfType) Validate(value any) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object (one of %s), got %T", t.Name(), value)
	}
	for _, v := range t.variants {
		var fields []*FieldError
		validateInto(v.Fields, obj, "", &fields)
		if len(fields) == 0 {
			return nil
		}
	}
	return fmt.Errorf("value matches no variant of %s", t.Name())
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elem Type) Type { return &SliceType{elem: elem} }

// Object creates a nested object validator with the given field schema.
func Object(fields Schema) Type { return &ObjectType{fields: fields} }

// Literal creates an exact-value validator. Literal(nil) pins the field to
// null; use UnresolvedLiteral for a pin with no source value.
func Literal(want any) Type { return &LiteralType{want: want, resolved: true} }

// UnresolvedLiteral creates a pin that fails every value, marking a mapped
// field whose source has not produced a value.
func UnresolvedLiteral() Type { return &LiteralType{} }

// OneOf creates a variant union validator.
func OneOf(variants ...Variant) Type { return &OneOfType{variants: variants} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// equalValues compares two values, tolerating the int/float64 split that
// JSON and YAML decoding introduce.
func equalValues(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	fa, aok := toFloat(a)
	fb, bok := toFloat(b)
	return aok && bok && fa == fb
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
