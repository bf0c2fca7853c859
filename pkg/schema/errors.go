package schema

import "fmt"

// FieldError represents a single field validation failure.
type FieldError struct {
	Path   string // Dot-separated field path (e.g. "user.id")
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", e.Path, e.Reason, e.Value)
}

// ValidationError aggregates every field failure found in one pass.
type ValidationError struct {
	Fields []*FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return e.Fields[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Fields))
	for i, fe := range e.Fields {
		msg += fmt.Sprintf("  %d. %s\n", i+1, fe.Error())
	}
	return msg
}

// Fields returns the per-field failures if err is a *ValidationError.
// Otherwise returns nil.
func Fields(err error) []*FieldError {
	if ve, ok := err.(*ValidationError); ok {
		return ve.Fields
	}
	return nil
}
