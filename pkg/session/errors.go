package session

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned by session stores when an ID is unknown.
var ErrSessionNotFound = errors.New("session not found")

// ErrStepNotFound is returned when an execution names an undeclared step.
var ErrStepNotFound = errors.New("step not found")

// AvailabilityError reports an execution attempt on a step whose gate has
// not run yet. The session is unchanged and no executor call was made.
type AvailabilityError struct {
	Step      string
	DependsOn string
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("step %q is not available: depends on %q which has not executed", e.Step, e.DependsOn)
}

// RequestValidationError reports a request that failed its resolved schema.
// The session is unchanged and no executor call was made. Unwrap exposes
// the schema error with its per-field paths.
type RequestValidationError struct {
	Step string
	Err  error
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("step %q request invalid: %s", e.Step, e.Err)
}

func (e *RequestValidationError) Unwrap() error { return e.Err }

// ResponseValidationError reports an executor result that failed the step's
// response schema. The session is unchanged, but the executor call has
// already happened and is not undone.
type ResponseValidationError struct {
	Step string
	Err  error
}

func (e *ResponseValidationError) Error() string {
	return fmt.Sprintf("step %q response invalid: %s", e.Step, e.Err)
}

func (e *ResponseValidationError) Unwrap() error { return e.Err }
