package ports

import "context"

// ExecContext is the read-only view of the running session handed to the
// step executor alongside a validated request. History and the per-step
// response maps are copies; mutating them does not affect the session.
// Values nested inside a response (slices, inner maps) are shared with it
// and must not be modified.
type ExecContext struct {
	Protocol  string
	History   []string
	Responses map[string]map[string]any
}

// StepExecutor performs the actual effect of a step. It is the only
// boundary the engine calls into; it typically performs a network call but
// the engine is agnostic to that. The context is the caller's: the engine
// carries no cancellation or retry policy of its own, so both belong to
// the executor implementation or the caller.
type StepExecutor interface {
	ExecuteStep(ctx context.Context, step string, request map[string]any, ec ExecContext) (map[string]any, error)
}

// ExecutorFunc adapts a plain function to the StepExecutor interface.
type ExecutorFunc func(ctx context.Context, step string, request map[string]any, ec ExecContext) (map[string]any, error)

// ExecuteStep calls the function.
func (f ExecutorFunc) ExecuteStep(ctx context.Context, step string, request map[string]any, ec ExecContext) (map[string]any, error) {
	return f(ctx, step, request, ec)
}
