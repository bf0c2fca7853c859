// Package registry assembles a step executor from per-step functions.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/weft/pkg/ports"
)

// StepFunc implements the effect of a single step.
type StepFunc func(ctx context.Context, request map[string]any, ec ports.ExecContext) (map[string]any, error)

// Registry maps step names to their implementations and satisfies
// ports.StepExecutor. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]StepFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		steps: make(map[string]StepFunc),
	}
}

// Register adds a step implementation.
// If one with the same name exists, it is overwritten.
func (r *Registry) Register(step string, fn StepFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[step] = fn
}

// ExecuteStep looks up the step implementation and runs it.
// Returns an error if no implementation is registered.
func (r *Registry) ExecuteStep(ctx context.Context, step string, request map[string]any, ec ports.ExecContext) (map[string]any, error) {
	r.mu.RLock()
	fn, ok := r.steps[step]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no executor registered for step %q", step)
	}
	return fn(ctx, request, ec)
}
