package ports

import (
	"context"
	"time"
)

// StepEvent describes one engine-observed moment of a step execution.
type StepEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Protocol  string         `json:"protocol"`
	Step      string         `json:"step"`
	Request   map[string]any `json:"request,omitempty"`
	Response  map[string]any `json:"response,omitempty"`
	Err       error          `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability. Nil callbacks
// are skipped. Hooks run synchronously on the executing goroutine; keep
// them fast or hand off.
type LifecycleHooks struct {
	OnStepStart    func(context.Context, *StepEvent)
	OnStepComplete func(context.Context, *StepEvent)
	OnStepError    func(context.Context, *StepEvent)
}
