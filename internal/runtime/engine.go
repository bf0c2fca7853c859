// Package runtime implements the dependency-gated session execution
// engine. It is wrapped by the root weft package, which is the public
// entry point.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/weft/internal/logging"
	"github.com/aretw0/weft/pkg/ports"
	"github.com/aretw0/weft/pkg/protocol"
	"github.com/aretw0/weft/pkg/schema"
	"github.com/aretw0/weft/pkg/session"
)

// Engine executes protocol steps against immutable sessions. It holds the
// step executor, hooks and logger but no session state of its own, so one
// engine serves any number of concurrent session chains.
type Engine struct {
	executor ports.StepExecutor
	hooks    ports.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks ports.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine around a step executor.
func NewEngine(executor ports.StepExecutor, opts ...EngineOption) *Engine {
	e := &Engine{
		executor: executor,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one step transition:
//
//  1. availability gate (dependsOn recorded?),
//  2. request-schema resolution per step variant,
//  3. request validation,
//  4. executor call (the single suspension point),
//  5. response validation,
//  6. successor session allocation.
//
// On any failure the original session is returned unchanged; the executor
// side effect of a response-validation failure is not undone. The engine
// never retries: re-invoking Execute on the same session is always safe
// because a failed attempt mutated nothing.
func (e *Engine) Execute(ctx context.Context, sess *session.Session, stepName string, request map[string]any) (map[string]any, *session.Session, error) {
	proto := sess.Protocol()
	step, ok := proto.Step(stepName)
	if !ok {
		return nil, sess, fmt.Errorf("%w: %q", session.ErrStepNotFound, stepName)
	}

	if !sess.CanExecute(stepName) {
		e.logger.Debug("step not available", "step", stepName, "depends_on", step.DependsOn())
		return nil, sess, &session.AvailabilityError{Step: stepName, DependsOn: step.DependsOn()}
	}

	requestSchema, err := e.resolveRequestSchema(sess, step)
	if err != nil {
		return nil, sess, err
	}

	if err := schema.Validate(requestSchema, request); err != nil {
		e.logger.Debug("request validation failed", "step", stepName, "err", err)
		return nil, sess, &session.RequestValidationError{Step: stepName, Err: err}
	}

	e.emitStart(ctx, proto.Name(), stepName, request)

	response, err := e.executor.ExecuteStep(ctx, stepName, request, ports.ExecContext{
		Protocol:  proto.Name(),
		History:   sess.History(),
		Responses: sess.Responses(),
	})
	if err != nil {
		// Propagated verbatim: recovery policy belongs to the caller.
		e.emitError(ctx, proto.Name(), stepName, err)
		return nil, sess, err
	}

	if err := schema.Validate(step.ResponseSchema(), response); err != nil {
		// The executor side effect has already happened at this point.
		e.logger.Warn("response validation failed after executor call", "step", stepName, "err", err)
		verr := &session.ResponseValidationError{Step: stepName, Err: err}
		e.emitError(ctx, proto.Name(), stepName, verr)
		return nil, sess, verr
	}

	next := sess.With(stepName, response)
	e.emitComplete(ctx, proto.Name(), stepName, response)
	e.logger.Debug("step executed", "step", stepName, "history_len", len(next.History()))

	return response, next, nil
}

// resolveRequestSchema picks the request-validation schema for this
// transition. The availability gate has already passed, so a dependent
// step's prior response is guaranteed to exist.
func (e *Engine) resolveRequestSchema(sess *session.Session, step protocol.Step) (schema.Schema, error) {
	switch s := step.(type) {
	case *protocol.IndependentStep:
		return s.RequestSchema(), nil
	case *protocol.DependentStep:
		prior, ok := sess.Response(s.DependsOn())
		if !ok {
			return nil, &session.AvailabilityError{Step: s.Name(), DependsOn: s.DependsOn()}
		}
		return s.DeriveRequest(prior), nil
	case *protocol.MappedStep:
		return schema.WithLiterals(s.RequestSchema(), s.ResolveMapping(sess.Responses())), nil
	default:
		return nil, fmt.Errorf("unknown step variant %T", step)
	}
}

func (e *Engine) emitStart(ctx context.Context, proto, step string, request map[string]any) {
	if e.hooks.OnStepStart == nil {
		return
	}
	e.hooks.OnStepStart(ctx, &ports.StepEvent{
		Timestamp: time.Now(),
		Protocol:  proto,
		Step:      step,
		Request:   request,
	})
}

func (e *Engine) emitComplete(ctx context.Context, proto, step string, response map[string]any) {
	if e.hooks.OnStepComplete == nil {
		return
	}
	e.hooks.OnStepComplete(ctx, &ports.StepEvent{
		Timestamp: time.Now(),
		Protocol:  proto,
		Step:      step,
		Response:  response,
	})
}

func (e *Engine) emitError(ctx context.Context, proto, step string, err error) {
	if e.hooks.OnStepError == nil {
		return
	}
	e.hooks.OnStepError(ctx, &ports.StepEvent{
		Timestamp: time.Now(),
		Protocol:  proto,
		Step:      step,
		Err:       err,
	})
}
