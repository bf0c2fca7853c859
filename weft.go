package weft

import (
	"context"
	"log/slog"

	"github.com/aretw0/weft/internal/logging"
	"github.com/aretw0/weft/internal/runtime"
	"github.com/aretw0/weft/pkg/interchange"
	"github.com/aretw0/weft/pkg/ports"
	"github.com/aretw0/weft/pkg/protocol"
	"github.com/aretw0/weft/pkg/session"
)

// Engine is the high-level entry point for the weft library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	proto    *protocol.Protocol
	runtime  *runtime.Engine
	executor ports.StepExecutor
	hooks    ports.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks ports.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine for a protocol. The protocol is validated
// eagerly: a malformed one (dangling references, cycles, missing initial
// step) is refused here rather than surfacing mid-session.
func New(p *protocol.Protocol, executor ports.StepExecutor, opts ...Option) (*Engine, error) {
	eng := &Engine{
		proto:    p,
		executor: executor,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if report := p.Validate(); !report.Valid {
		return nil, report.Err()
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("protocol", p.Name())

	eng.runtime = runtime.NewEngine(
		eng.executor,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)
	return eng, nil
}

// Protocol returns the validated protocol this engine runs.
func (e *Engine) Protocol() *protocol.Protocol { return e.proto }

// NewSession creates an empty session for the protocol.
func (e *Engine) NewSession() *session.Session {
	return session.New(e.proto)
}

// Execute runs one step transition and returns the validated response plus
// the successor session. The given session is never modified: on failure it
// is returned unchanged, and on success it remains a valid checkpoint to
// fork from.
func (e *Engine) Execute(ctx context.Context, sess *session.Session, step string, request map[string]any) (map[string]any, *session.Session, error) {
	return e.runtime.Execute(ctx, sess, step, request)
}

// Interchange projects the protocol into its interchange document.
func (e *Engine) Interchange() (*interchange.Document, error) {
	return interchange.FromProtocol(e.proto)
}
