package session

import (
	"github.com/aretw0/weft/pkg/protocol"
)

// Session is the immutable state of a protocol run: the most recent
// validated response per executed step, plus the ordered execution history.
// A step may appear several times in the history; Responses keeps only its
// latest validated response.
type Session struct {
	proto     *protocol.Protocol
	responses map[string]map[string]any
	history   []string
}

// New creates an empty session for the given protocol.
func New(p *protocol.Protocol) *Session {
	return &Session{
		proto:     p,
		responses: make(map[string]map[string]any),
	}
}

// Protocol returns the protocol this session runs.
func (s *Session) Protocol() *protocol.Protocol { return s.proto }

// Response returns the most recent validated response of a step.
func (s *Session) Response(step string) (map[string]any, bool) {
	r, ok := s.responses[step]
	return r, ok
}

// Responses returns a copy of the step-name to validated-response map.
// The per-step maps are copied too, so a caller (or an executor handed
// these through ExecContext) mutating an entry cannot corrupt the session.
// Values nested deeper than one level are still shared.
func (s *Session) Responses() map[string]map[string]any {
	out := make(map[string]map[string]any, len(s.responses))
	for k, v := range s.responses {
		resp := make(map[string]any, len(v))
		for field, value := range v {
			resp[field] = value
		}
		out[k] = resp
	}
	return out
}

// History returns a copy of the ordered list of executed step names.
func (s *Session) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// CanExecute reports whether a step is currently available: independent
// steps always are, dependent and mapped steps require their gate step to
// have a recorded response. Mapping sources other than the gate are NOT
// consulted here; a mapped step can be available yet still fail request
// validation when a diamond-mapped source has not run.
func (s *Session) CanExecute(stepName string) bool {
	step, ok := s.proto.Step(stepName)
	if !ok {
		return false
	}
	gate := step.DependsOn()
	if gate == "" {
		return true
	}
	_, done := s.responses[gate]
	return done
}

// Available filters the protocol's steps by CanExecute, in declaration
// order.
func (s *Session) Available() []string {
	var out []string
	for _, name := range s.proto.StepNames() {
		if s.CanExecute(name) {
			out = append(out, name)
		}
	}
	return out
}

// IsTerminal reports whether the last executed step is one of the
// protocol's declared terminal steps. An empty session is never terminal.
func (s *Session) IsTerminal() bool {
	if len(s.history) == 0 {
		return false
	}
	return s.proto.IsTerminalStep(s.history[len(s.history)-1])
}

// With allocates the successor session that records a validated response
// for a step. The receiver is not modified. This is normally called by the
// engine after response validation; hosts rehydrating persisted snapshots
// use FromSnapshot instead.
func (s *Session) With(stepName string, response map[string]any) *Session {
	next := &Session{
		proto:     s.proto,
		responses: make(map[string]map[string]any, len(s.responses)+1),
		history:   make([]string, 0, len(s.history)+1),
	}
	for k, v := range s.responses {
		next.responses[k] = v
	}
	next.responses[stepName] = response
	next.history = append(next.history, s.history...)
	next.history = append(next.history, stepName)
	return next
}
