package session

import (
	"fmt"

	"github.com/aretw0/weft/pkg/protocol"
)

// Snapshot is the serializable projection of a session: responses and
// history only. The protocol itself is not serialized; rehydration takes a
// protocol value and checks the snapshot against it.
type Snapshot struct {
	Protocol  string                    `json:"protocol"`
	Responses map[string]map[string]any `json:"responses,omitempty"`
	History   []string                  `json:"history,omitempty"`
}

// Snapshot returns a serializable copy of the session state.
func (s *Session) Snapshot() *Snapshot {
	return &Snapshot{
		Protocol:  s.proto.Name(),
		Responses: s.Responses(),
		History:   s.History(),
	}
}

// FromSnapshot rehydrates a session against a protocol. The snapshot must
// have been taken from a protocol with the same name, and every recorded
// step must still be declared.
func FromSnapshot(p *protocol.Protocol, snap *Snapshot) (*Session, error) {
	if snap.Protocol != p.Name() {
		return nil, fmt.Errorf("snapshot belongs to protocol %q, not %q", snap.Protocol, p.Name())
	}
	s := New(p)
	for step, resp := range snap.Responses {
		if _, ok := p.Step(step); !ok {
			return nil, fmt.Errorf("snapshot records undeclared step %q", step)
		}
		s.responses[step] = resp
	}
	for _, step := range snap.History {
		if _, ok := p.Step(step); !ok {
			return nil, fmt.Errorf("snapshot history names undeclared step %q", step)
		}
	}
	s.history = append(s.history, snap.History...)
	return s, nil
}
