package protocol

import "fmt"

// Protocol is an immutable container of steps. Build one through a Builder;
// once built it is never modified, so it is safe to share across sessions
// and goroutines.
type Protocol struct {
	name        string
	description string
	steps       map[string]Step
	order       []string // declaration order, drives deterministic iteration
	initial     string
	terminal    []string
}

// Name returns the protocol name.
func (p *Protocol) Name() string { return p.name }

// Description returns the optional protocol description.
func (p *Protocol) Description() string { return p.description }

// Initial returns the name of the declared initial step.
func (p *Protocol) Initial() string { return p.initial }

// Terminal returns the declared terminal step names in declaration order.
func (p *Protocol) Terminal() []string {
	out := make([]string, len(p.terminal))
	copy(out, p.terminal)
	return out
}

// IsTerminalStep reports whether name is declared terminal.
func (p *Protocol) IsTerminalStep(name string) bool {
	for _, t := range p.terminal {
		if t == name {
			return true
		}
	}
	return false
}

// Step returns the named step.
func (p *Protocol) Step(name string) (Step, bool) {
	s, ok := p.steps[name]
	return s, ok
}

// StepNames returns every step name in declaration order.
func (p *Protocol) StepNames() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Steps returns every step in declaration order.
func (p *Protocol) Steps() []Step {
	out := make([]Step, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.steps[name])
	}
	return out
}

// Builder assembles a Protocol. It mirrors the fluent style of graph
// builders: add steps, set the entry and terminal markers, then Build.
type Builder struct {
	proto *Protocol
	err   error
}

// NewBuilder creates a builder for a protocol with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		proto: &Protocol{
			name:  name,
			steps: make(map[string]Step),
		},
	}
}

// Description sets the protocol description.
func (b *Builder) Description(d string) *Builder {
	b.proto.description = d
	return b
}

// Add registers a step. Duplicate names are a build error.
func (b *Builder) Add(steps ...Step) *Builder {
	for _, s := range steps {
		if _, exists := b.proto.steps[s.Name()]; exists {
			if b.err == nil {
				b.err = fmt.Errorf("duplicate step %q", s.Name())
			}
			continue
		}
		b.proto.steps[s.Name()] = s
		b.proto.order = append(b.proto.order, s.Name())
	}
	return b
}

// Initial declares the entry step.
func (b *Builder) Initial(name string) *Builder {
	b.proto.initial = name
	return b
}

// Terminal declares one or more terminal steps.
func (b *Builder) Terminal(names ...string) *Builder {
	for _, n := range names {
		if !b.proto.IsTerminalStep(n) {
			b.proto.terminal = append(b.proto.terminal, n)
		}
	}
	return b
}

// Build returns the assembled protocol. Structural soundness (existing
// initial/terminal steps, dangling dependencies, cycles) is not checked
// here: run Validate on the result, which never panics and reports every
// problem it finds.
func (b *Builder) Build() (*Protocol, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.proto.order) == 0 {
		return nil, fmt.Errorf("protocol %q has no steps", b.proto.name)
	}
	return b.proto, nil
}
