package protocol

import (
	"fmt"
	"strings"
)

// Report is the outcome of Validate. It is a plain result, not an error:
// callers that need fail-fast behavior wrap it themselves.
type Report struct {
	Valid  bool
	Errors []string
}

// Err folds the report into a single error, or nil when valid.
func (r *Report) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("invalid protocol: %s", strings.Join(r.Errors, "; "))
}

// Validate checks the protocol's structural soundness. It never panics and
// collects every problem it finds:
//
//   - the initial step must name a declared step,
//   - every terminal name must name a declared step,
//   - every dependsOn and mapping source must name a declared step,
//   - the full dependency graph must be acyclic. The acyclicity check
//     covers mapping edges as well as dependsOn edges: a cycle closed
//     through a mapping means some pinned field can never resolve, so the
//     protocol is unsatisfiable at runtime even when its gates alone are
//     acyclic.
func (p *Protocol) Validate() *Report {
	var errs []string

	if p.initial == "" {
		errs = append(errs, "no initial step declared")
	} else if _, ok := p.steps[p.initial]; !ok {
		errs = append(errs, fmt.Sprintf("initial step %q is not declared", p.initial))
	}

	for _, t := range p.terminal {
		if _, ok := p.steps[t]; !ok {
			errs = append(errs, fmt.Sprintf("terminal step %q is not declared", t))
		}
	}

	for _, name := range p.order {
		step := p.steps[name]
		if gate := step.DependsOn(); gate != "" {
			if _, ok := p.steps[gate]; !ok {
				errs = append(errs, fmt.Sprintf("step %q depends on undeclared step %q", name, gate))
			}
		}
		if ms, ok := step.(*MappedStep); ok {
			for _, field := range sortedFields(ms.Mapping()) {
				src := ms.Mapping()[field].Step
				if _, ok := p.steps[src]; !ok {
					errs = append(errs, fmt.Sprintf("step %q maps field %q from undeclared step %q", name, field, src))
				}
			}
		}
	}

	if cycle := p.findCycle(); len(cycle) > 0 {
		errs = append(errs, fmt.Sprintf("dependency cycle detected: %s", strings.Join(cycle, " -> ")))
	}

	return &Report{Valid: len(errs) == 0, Errors: errs}
}

const (
	markUnvisited = iota
	markVisiting
	markVisited
)

// findCycle runs a depth-first traversal with visiting/visited marks over
// the full dependency graph (dependsOn plus mapping edges) and returns the
// first cycle found, as a step-name path ending where it started.
// Undeclared dependencies are skipped.
func (p *Protocol) findCycle() []string {
	marks := make(map[string]int, len(p.order))
	graph := p.DependencyGraph()

	var stack []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		switch marks[name] {
		case markVisited:
			return false
		case markVisiting:
			// Close the loop: slice the stack from the first occurrence.
			for i, s := range stack {
				if s == name {
					cycle = append(append(cycle, stack[i:]...), name)
					return true
				}
			}
			return true
		}
		marks[name] = markVisiting
		stack = append(stack, name)
		for _, dep := range graph[name] {
			if _, ok := p.steps[dep]; !ok {
				continue
			}
			if visit(dep) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		marks[name] = markVisited
		return false
	}

	for _, name := range p.order {
		if marks[name] == markUnvisited && visit(name) {
			return cycle
		}
	}
	return nil
}
