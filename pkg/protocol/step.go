package protocol

import (
	"sort"

	"github.com/aretw0/weft/pkg/schema"
)

// DeriveFunc computes a dependent step's request schema from the validated
// response of the step it depends on. The callback is opaque: it cannot be
// inspected, serialized or statically analyzed.
type DeriveFunc func(priorResponse map[string]any) schema.Schema

// FieldMapping references a value inside a prior step's response.
// Path is a dot-separated chain of field names and may traverse nested
// objects (e.g. "user.id").
type FieldMapping struct {
	Step string `json:"step" yaml:"step"`
	Path string `json:"path" yaml:"path"`
}

// Step is implemented by all step variants.
type Step interface {
	// Name returns the unique step name within its protocol.
	Name() string
	// Description returns the optional human-readable description.
	Description() string
	// DependsOn returns the name of the step gating this one, or "" for
	// an independent step. Availability is decided by this value alone.
	DependsOn() string
	// ResponseSchema returns the contract the step's raw result is
	// validated against.
	ResponseSchema() schema.Schema
	// Dependencies returns every step this one reads from: the gate plus,
	// for mapped steps, each distinct mapping source. Deduplicated.
	Dependencies() []string
}

// IndependentStep has static request and response contracts and no
// dependency on any other step.
type IndependentStep struct {
	name        string
	description string
	request     schema.Schema
	response    schema.Schema
}

// NewStep creates an independent step.
func NewStep(name string, request, response schema.Schema) *IndependentStep {
	return &IndependentStep{name: name, request: request, response: response}
}

// WithDescription attaches a description and returns the step.
func (s *IndependentStep) WithDescription(d string) *IndependentStep {
	s.description = d
	return s
}

func (s *IndependentStep) Name() string                  { return s.name }
func (s *IndependentStep) Description() string           { return s.description }
func (s *IndependentStep) DependsOn() string             { return "" }
func (s *IndependentStep) RequestSchema() schema.Schema  { return s.request }
func (s *IndependentStep) ResponseSchema() schema.Schema { return s.response }
func (s *IndependentStep) Dependencies() []string        { return nil }

// DependentStep is gated on a prior step and derives its request contract
// from that step's response at execution time.
type DependentStep struct {
	name        string
	description string
	dependsOn   string
	derive      DeriveFunc
	response    schema.Schema
}

// NewDependentStep creates a dependent step.
func NewDependentStep(name, dependsOn string, derive DeriveFunc, response schema.Schema) *DependentStep {
	return &DependentStep{name: name, dependsOn: dependsOn, derive: derive, response: response}
}

// WithDescription attaches a description and returns the step.
func (s *DependentStep) WithDescription(d string) *DependentStep {
	s.description = d
	return s
}

func (s *DependentStep) Name() string                  { return s.name }
func (s *DependentStep) Description() string           { return s.description }
func (s *DependentStep) DependsOn() string             { return s.dependsOn }
func (s *DependentStep) ResponseSchema() schema.Schema { return s.response }

// DeriveRequest evaluates the derivation callback against the gate step's
// recorded response.
func (s *DependentStep) DeriveRequest(priorResponse map[string]any) schema.Schema {
	return s.derive(priorResponse)
}

func (s *DependentStep) Dependencies() []string {
	return []string{s.dependsOn}
}

// MappedStep is gated on a prior step and has a static request contract in
// which the listed fields must equal values recorded by earlier steps.
// Mapping sources are not restricted to the gate step, so a mapped step may
// introduce diamond-shaped dependencies.
type MappedStep struct {
	name        string
	description string
	dependsOn   string
	request     schema.Schema
	response    schema.Schema
	mapping     map[string]FieldMapping
}

// NewMappedStep creates a mapped step. The mapping may be nil for a step
// that is merely gated on a prior step without pinning any field.
func NewMappedStep(name, dependsOn string, request schema.Schema, mapping map[string]FieldMapping, response schema.Schema) *MappedStep {
	return &MappedStep{
		name:      name,
		dependsOn: dependsOn,
		request:   request,
		response:  response,
		mapping:   mapping,
	}
}

// WithDescription attaches a description and returns the step.
func (s *MappedStep) WithDescription(d string) *MappedStep {
	s.description = d
	return s
}

func (s *MappedStep) Name() string                  { return s.name }
func (s *MappedStep) Description() string           { return s.description }
func (s *MappedStep) DependsOn() string             { return s.dependsOn }
func (s *MappedStep) RequestSchema() schema.Schema  { return s.request }
func (s *MappedStep) ResponseSchema() schema.Schema { return s.response }

// Mapping returns the declared field mappings.
func (s *MappedStep) Mapping() map[string]FieldMapping { return s.mapping }

// Dependencies returns the gate step plus every distinct mapping source.
// Mapping sources are visited in sorted field order so the result is
// deterministic.
func (s *MappedStep) Dependencies() []string {
	deps := []string{s.dependsOn}
	seen := map[string]bool{s.dependsOn: true}

	for _, f := range sortedFields(s.mapping) {
		src := s.mapping[f].Step
		if !seen[src] {
			seen[src] = true
			deps = append(deps, src)
		}
	}
	return deps
}

// sortedFields returns the mapping's field names in sorted order.
func sortedFields(m map[string]FieldMapping) []string {
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// ResolveMapping navigates each mapping entry against the given recorded
// responses. A field whose source step has no recorded response, or whose
// path does not resolve, maps to schema.Unresolved; deriving a schema from
// such a value yields a pin that always fails validation. A source value of
// nil stays nil: the source recorded null and the pin requires null.
func (s *MappedStep) ResolveMapping(responses map[string]map[string]any) map[string]any {
	if len(s.mapping) == 0 {
		return nil
	}
	resolved := make(map[string]any, len(s.mapping))
	for field, m := range s.mapping {
		resolved[field] = schema.Unresolved
		if resp, ok := responses[m.Step]; ok {
			if v, ok := schema.GetPath(resp, m.Path); ok {
				resolved[field] = v
			}
		}
	}
	return resolved
}
