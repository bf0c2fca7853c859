// Package interchange projects a validated protocol into a plain step-graph
// description suitable for embedding in external documentation artifacts,
// such as an OpenAPI document's extension fields.
package interchange

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/weft/pkg/protocol"
)

// ExtensionKey is the OpenAPI extension field the document is attached
// under.
const ExtensionKey = "x-protocol-flow"

// StepEntry describes one step in the interchange document. Empty fields
// are omitted entirely to keep the output minimal and diff-friendly.
type StepEntry struct {
	Name        string   `json:"name" yaml:"name"`
	DependsOn   string   `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	Next        []string `json:"next,omitempty" yaml:"next,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Document is the protocol-level interchange output.
type Document struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Initial     string      `json:"initial" yaml:"initial"`
	Terminal    []string    `json:"terminal,omitempty" yaml:"terminal,omitempty"`
	Steps       []StepEntry `json:"steps" yaml:"steps"`
}

// FromProtocol converts a protocol into its interchange document. The
// protocol is validated first; an invalid protocol is never silently
// converted.
func FromProtocol(p *protocol.Protocol) (*Document, error) {
	if report := p.Validate(); !report.Valid {
		return nil, fmt.Errorf("cannot convert: %w", report.Err())
	}

	// Reverse dependency edges: every step whose dependency set includes
	// this step contributes a "next" entry, in declaration order.
	next := make(map[string][]string)
	for _, name := range p.StepNames() {
		step, _ := p.Step(name)
		for _, dep := range step.Dependencies() {
			next[dep] = append(next[dep], name)
		}
	}

	doc := &Document{
		Name:        p.Name(),
		Description: p.Description(),
		Initial:     p.Initial(),
		Terminal:    p.Terminal(),
	}
	for _, name := range p.StepNames() {
		step, _ := p.Step(name)
		doc.Steps = append(doc.Steps, StepEntry{
			Name:        name,
			DependsOn:   step.DependsOn(),
			Next:        next[name],
			Description: step.Description(),
		})
	}
	return doc, nil
}

// Attach embeds the protocol's interchange document into an OpenAPI
// document under ExtensionKey.
func Attach(doc *openapi3.T, p *protocol.Protocol) error {
	ic, err := FromProtocol(p)
	if err != nil {
		return err
	}
	if doc.Extensions == nil {
		doc.Extensions = make(map[string]any)
	}
	doc.Extensions[ExtensionKey] = ic
	return nil
}
