// Package compiler parses declarative protocol files into protocol values.
//
// The on-disk form is YAML and covers independent and mapped steps only: a
// dependent step carries an opaque Go derivation function, which has no
// declarative equivalent. A step declaring depends_on without a mapping
// becomes a mapped step with no pinned fields (gate-only).
package compiler

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/weft/pkg/protocol"
	"github.com/aretw0/weft/pkg/schema"
)

// fileSpec mirrors the top-level YAML document.
type fileSpec struct {
	Name        string     `mapstructure:"name"`
	Description string     `mapstructure:"description"`
	Initial     string     `mapstructure:"initial"`
	Terminal    []string   `mapstructure:"terminal"`
	Steps       []stepSpec `mapstructure:"steps"`
}

// stepSpec mirrors one step entry.
type stepSpec struct {
	Name        string                 `mapstructure:"name"`
	Description string                 `mapstructure:"description"`
	DependsOn   string                 `mapstructure:"depends_on"`
	Request     map[string]any         `mapstructure:"request"`
	Response    map[string]any         `mapstructure:"response"`
	Mapping     map[string]mappingSpec `mapstructure:"mapping"`
}

type mappingSpec struct {
	Step string `mapstructure:"step"`
	Path string `mapstructure:"path"`
}

// ParseFile reads and parses a protocol file.
func ParseFile(path string) (*protocol.Protocol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read protocol file: %w", err)
	}
	return Parse(data)
}

// Parse builds a protocol from YAML bytes. The result is structurally
// assembled but not validated; callers decide whether to fail fast via
// Validate.
func Parse(data []byte) (*protocol.Protocol, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse protocol file: %w", err)
	}

	var spec fileSpec
	if err := mapstructure.Decode(raw, &spec); err != nil {
		return nil, fmt.Errorf("decode protocol file: %w", err)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("protocol file missing name")
	}

	b := protocol.NewBuilder(spec.Name).Description(spec.Description)
	for _, ss := range spec.Steps {
		step, err := buildStep(ss)
		if err != nil {
			return nil, err
		}
		b.Add(step)
	}
	b.Initial(spec.Initial)
	b.Terminal(spec.Terminal...)

	return b.Build()
}

func buildStep(ss stepSpec) (protocol.Step, error) {
	if ss.Name == "" {
		return nil, fmt.Errorf("step missing name")
	}

	request, err := schema.ParseFieldMap(ss.Request)
	if err != nil {
		return nil, fmt.Errorf("step %q request: %w", ss.Name, err)
	}
	response, err := schema.ParseFieldMap(ss.Response)
	if err != nil {
		return nil, fmt.Errorf("step %q response: %w", ss.Name, err)
	}

	if ss.DependsOn == "" {
		if len(ss.Mapping) > 0 {
			return nil, fmt.Errorf("step %q declares a mapping but no depends_on", ss.Name)
		}
		return protocol.NewStep(ss.Name, request, response).WithDescription(ss.Description), nil
	}

	var mapping map[string]protocol.FieldMapping
	if len(ss.Mapping) > 0 {
		mapping = make(map[string]protocol.FieldMapping, len(ss.Mapping))
		for field, m := range ss.Mapping {
			if m.Step == "" || m.Path == "" {
				return nil, fmt.Errorf("step %q mapping %q: step and path are required", ss.Name, field)
			}
			mapping[field] = protocol.FieldMapping{Step: m.Step, Path: m.Path}
		}
	}
	return protocol.NewMappedStep(ss.Name, ss.DependsOn, request, mapping, response).WithDescription(ss.Description), nil
}
