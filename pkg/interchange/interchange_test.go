package interchange

import (
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/weft/pkg/protocol"
	"github.com/aretw0/weft/pkg/schema"
)

func diamond(t *testing.T) *protocol.Protocol {
	t.Helper()
	a := protocol.NewStep("a", schema.Schema{}, schema.Schema{"f": schema.String()}).
		WithDescription("first leg")
	b := protocol.NewStep("b", schema.Schema{}, schema.Schema{"g": schema.String()})
	c := protocol.NewMappedStep("c", "b",
		schema.Schema{"x": schema.String()},
		map[string]protocol.FieldMapping{"x": {Step: "a", Path: "f"}},
		schema.Schema{"done": schema.Bool()},
	)
	p, err := protocol.NewBuilder("diamond").
		Add(a, b, c).
		Initial("a").
		Terminal("c").
		Build()
	require.NoError(t, err)
	return p
}

func TestFromProtocol(t *testing.T) {
	doc, err := FromProtocol(diamond(t))
	require.NoError(t, err)

	assert.Equal(t, "diamond", doc.Name)
	assert.Equal(t, "a", doc.Initial)
	assert.Equal(t, []string{"c"}, doc.Terminal)
	require.Len(t, doc.Steps, 3)

	byName := map[string]StepEntry{}
	for _, s := range doc.Steps {
		byName[s.Name] = s
	}

	// Declaration order preserved.
	assert.Equal(t, "a", doc.Steps[0].Name)
	assert.Equal(t, "b", doc.Steps[1].Name)
	assert.Equal(t, "c", doc.Steps[2].Name)

	// Reverse edges include mapping sources, not only the gate.
	assert.Equal(t, []string{"c"}, byName["a"].Next)
	assert.Equal(t, []string{"c"}, byName["b"].Next)
	assert.Empty(t, byName["c"].Next)
	assert.Equal(t, "b", byName["c"].DependsOn)
	assert.Equal(t, "first leg", byName["a"].Description)
}

func TestFromProtocol_OmitsEmptyFields(t *testing.T) {
	doc, err := FromProtocol(diamond(t))
	require.NoError(t, err)

	raw, err := json.Marshal(doc.Steps[1]) // b: no gate, no description
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"b","next":["c"]}`, string(raw))
}

func TestFromProtocol_InvalidProtocol(t *testing.T) {
	a := protocol.NewMappedStep("a", "ghost", schema.Schema{}, nil, schema.Schema{})
	p, err := protocol.NewBuilder("broken").Add(a).Initial("a").Build()
	require.NoError(t, err)

	_, err = FromProtocol(p)
	assert.ErrorContains(t, err, "cannot convert")
}

func TestAttach(t *testing.T) {
	spec := &openapi3.T{
		OpenAPI: "3.0.0",
		Info:    &openapi3.Info{Title: "diamond api", Version: "1"},
	}

	require.NoError(t, Attach(spec, diamond(t)))

	ext, ok := spec.Extensions[ExtensionKey].(*Document)
	require.True(t, ok)
	assert.Equal(t, "diamond", ext.Name)
}
