package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/weft/pkg/ports"
)

func TestRegistry(t *testing.T) {
	r := New()
	r.Register("echo", func(ctx context.Context, request map[string]any, ec ports.ExecContext) (map[string]any, error) {
		return map[string]any{"echo": request["payload"]}, nil
	})

	resp, err := r.ExecuteStep(context.Background(), "echo", map[string]any{"payload": "hi"}, ports.ExecContext{})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp["echo"])
}

func TestRegistry_UnregisteredStep(t *testing.T) {
	_, err := New().ExecuteStep(context.Background(), "ghost", nil, ports.ExecContext{})
	assert.ErrorContains(t, err, `no executor registered for step "ghost"`)
}

func TestRegistry_Overwrite(t *testing.T) {
	r := New()
	r.Register("step", func(ctx context.Context, request map[string]any, ec ports.ExecContext) (map[string]any, error) {
		return map[string]any{"version": 1}, nil
	})
	r.Register("step", func(ctx context.Context, request map[string]any, ec ports.ExecContext) (map[string]any, error) {
		return map[string]any{"version": 2}, nil
	})

	resp, err := r.ExecuteStep(context.Background(), "step", nil, ports.ExecContext{})
	require.NoError(t, err)
	assert.Equal(t, 2, resp["version"])
}

func TestRegistry_ExecContextPassedThrough(t *testing.T) {
	r := New()
	var seen ports.ExecContext
	r.Register("probe", func(ctx context.Context, request map[string]any, ec ports.ExecContext) (map[string]any, error) {
		seen = ec
		return map[string]any{}, nil
	})

	ec := ports.ExecContext{
		Protocol:  "p",
		History:   []string{"a"},
		Responses: map[string]map[string]any{"a": {"f": "v"}},
	}
	_, err := r.ExecuteStep(context.Background(), "probe", nil, ec)
	require.NoError(t, err)
	assert.Equal(t, ec, seen)
}
