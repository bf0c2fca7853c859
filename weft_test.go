package weft

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/weft/pkg/ports"
	"github.com/aretw0/weft/pkg/protocol"
	"github.com/aretw0/weft/pkg/registry"
	"github.com/aretw0/weft/pkg/schema"
	"github.com/aretw0/weft/pkg/session"
)

func authProtocol(t *testing.T) *protocol.Protocol {
	t.Helper()
	login := protocol.NewStep("login",
		schema.Schema{"username": schema.String(), "password": schema.String()},
		schema.Schema{"token": schema.String(), "userId": schema.String()},
	)
	profile := protocol.NewMappedStep("profile", "login",
		schema.Schema{"token": schema.String()},
		map[string]protocol.FieldMapping{
			"token": {Step: "login", Path: "token"},
		},
		schema.Schema{"name": schema.String()},
	)
	p, err := protocol.NewBuilder("auth").
		Add(login, profile).
		Initial("login").
		Terminal("profile").
		Build()
	require.NoError(t, err)
	return p
}

func authExecutor() *registry.Registry {
	reg := registry.New()
	reg.Register("login", func(ctx context.Context, request map[string]any, ec ports.ExecContext) (map[string]any, error) {
		return map[string]any{"token": "tok-1", "userId": "u-1"}, nil
	})
	reg.Register("profile", func(ctx context.Context, request map[string]any, ec ports.ExecContext) (map[string]any, error) {
		return map[string]any{"name": "Ada"}, nil
	})
	return reg
}

func TestNew_RejectsInvalidProtocol(t *testing.T) {
	bad := protocol.NewMappedStep("a", "ghost", schema.Schema{}, nil, schema.Schema{})
	p, err := protocol.NewBuilder("broken").Add(bad).Initial("a").Build()
	require.NoError(t, err)

	_, err = New(p, authExecutor())
	assert.ErrorContains(t, err, "invalid protocol")
}

func TestEngine_FullRun(t *testing.T) {
	eng, err := New(authProtocol(t), authExecutor())
	require.NoError(t, err)
	ctx := context.Background()

	sess := eng.NewSession()
	assert.Equal(t, []string{"login"}, sess.Available())

	resp, sess, err := eng.Execute(ctx, sess, "login", map[string]any{
		"username": "ada", "password": "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp["token"])

	// The pinned token from the login response is the only accepted value.
	_, _, err = eng.Execute(ctx, sess, "profile", map[string]any{"token": "forged"})
	var reqErr *session.RequestValidationError
	require.ErrorAs(t, err, &reqErr)

	_, sess, err = eng.Execute(ctx, sess, "profile", map[string]any{"token": "tok-1"})
	require.NoError(t, err)
	assert.True(t, sess.IsTerminal())
	assert.Equal(t, []string{"login", "profile"}, sess.History())
}

func TestEngine_HooksObserveRun(t *testing.T) {
	var completed []string
	hooks := ports.LifecycleHooks{
		OnStepComplete: func(ctx context.Context, ev *ports.StepEvent) {
			completed = append(completed, ev.Step)
		},
	}

	eng, err := New(authProtocol(t), authExecutor(), WithLifecycleHooks(hooks))
	require.NoError(t, err)

	_, _, err = eng.Execute(context.Background(), eng.NewSession(), "login", map[string]any{
		"username": "ada", "password": "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"login"}, completed)
}

func TestEngine_Interchange(t *testing.T) {
	eng, err := New(authProtocol(t), authExecutor())
	require.NoError(t, err)

	doc, err := eng.Interchange()
	require.NoError(t, err)
	assert.Equal(t, "auth", doc.Name)
	assert.Len(t, doc.Steps, 2)
}

func TestEngine_SnapshotRoundtrip(t *testing.T) {
	eng, err := New(authProtocol(t), authExecutor())
	require.NoError(t, err)
	ctx := context.Background()

	_, sess, err := eng.Execute(ctx, eng.NewSession(), "login", map[string]any{
		"username": "ada", "password": "pw",
	})
	require.NoError(t, err)

	// Park the session, rehydrate it, resume where it left off.
	restored, err := session.FromSnapshot(eng.Protocol(), sess.Snapshot())
	require.NoError(t, err)

	_, restored, err = eng.Execute(ctx, restored, "profile", map[string]any{"token": "tok-1"})
	require.NoError(t, err)
	assert.True(t, restored.IsTerminal())
}
