package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/weft/pkg/protocol"
	"github.com/aretw0/weft/pkg/schema"
)

func authProtocol(t *testing.T) *protocol.Protocol {
	t.Helper()
	login := protocol.NewStep("login",
		schema.Schema{"username": schema.String()},
		schema.Schema{"token": schema.String(), "userId": schema.String()},
	)
	profile := protocol.NewMappedStep("profile", "login",
		schema.Schema{"token": schema.String()},
		map[string]protocol.FieldMapping{
			"token": {Step: "login", Path: "token"},
		},
		schema.Schema{"name": schema.String()},
	)
	audit := protocol.NewMappedStep("audit", "profile",
		schema.Schema{"token": schema.String(), "subject": schema.String()},
		map[string]protocol.FieldMapping{
			"token":   {Step: "login", Path: "token"},
			"subject": {Step: "login", Path: "userId"},
		},
		schema.Schema{"recorded": schema.Bool()},
	)
	p, err := protocol.NewBuilder("auth").
		Add(login, profile, audit).
		Initial("login").
		Terminal("audit").
		Build()
	require.NoError(t, err)
	return p
}

func TestEmit_SharedOriginMarker(t *testing.T) {
	src, err := New().Emit(authProtocol(t))
	require.NoError(t, err)

	// One marker per distinct (step, path) origin, declared exactly once.
	assert.Equal(t, 1, strings.Count(src, "type FromLoginToken struct{}"))
	assert.Equal(t, 1, strings.Count(src, "type FromLoginUserId struct{}"))

	// The origin response field and both consumer request fields carry the
	// SAME marker, so generated values flow between them.
	assert.Contains(t, src, "Token Tagged[string, FromLoginToken] `json:\"token\"`")

	// Different paths on the same step are distinct markers.
	assert.Contains(t, src, "Subject Tagged[string, FromLoginUserId] `json:\"subject\"`")
	assert.NotContains(t, src, "Tagged[string, FromLoginToken] `json:\"subject\"`")
}

func TestEmit_TagsAtOriginAndConsumers(t *testing.T) {
	src, err := New().Emit(authProtocol(t))
	require.NoError(t, err)

	// token is tagged in the LoginResponse (its origin), in ProfileRequest
	// and in AuditRequest: three sites, one type.
	assert.Equal(t, 3, strings.Count(src, "Tagged[string, FromLoginToken]"))

	// Untagged fields stay plain.
	assert.Contains(t, src, "Username string `json:\"username\"`")
	assert.Contains(t, src, "Name string `json:\"name\"`")
}

func TestEmit_MechanismOnce(t *testing.T) {
	src, err := New().Emit(authProtocol(t))
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(src, "type Tagged[T any, Origin any] struct {"))
	assert.Equal(t, 1, strings.Count(src, "func Tag[T any, Origin any]"))
	assert.True(t, strings.HasPrefix(src, "// Code generated by weft. DO NOT EDIT.\n"))
	assert.Contains(t, src, "package protocoltypes\n")
}

func TestEmit_WithPackage(t *testing.T) {
	src, err := New(WithPackage("authgen")).Emit(authProtocol(t))
	require.NoError(t, err)
	assert.Contains(t, src, "package authgen\n")
}

func TestEmit_DependentRequestOmitted(t *testing.T) {
	issue := protocol.NewStep("issue", schema.Schema{}, schema.Schema{"secret": schema.String()})
	redeem := protocol.NewDependentStep("redeem", "issue",
		func(prior map[string]any) schema.Schema { return schema.Schema{} },
		schema.Schema{"ok": schema.Bool()},
	)
	p, err := protocol.NewBuilder("vouchers").Add(issue, redeem).Initial("issue").Terminal("redeem").Build()
	require.NoError(t, err)

	src, err := New().Emit(p)
	require.NoError(t, err)

	assert.NotContains(t, src, "type RedeemRequest struct")
	assert.Contains(t, src, "// RedeemRequest is not generated")
	assert.Contains(t, src, "type RedeemResponse struct")
}

func TestEmit_NestedObjectAndSlice(t *testing.T) {
	fetch := protocol.NewStep("fetch",
		schema.Schema{},
		schema.Schema{
			"user": schema.Object(schema.Schema{
				"id":   schema.String(),
				"tags": schema.Slice(schema.String()),
			}),
		},
	)
	use := protocol.NewMappedStep("use", "fetch",
		schema.Schema{"id": schema.String()},
		map[string]protocol.FieldMapping{
			"id": {Step: "fetch", Path: "user.id"},
		},
		schema.Schema{"done": schema.Bool()},
	)
	p, err := protocol.NewBuilder("nested").Add(fetch, use).Initial("fetch").Terminal("use").Build()
	require.NoError(t, err)

	src, err := New().Emit(p)
	require.NoError(t, err)

	// Tag lands on the nested field at its origin.
	assert.Contains(t, src, "type FromFetchUserId struct{}")
	assert.Contains(t, src, "Id Tagged[string, FromFetchUserId] `json:\"id\"`")
	assert.Contains(t, src, "Tags []string `json:\"tags\"`")
}

func TestEmit_OneOfVariants(t *testing.T) {
	charge := protocol.NewStep("charge",
		schema.Schema{},
		schema.Schema{
			"result": schema.OneOf(
				schema.Variant{Name: "success", Fields: schema.Schema{"amount": schema.Int()}},
				schema.Variant{Name: "failure", Fields: schema.Schema{"reason": schema.String()}},
			),
		},
	)
	p, err := protocol.NewBuilder("payments").Add(charge).Initial("charge").Terminal("charge").Build()
	require.NoError(t, err)

	src, err := New().Emit(p)
	require.NoError(t, err)

	assert.Contains(t, src, "type ChargeResponseResultSuccess struct {")
	assert.Contains(t, src, "type ChargeResponseResultFailure struct {")
	assert.Contains(t, src, "Amount int64 `json:\"amount\"`")
	assert.Contains(t, src, "Reason string `json:\"reason\"`")
}

func TestEmit_Deterministic(t *testing.T) {
	p := authProtocol(t)
	e := New()

	first, err := e.Emit(p)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Emit(p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEmit_InvalidProtocol(t *testing.T) {
	a := protocol.NewMappedStep("a", "ghost", schema.Schema{}, nil, schema.Schema{})
	p, err := protocol.NewBuilder("broken").Add(a).Initial("a").Build()
	require.NoError(t, err)

	_, err = New().Emit(p)
	assert.ErrorContains(t, err, "cannot generate")
}

func TestExportName(t *testing.T) {
	cases := map[string]string{
		"userId":       "UserId",
		"user_id":      "UserId",
		"check-status": "CheckStatus",
		"token":        "Token",
	}
	for in, want := range cases {
		assert.Equal(t, want, exportName(in), "exportName(%q)", in)
	}
	assert.Equal(t, "UserMetaPlan", exportPath("user.meta.plan"))
}
