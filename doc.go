/*
Package weft is a dependency-gated protocol engine for multi-step
request/response flows (e.g. "login -> fetch profile -> logout") in which
later steps require field values that must come from a specific earlier
step's response.

It separates the protocol declaration (steps, dependencies, field
mappings) from the execution state (immutable sessions) and from side
effects (the host-supplied step executor). The engine gates each step on
its declared dependency at runtime, and the bundled code generator can
additionally enforce at the type level that a value plugged into a
dependent field actually originated from the right step and field.

# Concept

A Protocol is a graph of named steps. Independent steps carry static
request/response contracts. Dependent steps derive their request contract
from a prior step's response through a callback. Mapped steps declare,
as plain data, which request fields must equal values recorded at named
paths in prior steps' responses; at execution time those fields are pinned
to exact values and anything else fails request validation.

Sessions are append-only: executing a step never mutates the session you
pass in, it returns a successor. Any session value is a safe fork point
for concurrent chains.

# Usage

	login := protocol.NewStep("login",
		schema.Schema{"username": schema.String(), "password": schema.String()},
		schema.Schema{"token": schema.String(), "userId": schema.String()},
	)
	profile := protocol.NewMappedStep("profile", "login",
		schema.Schema{"token": schema.String(), "fields": schema.Slice(schema.String())},
		map[string]protocol.FieldMapping{
			"token": {Step: "login", Path: "token"},
		},
		schema.Schema{"name": schema.String(), "email": schema.String()},
	)

	proto, err := protocol.NewBuilder("account").
		Add(login, profile).
		Initial("login").
		Terminal("profile").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	eng, err := weft.New(proto, executor) // executor implements ports.StepExecutor
	if err != nil {
		log.Fatal(err)
	}

	sess := eng.NewSession()
	_, sess, err = eng.Execute(ctx, sess, "login", map[string]any{
		"username": "ada", "password": "secret",
	})
	// sess now records login's validated response; "profile" is available
	// and its "token" field must equal the recorded token exactly.
*/
package weft
