package protocol

import (
	"reflect"
	"testing"

	"github.com/aretw0/weft/pkg/schema"
)

func loginStep() *IndependentStep {
	return NewStep("login",
		schema.Schema{"username": schema.String()},
		schema.Schema{"token": schema.String(), "userId": schema.String()},
	)
}

func TestBuilder_DuplicateStep(t *testing.T) {
	_, err := NewBuilder("p").
		Add(loginStep(), loginStep()).
		Initial("login").
		Build()
	if err == nil {
		t.Fatal("duplicate step names should fail Build")
	}
}

func TestBuilder_Empty(t *testing.T) {
	if _, err := NewBuilder("p").Build(); err == nil {
		t.Fatal("a protocol without steps should fail Build")
	}
}

func TestDependencies_PerVariant(t *testing.T) {
	indep := loginStep()
	if deps := indep.Dependencies(); len(deps) != 0 {
		t.Errorf("independent step dependencies = %v, want none", deps)
	}

	dep := NewDependentStep("profile", "login", func(prior map[string]any) schema.Schema {
		return schema.Schema{}
	}, schema.Schema{"name": schema.String()})
	if deps := dep.Dependencies(); !reflect.DeepEqual(deps, []string{"login"}) {
		t.Errorf("dependent step dependencies = %v, want [login]", deps)
	}
}

func TestDependencies_MappedDiamond(t *testing.T) {
	// Mapped step gated on "b" but reading a field from sibling "a": the
	// dependency set is exactly both names, without duplication.
	mapped := NewMappedStep("c", "b",
		schema.Schema{"x": schema.String(), "y": schema.String()},
		map[string]FieldMapping{
			"x": {Step: "a", Path: "f"},
			"y": {Step: "b", Path: "g"},
		},
		schema.Schema{"done": schema.Bool()},
	)

	deps := mapped.Dependencies()
	if !reflect.DeepEqual(deps, []string{"b", "a"}) {
		t.Errorf("Dependencies() = %v, want [b a]", deps)
	}
}

func TestDependencyGraph(t *testing.T) {
	p := diamondProtocol(t)
	graph := p.DependencyGraph()

	want := map[string][]string{
		"a": {},
		"b": {},
		"c": {"b", "a"},
	}
	if !reflect.DeepEqual(graph, want) {
		t.Errorf("DependencyGraph() = %v, want %v", graph, want)
	}
}

func TestTopologicalSort_DependenciesFirst(t *testing.T) {
	p := diamondProtocol(t)
	order := p.TopologicalSort()

	pos := map[string]int{}
	for i, name := range order {
		pos[name] = i
	}
	for step, deps := range p.DependencyGraph() {
		for _, dep := range deps {
			if pos[dep] >= pos[step] {
				t.Errorf("order %v places %q after its dependent %q", order, dep, step)
			}
		}
	}
}

func TestTopologicalSort_Deterministic(t *testing.T) {
	p := diamondProtocol(t)
	first := p.TopologicalSort()
	for i := 0; i < 10; i++ {
		if got := p.TopologicalSort(); !reflect.DeepEqual(got, first) {
			t.Fatalf("TopologicalSort() not deterministic: %v vs %v", got, first)
		}
	}
}

func TestResolveMapping(t *testing.T) {
	mapped := NewMappedStep("profile", "login",
		schema.Schema{"token": schema.String(), "plan": schema.String()},
		map[string]FieldMapping{
			"token": {Step: "login", Path: "token"},
			"plan":  {Step: "login", Path: "user.plan"},
		},
		schema.Schema{},
	)

	responses := map[string]map[string]any{
		"login": {
			"token": "t-1",
			"user":  map[string]any{"plan": "pro"},
		},
	}

	resolved := mapped.ResolveMapping(responses)
	if resolved["token"] != "t-1" {
		t.Errorf("token resolved to %v, want t-1", resolved["token"])
	}
	if resolved["plan"] != "pro" {
		t.Errorf("plan resolved to %v, want pro", resolved["plan"])
	}
}

func TestResolveMapping_NonIdentifierSourceKey(t *testing.T) {
	// Source field names are literal keys; a dash is not special.
	mapped := NewMappedStep("use", "login",
		schema.Schema{"token": schema.String()},
		map[string]FieldMapping{"token": {Step: "login", Path: "access-token"}},
		schema.Schema{},
	)

	resolved := mapped.ResolveMapping(map[string]map[string]any{
		"login": {"access-token": "bearer-1"},
	})
	if resolved["token"] != "bearer-1" {
		t.Errorf("token resolved to %v, want bearer-1", resolved["token"])
	}
}

func TestResolveMapping_UnexecutedSource(t *testing.T) {
	mapped := NewMappedStep("c", "b",
		schema.Schema{"x": schema.String()},
		map[string]FieldMapping{"x": {Step: "a", Path: "f"}},
		schema.Schema{},
	)

	resolved := mapped.ResolveMapping(map[string]map[string]any{"b": {}})
	v, present := resolved["x"]
	if !present {
		t.Fatal("unresolved mapping field must still be present")
	}
	if v != schema.Unresolved {
		t.Errorf("unresolved mapping field = %v, want the unresolved marker", v)
	}
}

func TestResolveMapping_NullSourceValue(t *testing.T) {
	// A source field recorded as null resolves to nil, not to the
	// unresolved marker: the pin then requires null, it does not fail
	// everything.
	mapped := NewMappedStep("c", "b",
		schema.Schema{"x": schema.String()},
		map[string]FieldMapping{"x": {Step: "b", Path: "f"}},
		schema.Schema{},
	)

	resolved := mapped.ResolveMapping(map[string]map[string]any{"b": {"f": nil}})
	v, present := resolved["x"]
	if !present {
		t.Fatal("mapped field missing from resolution")
	}
	if v == schema.Unresolved {
		t.Error("null source value must not be treated as unresolved")
	}
	if v != nil {
		t.Errorf("resolved value = %v, want nil", v)
	}
}

// diamondProtocol builds {a, b independent; c gated on b, mapping from a}.
func diamondProtocol(t *testing.T) *Protocol {
	t.Helper()
	a := NewStep("a", schema.Schema{}, schema.Schema{"f": schema.String()})
	b := NewStep("b", schema.Schema{}, schema.Schema{"g": schema.String()})
	c := NewMappedStep("c", "b",
		schema.Schema{"x": schema.String(), "y": schema.String()},
		map[string]FieldMapping{
			"x": {Step: "a", Path: "f"},
			"y": {Step: "b", Path: "g"},
		},
		schema.Schema{"done": schema.Bool()},
	)

	p, err := NewBuilder("diamond").Add(a, b, c).Initial("a").Terminal("c").Build()
	if err != nil {
		t.Fatal(err)
	}
	return p
}
