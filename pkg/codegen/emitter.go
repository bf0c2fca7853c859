package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/weft/pkg/protocol"
	"github.com/aretw0/weft/pkg/schema"
)

// Emitter generates provenance-tagged Go declarations for a protocol.
type Emitter struct {
	pkgName string
}

// Option configures the emitter.
type Option func(*Emitter)

// WithPackage sets the package name of the generated file.
func WithPackage(name string) Option {
	return func(e *Emitter) {
		e.pkgName = name
	}
}

// New creates an emitter. The default package name is "protocoltypes".
func New(opts ...Option) *Emitter {
	e := &Emitter{pkgName: "protocoltypes"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// origin identifies a (step, field path) provenance source.
type origin struct {
	step string
	path string
}

// Emit produces the generated source for a protocol. The protocol is
// validated first and an invalid one is refused.
func (e *Emitter) Emit(p *protocol.Protocol) (string, error) {
	if report := p.Validate(); !report.Valid {
		return "", fmt.Errorf("cannot generate: %w", report.Err())
	}

	order := p.TopologicalSort()
	markers, originTags := collectOrigins(p, order)

	var sb strings.Builder
	e.writeHeader(&sb, p)
	writeTagMechanism(&sb)
	writeMarkers(&sb, order, markers)

	for _, name := range order {
		step, _ := p.Step(name)
		switch s := step.(type) {
		case *protocol.IndependentStep:
			writeStruct(&sb, exportName(name)+"Request", s.RequestSchema(), nil, markers)
		case *protocol.MappedStep:
			writeStruct(&sb, exportName(name)+"Request", s.RequestSchema(), requestTags(s), markers)
		case *protocol.DependentStep:
			fmt.Fprintf(&sb, "// %sRequest is not generated: the request shape of step %q is\n", exportName(name), name)
			fmt.Fprintf(&sb, "// derived from %q's response at runtime.\n\n", s.DependsOn())
		}
		writeStruct(&sb, exportName(name)+"Response", step.ResponseSchema(), originTags[name], markers)
	}

	return sb.String(), nil
}

// collectOrigins walks every mapped step's field mappings and records each
// distinct (step, path) source. It returns the marker names keyed by
// origin, and the per-origin-step tag map used to tag response fields at
// their source.
func collectOrigins(p *protocol.Protocol, order []string) (map[origin]string, map[string]map[string]origin) {
	markers := make(map[origin]string)
	originTags := make(map[string]map[string]origin)

	for _, name := range order {
		step, _ := p.Step(name)
		ms, ok := step.(*protocol.MappedStep)
		if !ok {
			continue
		}
		for _, m := range ms.Mapping() {
			o := origin{step: m.Step, path: m.Path}
			if _, seen := markers[o]; !seen {
				markers[o] = "From" + exportName(o.step) + exportPath(o.path)
			}
			if originTags[o.step] == nil {
				originTags[o.step] = make(map[string]origin)
			}
			originTags[o.step][o.path] = o
		}
	}
	return markers, originTags
}

// requestTags maps a mapped step's request field names to their origins.
func requestTags(s *protocol.MappedStep) map[string]origin {
	tags := make(map[string]origin, len(s.Mapping()))
	for field, m := range s.Mapping() {
		tags[field] = origin{step: m.Step, path: m.Path}
	}
	return tags
}

func (e *Emitter) writeHeader(sb *strings.Builder, p *protocol.Protocol) {
	sb.WriteString("// Code generated by weft. DO NOT EDIT.\n")
	fmt.Fprintf(sb, "// Protocol: %s\n\n", p.Name())
	fmt.Fprintf(sb, "package %s\n\n", e.pkgName)
	sb.WriteString("import \"encoding/json\"\n\n")
}

// writeTagMechanism emits the phantom-type wrapper exactly once, before
// any step declaration.
func writeTagMechanism(sb *strings.Builder) {
	sb.WriteString(`// Tagged wraps a value whose provenance is pinned to a specific step
// response field. The Origin type parameter is a phantom marker: two
// Tagged instantiations with different markers are distinct types, so a
// value sourced from one field cannot be passed where another field's
// value is required, even when both share the same base type.
type Tagged[T any, Origin any] struct {
	Value T
}

// Tag wraps a raw value with an origin marker.
func Tag[T any, Origin any](v T) Tagged[T, Origin] {
	return Tagged[T, Origin]{Value: v}
}

func (t Tagged[T, Origin]) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Value)
}

func (t *Tagged[T, Origin]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &t.Value)
}

`)
}

// writeMarkers emits one empty marker type per distinct origin, ordered by
// the origin step's topological position and then by path.
func writeMarkers(sb *strings.Builder, order []string, markers map[origin]string) {
	if len(markers) == 0 {
		return
	}
	sb.WriteString("// Origin markers. Each (step, field path) source gets its own type.\n")

	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	origins := make([]origin, 0, len(markers))
	for o := range markers {
		origins = append(origins, o)
	}
	sort.Slice(origins, func(i, j int) bool {
		if origins[i].step != origins[j].step {
			return pos[origins[i].step] < pos[origins[j].step]
		}
		return origins[i].path < origins[j].path
	})

	for _, o := range origins {
		fmt.Fprintf(sb, "type %s struct{}\n", markers[o])
	}
	sb.WriteString("\n")
}

// writeStruct emits one named struct mirroring a schema. tags maps field
// paths (relative to the struct root) to their provenance origin; tagged
// fields are wrapped in Tagged[base, marker]. Variant fields produce extra
// named structs after the parent declaration.
func writeStruct(sb *strings.Builder, name string, s schema.Schema, tags map[string]origin, markers map[origin]string) {
	var pending []pendingVariant

	fmt.Fprintf(sb, "type %s struct {\n", name)
	writeFields(sb, name, s, "", tags, markers, 1, &pending)
	sb.WriteString("}\n\n")

	for _, pv := range pending {
		writeStruct(sb, pv.name, pv.fields, subTags(tags, pv.path), markers)
	}
}

type pendingVariant struct {
	name   string
	path   string
	fields schema.Schema
}

func writeFields(sb *strings.Builder, owner string, s schema.Schema, prefix string, tags map[string]origin, markers map[origin]string, depth int, pending *[]pendingVariant) {
	indent := strings.Repeat("\t", depth)

	names := make([]string, 0, len(s))
	for f := range s {
		names = append(names, f)
	}
	sort.Strings(names)

	for _, field := range names {
		path := field
		if prefix != "" {
			path = prefix + "." + field
		}
		fieldType := s[field]

		if tagOrigin, tagged := tags[path]; tagged {
			marker := markers[tagOrigin]
			fmt.Fprintf(sb, "%s%s Tagged[%s, %s] `json:%q`\n", indent, exportName(field), goType(fieldType), marker, field)
			continue
		}

		switch t := fieldType.(type) {
		case *schema.ObjectType:
			fmt.Fprintf(sb, "%s%s struct {\n", indent, exportName(field))
			writeFields(sb, owner, t.Fields(), path, tags, markers, depth+1, pending)
			fmt.Fprintf(sb, "%s} `json:%q`\n", indent, field)
		case *schema.OneOfType:
			variantNames := make([]string, 0, len(t.Variants()))
			for _, v := range t.Variants() {
				vName := owner + exportPath(path) + exportName(v.Name)
				variantNames = append(variantNames, vName)
				*pending = append(*pending, pendingVariant{name: vName, path: path, fields: v.Fields})
			}
			fmt.Fprintf(sb, "%s%s any `json:%q` // one of: %s\n", indent, exportName(field), field, strings.Join(variantNames, ", "))
		default:
			fmt.Fprintf(sb, "%s%s %s `json:%q`\n", indent, exportName(field), goType(fieldType), field)
		}
	}
}

// subTags rebases a tag map onto a nested path, so variant structs keep
// the tags declared under their field.
func subTags(tags map[string]origin, base string) map[string]origin {
	out := make(map[string]origin)
	for path, o := range tags {
		if strings.HasPrefix(path, base+".") {
			out[strings.TrimPrefix(path, base+".")] = o
		}
	}
	return out
}

// goType maps a schema type to its Go base type.
func goType(t schema.Type) string {
	switch tt := t.(type) {
	case *schema.StringType:
		return "string"
	case *schema.IntType:
		return "int64"
	case *schema.FloatType:
		return "float64"
	case *schema.BoolType:
		return "bool"
	case *schema.SliceType:
		return "[]" + goType(tt.Elem())
	default:
		return "any"
	}
}

// exportName converts a field or step name to an exported Go identifier.
// Separator characters split words; each word keeps its interior casing
// with the first letter upper-cased ("userId" -> "UserId").
func exportName(name string) string {
	var out strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case r == '-' || r == '_' || r == '.' || r == ' ' || r == '/':
			upper = true
		case upper:
			out.WriteString(strings.ToUpper(string(r)))
			upper = false
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

// exportPath converts a dot path into an exported identifier fragment
// ("user.id" -> "UserId").
func exportPath(path string) string {
	parts := strings.Split(path, ".")
	var out strings.Builder
	for _, p := range parts {
		out.WriteString(exportName(p))
	}
	return out.String()
}
