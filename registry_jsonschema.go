package skema

import (
	"sort"

	js "github.com/reoring/skema/jsonschema"
)

// JSONSchema projects root and every schema it reaches into a JSON Schema
// document. References become $ref into $defs. Strict objects emit
// additionalProperties=false; passthrough and strip objects emit true.
// Optional properties are omitted from required and also admit null.
func (r *Registry) JSONSchema(root string) (*js.Schema, error) {
	if _, err := r.root(root); err != nil {
		return nil, err
	}
	p := &projector{reg: r, defs: map[string]*js.Schema{}}
	p.define(root)
	for len(p.queue) > 0 {
		name := p.queue[0]
		p.queue = p.queue[1:]
		p.defs[name] = p.project(r.nodes[name])
	}
	return &js.Schema{Schema: js.Draft, Ref: js.DefRef(root), Defs: p.defs}, nil
}

type projector struct {
	reg   *Registry
	defs  map[string]*js.Schema
	queue []string
}

// define schedules a named schema for projection once.
func (p *projector) define(name string) {
	if _, ok := p.defs[name]; ok {
		return
	}
	p.defs[name] = nil
	p.queue = append(p.queue, name)
}

func (p *projector) project(n Node) *js.Schema {
	switch t := n.(type) {
	case *PrimitiveNode:
		return &js.Schema{Type: t.prim.String()}
	case *ArrayNode:
		return &js.Schema{Type: "array", Items: p.project(t.elem)}
	case *ObjectNode:
		out := &js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(t.fields))}
		for _, f := range t.fields {
			out.Properties[f.External] = p.project(f.Node)
			if !p.optional(f.Node) {
				out.Required = append(out.Required, f.External)
			}
		}
		sort.Strings(out.Required)
		out.AdditionalProperties = t.unknown != UnknownStrict
		return out
	case *UnionNode:
		var alts []*js.Schema
		for _, m := range t.members {
			alts = append(alts, p.project(m))
		}
		if len(alts) == 1 {
			return alts[0]
		}
		return &js.Schema{AnyOf: alts}
	case *EnumNode:
		return &js.Schema{Type: "string", Enum: t.Values()}
	case *RefNode:
		p.define(t.name)
		return &js.Schema{Ref: js.DefRef(t.name)}
	case *AbsentNode:
		return &js.Schema{Type: "null"}
	default:
		return &js.Schema{}
	}
}

func (p *projector) optional(n Node) bool {
	switch t := p.reg.deref(n).(type) {
	case *UnionNode:
		return p.reg.allowsAbsent(t)
	case *AnyNode:
		return true
	}
	return false
}
