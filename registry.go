package skema

import (
	"errors"
	"fmt"
	"sort"
)

// RegistryBuilder collects named schema nodes before the Registry is frozen.
// It is meant to be used once during process start.
type RegistryBuilder struct {
	nodes map[string]Node
	order []string
	errs  []error
}

// NewRegistryBuilder returns an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{nodes: map[string]Node{}}
}

// Register inserts a named node. Registering a name twice is reported by Build.
func (b *RegistryBuilder) Register(name string, n Node) *RegistryBuilder {
	if _, dup := b.nodes[name]; dup {
		b.errs = append(b.errs, &ConfigError{Schema: name, Err: ErrDuplicateName})
		return b
	}
	b.nodes[name] = n
	b.order = append(b.order, name)
	return b
}

// Build validates the graph and returns an immutable Registry. All defects
// are returned joined; each one is a *ConfigError.
func (b *RegistryBuilder) Build() (*Registry, error) {
	errs := append([]error(nil), b.errs...)
	for _, name := range b.order {
		errs = append(errs, validateNode(b.nodes, name, b.nodes[name], RootPath())...)
		if err := checkAliasCycle(b.nodes, name); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	nodes := make(map[string]Node, len(b.nodes))
	for k, v := range b.nodes {
		nodes[k] = v
	}
	names := append([]string(nil), b.order...)
	sort.Strings(names)
	return &Registry{nodes: nodes, names: names}, nil
}

// MustBuild is like Build but panics on error. Schema defects are
// programming errors and should stop the process at startup.
func (b *RegistryBuilder) MustBuild() *Registry {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}

func validateNode(nodes map[string]Node, schema string, n Node, p PathRef) []error {
	cfg := func(err error, detail string) error {
		return &ConfigError{Schema: schema, Path: p.Pointer(), Detail: detail, Err: err}
	}
	switch t := n.(type) {
	case nil:
		return []error{cfg(ErrEmptyNode, "nil node")}
	case *PrimitiveNode, *AnyNode, *AbsentNode:
		return nil
	case *ArrayNode:
		return validateNode(nodes, schema, t.elem, p.Field("[]"))
	case *ObjectNode:
		var errs []error
		ext := make(map[string]struct{}, len(t.fields))
		in := make(map[string]struct{}, len(t.fields))
		for _, f := range t.fields {
			if f.External == "" || f.Internal == "" {
				errs = append(errs, cfg(ErrNonBijectiveField, "empty field name"))
				continue
			}
			if _, dup := ext[f.External]; dup {
				errs = append(errs, cfg(ErrNonBijectiveField, fmt.Sprintf("external name %q declared twice", f.External)))
			}
			if _, dup := in[f.Internal]; dup {
				errs = append(errs, cfg(ErrNonBijectiveField, fmt.Sprintf("internal name %q declared twice", f.Internal)))
			}
			ext[f.External] = struct{}{}
			in[f.Internal] = struct{}{}
			errs = append(errs, validateNode(nodes, schema, f.Node, p.Field(f.External))...)
		}
		return errs
	case *UnionNode:
		if len(t.members) == 0 {
			return []error{cfg(ErrEmptyNode, "union without members")}
		}
		var errs []error
		for i, m := range t.members {
			errs = append(errs, validateNode(nodes, schema, m, p.Index(i))...)
		}
		return errs
	case *EnumNode:
		if len(t.values) == 0 {
			return []error{cfg(ErrEmptyNode, "enum without values")}
		}
		return nil
	case *RefNode:
		if _, ok := nodes[t.name]; !ok {
			return []error{cfg(ErrUnresolvedRef, fmt.Sprintf("%q is not registered", t.name))}
		}
		return nil
	default:
		return []error{cfg(ErrEmptyNode, fmt.Sprintf("unsupported node %T", n))}
	}
}

// checkAliasCycle rejects names that can reach themselves without consuming
// input, through references and union members only, such as A -> B -> A or
// A = Optional(Ref("A")). Decoding such a name would never terminate.
func checkAliasCycle(nodes map[string]Node, name string) error {
	seen := map[string]struct{}{}
	stack := passThroughRefs(nodes[name], nil)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if next == name {
			return &ConfigError{Schema: name, Err: ErrRefCycle, Detail: fmt.Sprintf("%q reaches itself through references or union members", name)}
		}
		if _, ok := seen[next]; ok {
			continue
		}
		seen[next] = struct{}{}
		n, ok := nodes[next]
		if !ok {
			continue // reported by validateNode
		}
		stack = passThroughRefs(n, stack)
	}
	return nil
}

// passThroughRefs appends the names n hands its input to unchanged: its own
// reference target or, for a union, those of its members.
func passThroughRefs(n Node, dst []string) []string {
	switch t := n.(type) {
	case *RefNode:
		dst = append(dst, t.name)
	case *UnionNode:
		for _, m := range t.members {
			dst = passThroughRefs(m, dst)
		}
	}
	return dst
}

// Registry is an immutable name -> node table. It is safe for concurrent use
// by any number of Decode/Encode calls.
type Registry struct {
	nodes map[string]Node
	names []string
}

// Resolve looks up a registered name.
func (r *Registry) Resolve(name string) (Node, bool) {
	n, ok := r.nodes[name]
	return n, ok
}

// Names returns the registered names in ascending order.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }

// root resolves a caller-supplied root name into a ConfigError when missing.
func (r *Registry) root(name string) (Node, error) {
	n, ok := r.nodes[name]
	if !ok {
		return nil, &ConfigError{Schema: name, Err: ErrUnknownSchema}
	}
	return n, nil
}

// mustResolve follows a reference during a transform. Build guarantees every
// reference resolves, so a miss here is a broken invariant.
func (r *Registry) mustResolve(name string) Node {
	n, ok := r.nodes[name]
	if !ok {
		panic(&ConfigError{Schema: name, Err: ErrUnresolvedRef, Detail: "reached during transform"})
	}
	return n
}

// deref follows chained references until a concrete node is reached.
func (r *Registry) deref(n Node) Node {
	for {
		ref, ok := n.(*RefNode)
		if !ok {
			return n
		}
		n = r.mustResolve(ref.name)
	}
}
