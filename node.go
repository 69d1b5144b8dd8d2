package skema

import (
	"sync"
)

// NodeKind enumerates the variants of the schema graph.
type NodeKind int

const (
	KindPrimitive NodeKind = iota
	KindArray
	KindObject
	KindUnion
	KindEnum
	KindRef
	KindAny
	KindAbsent
)

func (k NodeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindUnion:
		return "union"
	case KindEnum:
		return "enum"
	case KindRef:
		return "ref"
	case KindAny:
		return "any"
	case KindAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Node is one node of the declarative type graph. The set of implementations
// is closed: only the constructors in this package produce Nodes.
type Node interface {
	Kind() NodeKind
	// Describe renders a short human-readable form used in diagnostics.
	Describe() string
	sealed()
}

// PrimitiveKind is the JSON kind accepted by a PrimitiveNode.
type PrimitiveKind int

const (
	PrimitiveString PrimitiveKind = iota
	PrimitiveNumber
	PrimitiveBoolean
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveNumber:
		return "number"
	case PrimitiveBoolean:
		return "boolean"
	default:
		return "string"
	}
}

// PrimitiveNode accepts a single JSON scalar kind.
type PrimitiveNode struct{ prim PrimitiveKind }

var (
	stringNode  = &PrimitiveNode{prim: PrimitiveString}
	numberNode  = &PrimitiveNode{prim: PrimitiveNumber}
	booleanNode = &PrimitiveNode{prim: PrimitiveBoolean}
)

// String returns the string primitive node.
func String() *PrimitiveNode { return stringNode }

// Number returns the number primitive node.
func Number() *PrimitiveNode { return numberNode }

// Boolean returns the boolean primitive node.
func Boolean() *PrimitiveNode { return booleanNode }

func (n *PrimitiveNode) Kind() NodeKind           { return KindPrimitive }
func (n *PrimitiveNode) Primitive() PrimitiveKind { return n.prim }
func (n *PrimitiveNode) Describe() string         { return n.prim.String() }
func (n *PrimitiveNode) sealed()                  {}

// ArrayNode accepts a sequence whose elements all satisfy Elem.
type ArrayNode struct{ elem Node }

// Array builds an array node from an element node.
func Array(elem Node) *ArrayNode { return &ArrayNode{elem: elem} }

func (n *ArrayNode) Kind() NodeKind   { return KindArray }
func (n *ArrayNode) Elem() Node       { return n.elem }
func (n *ArrayNode) Describe() string { return "array<" + describe(n.elem) + ">" }
func (n *ArrayNode) sealed()          {}

// FieldDef declares one object property: its wire (external) name, its
// in-memory (internal) name and its schema.
type FieldDef struct {
	External string
	Internal string
	Node     Node
}

// Field declares a property renamed between the wire and the record.
func Field(external, internal string, n Node) FieldDef {
	return FieldDef{External: external, Internal: internal, Node: n}
}

// Same declares a property whose wire and record names are identical.
func Same(name string, n Node) FieldDef { return FieldDef{External: name, Internal: name, Node: n} }

// ObjectNode accepts a key/value object with declared fields.
type ObjectNode struct {
	fields  []FieldDef
	unknown UnknownPolicy

	mapOnce sync.Once
	mapper  *propertyMapper
}

// Object builds a strict object node; undeclared keys are rejected.
func Object(fields ...FieldDef) *ObjectNode {
	return &ObjectNode{fields: append([]FieldDef(nil), fields...), unknown: UnknownStrict}
}

// Passthrough returns a copy of the node that copies undeclared keys verbatim.
func (n *ObjectNode) Passthrough() *ObjectNode { return n.withPolicy(UnknownPassthrough) }

// Strip returns a copy of the node that drops undeclared keys.
func (n *ObjectNode) Strip() *ObjectNode { return n.withPolicy(UnknownStrip) }

// WithUnknown returns a copy of the node using the given policy.
func (n *ObjectNode) WithUnknown(p UnknownPolicy) *ObjectNode { return n.withPolicy(p) }

func (n *ObjectNode) withPolicy(p UnknownPolicy) *ObjectNode {
	return &ObjectNode{fields: n.fields, unknown: p}
}

func (n *ObjectNode) Kind() NodeKind               { return KindObject }
func (n *ObjectNode) UnknownPolicy() UnknownPolicy { return n.unknown }
func (n *ObjectNode) Describe() string             { return "object" }
func (n *ObjectNode) sealed()                      {}

// Fields returns a copy of the declared fields in declaration order.
func (n *ObjectNode) Fields() []FieldDef { return append([]FieldDef(nil), n.fields...) }

// UnionNode accepts the first member that validates, trying members in order.
type UnionNode struct{ members []Node }

// Union builds a union node. Member order is significant.
func Union(members ...Node) *UnionNode {
	return &UnionNode{members: append([]Node(nil), members...)}
}

// Optional is shorthand for Union(Absent(), n).
func Optional(n Node) *UnionNode { return Union(Absent(), n) }

func (n *UnionNode) Kind() NodeKind  { return KindUnion }
func (n *UnionNode) Members() []Node { return append([]Node(nil), n.members...) }
func (n *UnionNode) sealed()         {}

func (n *UnionNode) Describe() string {
	s := "union<"
	for i, m := range n.members {
		if i > 0 {
			s += "|"
		}
		s += describe(m)
	}
	return s + ">"
}

// AllowsAbsent reports whether the union has a direct Absent member. Members
// reached through references are not followed; a Registry resolves those
// when transforming.
func (n *UnionNode) AllowsAbsent() bool {
	for _, m := range n.members {
		if m.Kind() == KindAbsent {
			return true
		}
	}
	return false
}

// EnumNode accepts a string from a closed set.
type EnumNode struct {
	values []string
	set    map[string]struct{}
}

// Enum builds a closed enumeration node.
func Enum(values ...string) *EnumNode {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return &EnumNode{values: append([]string(nil), values...), set: set}
}

func (n *EnumNode) Kind() NodeKind   { return KindEnum }
func (n *EnumNode) Values() []string { return append([]string(nil), n.values...) }
func (n *EnumNode) Describe() string { return "enum" }
func (n *EnumNode) sealed()          {}

// Contains reports membership in the closed set.
func (n *EnumNode) Contains(s string) bool {
	_, ok := n.set[s]
	return ok
}

// RefNode is a named placeholder resolved against the Registry at transform time.
type RefNode struct{ name string }

// Ref builds a reference to a registered schema name.
func Ref(name string) *RefNode { return &RefNode{name: name} }

func (n *RefNode) Kind() NodeKind   { return KindRef }
func (n *RefNode) Name() string     { return n.name }
func (n *RefNode) Describe() string { return "ref(" + n.name + ")" }
func (n *RefNode) sealed()          {}

// AnyNode accepts any value unchanged.
type AnyNode struct{}

var anyNode = &AnyNode{}

// Any returns the escape-hatch node for untyped payloads.
func Any() *AnyNode { return anyNode }

func (n *AnyNode) Kind() NodeKind   { return KindAny }
func (n *AnyNode) Describe() string { return "any" }
func (n *AnyNode) sealed()          {}

// AbsentNode matches a missing property or null. It is only meaningful as a
// union member.
type AbsentNode struct{}

var absentNode = &AbsentNode{}

// Absent returns the absence sentinel node.
func Absent() *AbsentNode { return absentNode }

func (n *AbsentNode) Kind() NodeKind   { return KindAbsent }
func (n *AbsentNode) Describe() string { return "absent" }
func (n *AbsentNode) sealed()          {}

func describe(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Describe()
}
