package skema

// encoder walks a node against a record keyed by internal names and produces
// the wire value keyed by external names. It stops at the first issue.
type encoder struct {
	reg *Registry
}

func (e *encoder) encode(n Node, v any, p PathRef) (any, Issues) {
	switch t := n.(type) {
	case *RefNode:
		return e.encode(e.reg.mustResolve(t.name), v, p)
	case *AnyNode:
		return v, nil
	case *AbsentNode:
		if isMissingOrNull(v) {
			return absent, nil
		}
		return nil, invalidType(p, "absent", v)
	case *UnionNode:
		return e.encodeUnion(t, v, p)
	}
	if isMissing(v) {
		return nil, required(p)
	}
	switch t := n.(type) {
	case *PrimitiveNode:
		if kindOf(v) != t.prim.String() {
			return nil, invalidType(p, t.prim.String(), v)
		}
		return v, nil
	case *ArrayNode:
		arr, ok := asSlice(v)
		if !ok {
			return nil, invalidType(p, kindArray, v)
		}
		out := make([]any, len(arr))
		for i, el := range arr {
			r, iss := e.encode(t.elem, el, p.Index(i))
			if iss != nil {
				return nil, iss
			}
			out[i] = r
		}
		return out, nil
	case *ObjectNode:
		return e.encodeObject(t, v, p)
	case *EnumNode:
		return decodeEnum(t, v, p)
	}
	panic(&ConfigError{Path: p.Pointer(), Err: ErrEmptyNode, Detail: "unsupported node " + describe(n)})
}

func (e *encoder) encodeObject(t *ObjectNode, v any, p PathRef) (any, Issues) {
	src, ok := asObject(v)
	if !ok {
		return nil, invalidType(p, kindObject, v)
	}
	pm := t.properties()
	out := make(map[string]any, len(src))
	for _, f := range t.fields {
		val, present := src[f.Internal]
		if !present {
			val = absent
		}
		r, iss := e.encode(f.Node, val, p.Field(f.Internal))
		if iss != nil {
			return nil, iss
		}
		if !isMissing(r) {
			out[f.External] = r
		}
	}
	for _, k := range unknownKeys(src, pm.toExternal) {
		switch t.unknown {
		case UnknownStrip:
			continue
		case UnknownPassthrough:
			if _, clash := pm.toInternal[k]; clash {
				return nil, unknownKey(p.Field(k), k, "collides with a declared wire name")
			}
			out[k] = src[k]
		default:
			return nil, unknownKey(p.Field(k), k, "")
		}
	}
	return out, nil
}

// encodeUnion encodes with the member matching the runtime kind of v. The
// value already carries its variant, so members are not re-tried on failure.
func (e *encoder) encodeUnion(t *UnionNode, v any, p PathRef) (any, Issues) {
	if isMissing(v) && !e.reg.allowsAbsent(t) {
		return nil, required(p)
	}
	if !isMissingOrNull(v) {
		if m, ok := e.reg.soleCandidate(t); ok {
			return e.encode(m, v, p)
		}
	}
	for _, m := range t.members {
		if e.accepts(m, v, 0) {
			return e.encode(m, v, p)
		}
	}
	attempted := make([]string, len(t.members))
	for i, m := range t.members {
		attempted[i] = describe(m)
	}
	return nil, unionNoMatch(p, attempted, v, nil)
}

// maxAcceptDepth bounds union-in-union lookahead through references.
const maxAcceptDepth = 32

// accepts reports whether the shape of n admits the runtime kind of v. It
// does not validate contents.
func (e *encoder) accepts(n Node, v any, depth int) bool {
	if depth > maxAcceptDepth {
		return false
	}
	n = e.reg.deref(n)
	switch t := n.(type) {
	case *AnyNode:
		return true
	case *AbsentNode:
		return isMissingOrNull(v)
	case *PrimitiveNode:
		return kindOf(v) == t.prim.String()
	case *EnumNode:
		_, ok := asString(v)
		return ok
	case *ArrayNode:
		return kindOf(v) == kindArray
	case *ObjectNode:
		return kindOf(v) == kindObject
	case *UnionNode:
		for _, m := range t.members {
			if e.accepts(m, v, depth+1) {
				return true
			}
		}
	}
	return false
}
