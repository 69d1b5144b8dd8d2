package skema

import (
	"reflect"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/skema/i18n"
)

// decoder walks a node against a wire value and produces a record keyed by
// internal names. It stops at the first issue.
type decoder struct {
	reg  *Registry
	mode NumberMode
}

func (d *decoder) decode(n Node, v any, p PathRef) (any, Issues) {
	switch t := n.(type) {
	case *RefNode:
		return d.decode(d.reg.mustResolve(t.name), v, p)
	case *AnyNode:
		return v, nil
	case *AbsentNode:
		if isMissingOrNull(v) {
			return absent, nil
		}
		return nil, invalidType(p, "absent", v)
	case *UnionNode:
		return d.decodeUnion(t, v, p)
	}
	if isMissing(v) {
		return nil, required(p)
	}
	switch t := n.(type) {
	case *PrimitiveNode:
		return d.decodePrimitive(t, v, p)
	case *ArrayNode:
		arr, ok := asSlice(v)
		if !ok {
			return nil, invalidType(p, kindArray, v)
		}
		out := make([]any, len(arr))
		for i, el := range arr {
			r, iss := d.decode(t.elem, el, p.Index(i))
			if iss != nil {
				return nil, iss
			}
			out[i] = r
		}
		return out, nil
	case *ObjectNode:
		return d.decodeObject(t, v, p)
	case *EnumNode:
		return decodeEnum(t, v, p)
	}
	panic(&ConfigError{Path: p.Pointer(), Err: ErrEmptyNode, Detail: "unsupported node " + describe(n)})
}

func (d *decoder) decodePrimitive(t *PrimitiveNode, v any, p PathRef) (any, Issues) {
	if kindOf(v) != t.prim.String() {
		return nil, invalidType(p, t.prim.String(), v)
	}
	switch t.prim {
	case PrimitiveString:
		s, _ := asString(v)
		return s, nil
	case PrimitiveBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return reflect.ValueOf(v).Bool(), nil
	}
	switch d.mode {
	case NumberJSONNumber:
		if n, ok := v.(json.Number); ok {
			return n, nil
		}
		return v, nil
	default:
		f, ok := toFloat64(v)
		if !ok {
			return nil, invalidType(p, kindNumber, v)
		}
		return f, nil
	}
}

func (d *decoder) decodeObject(t *ObjectNode, v any, p PathRef) (any, Issues) {
	src, ok := asObject(v)
	if !ok {
		return nil, invalidType(p, kindObject, v)
	}
	pm := t.properties()
	out := make(map[string]any, len(src))
	for _, f := range t.fields {
		val, present := src[f.External]
		if !present {
			val = absent
		}
		r, iss := d.decode(f.Node, val, p.Field(f.External))
		if iss != nil {
			return nil, iss
		}
		if !isMissing(r) {
			out[f.Internal] = r
		}
	}
	for _, k := range unknownKeys(src, pm.toInternal) {
		switch t.unknown {
		case UnknownStrip:
			continue
		case UnknownPassthrough:
			if _, clash := pm.toExternal[k]; clash {
				return nil, unknownKey(p.Field(k), k, "collides with a declared internal name")
			}
			out[k] = src[k]
		default:
			return nil, unknownKey(p.Field(k), k, "")
		}
	}
	return out, nil
}

func (d *decoder) decodeUnion(t *UnionNode, v any, p PathRef) (any, Issues) {
	if isMissing(v) && !d.reg.allowsAbsent(t) {
		return nil, required(p)
	}
	// A present value can only match the non-absent members; with a single
	// candidate its own failure is the most precise report.
	if !isMissingOrNull(v) {
		if m, ok := d.reg.soleCandidate(t); ok {
			return d.decode(m, v, p)
		}
	}
	attempted := make([]string, 0, len(t.members))
	var causes Issues
	for _, m := range t.members {
		r, iss := d.decode(m, v, p)
		if iss == nil {
			return r, nil
		}
		attempted = append(attempted, describe(m))
		causes = AppendIssues(causes, iss...)
	}
	return nil, unionNoMatch(p, attempted, v, causes)
}

// allowsAbsent reports whether t admits a missing value, following
// references and nested unions. Build rejects cycles along these edges.
func (r *Registry) allowsAbsent(t *UnionNode) bool {
	for _, m := range t.members {
		switch mt := r.deref(m).(type) {
		case *AbsentNode, *AnyNode:
			return true
		case *UnionNode:
			if r.allowsAbsent(mt) {
				return true
			}
		}
	}
	return false
}

// soleCandidate returns the only member of t that is not Absent.
func (r *Registry) soleCandidate(t *UnionNode) (Node, bool) {
	var found Node
	for _, m := range t.members {
		if r.deref(m).Kind() == KindAbsent {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = m
	}
	return found, found != nil
}

func decodeEnum(t *EnumNode, v any, p PathRef) (any, Issues) {
	s, ok := asString(v)
	if !ok || !t.Contains(s) {
		return nil, invalidEnum(p, t, v)
	}
	return s, nil
}

// unknownKeys lists keys of src missing from known, in ascending order.
func unknownKeys(src map[string]any, known map[string]fieldEntry) []string {
	var uks []string
	for k := range src {
		if _, ok := known[k]; !ok {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	return uks
}

// ---- issue constructors ----

func invalidType(p PathRef, expected string, v any) Issues {
	actual := kindOf(v)
	return singleIssue(p, CodeInvalidType, "expected "+expected+", got "+actual, map[string]any{"expected": expected, "actual": actual})
}

func required(p PathRef) Issues {
	return singleIssue(p, CodeRequired, "required property missing", nil)
}

func unknownKey(p PathRef, key, hint string) Issues {
	if hint == "" {
		hint = "undeclared property '" + key + "'"
	}
	return singleIssue(p, CodeUnknownKey, hint, map[string]any{"key": key})
}

func invalidEnum(p PathRef, t *EnumNode, v any) Issues {
	actual, ok := asString(v)
	if !ok {
		actual = kindOf(v)
	}
	return singleIssue(p, CodeInvalidEnum, "expected one of "+joinQuoted(t.values), map[string]any{"valid": t.Values(), "actual": actual})
}

func unionNoMatch(p PathRef, attempted []string, v any, causes Issues) Issues {
	iss := singleIssue(p, CodeUnionNoMatch, "tried "+strings.Join(attempted, ", "), map[string]any{"attempted": attempted, "actual": kindOf(v)})
	parts := make([]string, len(causes))
	for i, c := range causes {
		parts[i] = c.String()
	}
	iss[0].Message = i18n.T(CodeUnionNoMatch, nil) + " (" + strings.Join(parts, "; ") + ")"
	iss[0].Cause = causes
	return iss
}
