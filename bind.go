package skema

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// internal (record) name.
// Priority: skema:"name=..." > field name; skema:"-" disables the field.
// json tags are ignored on purpose: they describe the wire, not the record.
func ResolveStructKey(sf reflect.StructField) string {
	if st := sf.Tag.Get("skema"); st != "" {
		if st == "-" {
			return "-"
		}
		for _, p := range strings.Split(st, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	return sf.Name
}

var structKeyCache sync.Map // reflect.Type -> *structFields

// structFields maps internal names to field indexes of a struct type; names
// keeps declaration order.
type structFields struct {
	index map[string]int
	names []string
}

func structKeys(t reflect.Type) *structFields {
	if v, ok := structKeyCache.Load(t); ok {
		return v.(*structFields)
	}
	sf := &structFields{index: make(map[string]int, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := ResolveStructKey(f)
		if name == "-" || name == "" {
			continue
		}
		if _, dup := sf.index[name]; !dup {
			sf.names = append(sf.names, name)
		}
		sf.index[name] = i
	}
	v, _ := structKeyCache.LoadOrStore(t, sf)
	return v.(*structFields)
}

// ErrBindTarget reports a Bind destination that is not a non-nil pointer.
var ErrBindTarget = errors.New("skema: Bind requires a non-nil pointer")

// Bind copies a decoded record into out, which must be a non-nil pointer.
// Struct fields are matched by internal name (see ResolveStructKey); record
// keys without a matching field are ignored and missing keys leave the zero
// value. Shape mismatches are reported as invalid_type issues.
func Bind(rec any, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrBindTarget
	}
	if iss := assign(rec, rv.Elem(), RootPath()); iss != nil {
		return iss
	}
	return nil
}

var jsonNumberType = reflect.TypeOf(json.Number(""))

func assign(v any, dst reflect.Value, p PathRef) Issues {
	if isMissingOrNull(v) {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if dst.Type() == jsonNumberType {
		switch t := v.(type) {
		case json.Number:
			dst.Set(reflect.ValueOf(t))
			return nil
		case float64:
			dst.SetString(strconv.FormatFloat(t, 'g', -1, 64))
			return nil
		}
	}
	switch dst.Kind() {
	case reflect.Interface:
		vv := reflect.ValueOf(v)
		if !vv.Type().AssignableTo(dst.Type()) {
			return bindMismatch(p, dst.Type(), v)
		}
		dst.Set(vv)
	case reflect.Pointer:
		elem := reflect.New(dst.Type().Elem())
		if iss := assign(v, elem.Elem(), p); iss != nil {
			return iss
		}
		dst.Set(elem)
	case reflect.Struct:
		m, ok := asObject(v)
		if !ok {
			return bindMismatch(p, dst.Type(), v)
		}
		fields := structKeys(dst.Type())
		for _, k := range fields.names {
			val, ok := m[k]
			if !ok {
				continue
			}
			if iss := assign(val, dst.Field(fields.index[k]), p.Field(k)); iss != nil {
				return iss
			}
		}
	case reflect.Slice:
		arr, ok := asSlice(v)
		if !ok {
			return bindMismatch(p, dst.Type(), v)
		}
		s := reflect.MakeSlice(dst.Type(), len(arr), len(arr))
		for i, el := range arr {
			if iss := assign(el, s.Index(i), p.Index(i)); iss != nil {
				return iss
			}
		}
		dst.Set(s)
	case reflect.Array:
		arr, ok := asSlice(v)
		if !ok || len(arr) != dst.Len() {
			return bindMismatch(p, dst.Type(), v)
		}
		for i, el := range arr {
			if iss := assign(el, dst.Index(i), p.Index(i)); iss != nil {
				return iss
			}
		}
	case reflect.Map:
		if dst.Type().Key().Kind() != reflect.String {
			return bindMismatch(p, dst.Type(), v)
		}
		m, ok := asObject(v)
		if !ok {
			return bindMismatch(p, dst.Type(), v)
		}
		out := reflect.MakeMapWithSize(dst.Type(), len(m))
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val := m[k]
			ev := reflect.New(dst.Type().Elem()).Elem()
			if iss := assign(val, ev, p.Field(k)); iss != nil {
				return iss
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), ev)
		}
		dst.Set(out)
	case reflect.String:
		s, ok := asString(v)
		if !ok {
			return bindMismatch(p, dst.Type(), v)
		}
		dst.SetString(s)
	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return bindMismatch(p, dst.Type(), v)
		}
		dst.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, ok := toFloat64(v)
		if !ok || dst.OverflowFloat(f) {
			return bindMismatch(p, dst.Type(), v)
		}
		dst.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := toInt64(v)
		if !ok || dst.OverflowInt(i) {
			return bindMismatch(p, dst.Type(), v)
		}
		dst.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := toInt64(v)
		if !ok || i < 0 || dst.OverflowUint(uint64(i)) {
			return bindMismatch(p, dst.Type(), v)
		}
		dst.SetUint(uint64(i))
	default:
		return bindMismatch(p, dst.Type(), v)
	}
	return nil
}

// toInt64 converts integral numbers; fractional values are rejected.
func toInt64(v any) (int64, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	f, ok := toFloat64(v)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func bindMismatch(p PathRef, t reflect.Type, v any) Issues {
	return singleIssue(p, CodeInvalidType, "cannot bind "+kindOf(v)+" into "+t.String(), map[string]any{"expected": t.String(), "actual": kindOf(v)})
}

// ---- Go value -> record ----

// Unbind converts a Go value into a record for root, guided by the schema:
// nil pointers, slices and maps under optional properties become absent and
// nil slices under required arrays become empty arrays. The result is not
// validated; Encode does that.
func (r *Registry) Unbind(v any, root string) (any, error) {
	n, err := r.root(root)
	if err != nil {
		return nil, err
	}
	return r.unbindNode(n, v)
}

func (r *Registry) unbindNode(n Node, v any) (any, error) {
	out := r.unbind(n, reflect.ValueOf(v), 0)
	if isMissing(out) {
		return nil, nil
	}
	return out, nil
}

func (r *Registry) unbind(n Node, rv reflect.Value, depth int) any {
	if depth > maxUnbindDepth {
		return plain(rv)
	}
	switch t := r.deref(n).(type) {
	case *UnionNode:
		if isNilValue(rv) {
			if r.allowsAbsent(t) {
				return absent
			}
			return nil
		}
		for _, m := range t.members {
			if r.acceptsGo(m, rv, 0) {
				return r.unbind(m, rv, depth+1)
			}
		}
		return plain(rv)
	case *AbsentNode:
		if isNilValue(rv) {
			return absent
		}
		return plain(rv)
	case *ObjectNode:
		rv = indirect(rv)
		switch {
		case !rv.IsValid():
			return nil
		case rv.Kind() == reflect.Struct:
			keys := structKeys(rv.Type()).index
			out := make(map[string]any, len(t.fields))
			for _, f := range t.fields {
				idx, ok := keys[f.Internal]
				if !ok {
					continue
				}
				val := r.unbind(f.Node, rv.Field(idx), depth+1)
				if !isMissing(val) {
					out[f.Internal] = val
				}
			}
			return out
		case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
			pm := t.properties()
			out := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				k := iter.Key().String()
				if fe, ok := pm.toExternal[k]; ok {
					val := r.unbind(fe.node, iter.Value(), depth+1)
					if !isMissing(val) {
						out[k] = val
					}
					continue
				}
				out[k] = plain(iter.Value())
			}
			return out
		}
		return plain(rv)
	case *ArrayNode:
		rv = indirect(rv)
		if !rv.IsValid() {
			return nil
		}
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return plain(rv)
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = r.unbind(t.elem, rv.Index(i), depth+1)
		}
		return out
	default:
		rv = indirect(rv)
		return plain(rv)
	}
}

// maxUnbindDepth stops runaway recursion on self-referencing values.
const maxUnbindDepth = 512

// acceptsGo is the reflect-side counterpart of encoder.accepts: it selects
// the union member a Go value belongs to by its kind.
func (r *Registry) acceptsGo(n Node, rv reflect.Value, depth int) bool {
	if depth > maxAcceptDepth {
		return false
	}
	if isNilValue(rv) {
		k := r.deref(n).Kind()
		return k == KindAbsent || k == KindAny
	}
	rv = indirect(rv)
	switch t := r.deref(n).(type) {
	case *AnyNode:
		return true
	case *AbsentNode:
		return false
	case *PrimitiveNode:
		return kindOf(rv.Interface()) == t.prim.String()
	case *EnumNode:
		return rv.Kind() == reflect.String
	case *ArrayNode:
		return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
	case *ObjectNode:
		return rv.Kind() == reflect.Struct || (rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String)
	case *UnionNode:
		for _, m := range t.members {
			if r.acceptsGo(m, rv, depth+1) {
				return true
			}
		}
	}
	return false
}

func isNilValue(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// indirect follows pointers and interfaces; it returns the zero Value on nil.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func plain(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func isStructValue(v any) bool {
	rv := indirect(reflect.ValueOf(v))
	return rv.IsValid() && rv.Kind() == reflect.Struct
}
