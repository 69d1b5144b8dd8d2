// Package rules runs business assertions over decoded records or wire
// values. Rules report skema.Issues with code business_rule.
package rules

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/skema"
)

// Rule inspects v and returns the violations it finds.
type Rule func(v any) []skema.Issue

// Check runs rules against v and returns skema.Issues when any of them fail.
func Check(v any, rules ...Rule) error {
	if iss := And(rules...)(v); len(iss) > 0 {
		return skema.Issues(iss)
	}
	return nil
}

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a path against a value using an operator.
// The path is a JSON Pointer over record keys, e.g. "/Routes/0/Distance".
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...Rule) Rule {
	inner := And(rules...)
	return func(v any) []skema.Issue {
		if !evalConditional(v, c) {
			return nil
		}
		return inner(v)
	}
}

// AtLeastOne ensures the collection at collectionPath has at least 1 element.
func AtLeastOne(collectionPath string) Rule {
	p := normalizePath(collectionPath)
	return func(v any) []skema.Issue {
		val, ok := valueAtPath(v, p)
		if !ok {
			return nil
		}
		rv := reflect.ValueOf(val)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if rv.Len() == 0 {
				it := issueAt(p, "at least 1 item is required", map[string]any{"minItems": 1})
				it.Rule = "at_least_one"
				return []skema.Issue{it}
			}
		}
		return nil
	}
}

// UniqueBy ensures elements in a collection have unique key values.
// collectionPath is JSON Pointer to a slice (e.g., "/Waypoints").
// keyPath is a relative path inside each element (e.g., "Name" or "/Name").
func UniqueBy(collectionPath, keyPath string) Rule {
	cp := normalizePath(collectionPath)
	kp := strings.TrimPrefix(keyPath, "/")
	return func(v any) []skema.Issue {
		val, ok := valueAtPath(v, cp)
		if !ok {
			return nil
		}
		rv := reflect.ValueOf(val)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil
		}
		seen := map[string]int{}
		var out []skema.Issue
		for i := 0; i < rv.Len(); i++ {
			kv, ok := valueAtPathWithin(rv.Index(i).Interface(), kp)
			if !ok {
				continue
			}
			key := fmt.Sprint(kv)
			if j, dup := seen[key]; dup {
				it := issueAt(fmt.Sprintf("%s/%d/%s", strings.TrimSuffix(cp, "/"), i, kp), "duplicate value", map[string]any{"first": j, "dup": i, "key": key})
				it.Rule = "unique_by"
				out = append(out, it)
			} else {
				seen[key] = i
			}
		}
		return out
	}
}

// And executes all rules and concatenates Issues.
func And(rules ...Rule) Rule {
	return func(v any) []skema.Issue {
		var out []skema.Issue
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = append(out, r(v)...)
		}
		return out
	}
}

// Or succeeds if any rule returns no Issues. When all fail, the branch with
// the fewest Issues is returned.
func Or(rules ...Rule) Rule {
	return func(v any) []skema.Issue {
		var best []skema.Issue
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r(v)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		return best
	}
}

// ------- helpers -------

func issueAt(path, msg string, params map[string]any) skema.Issue {
	return skema.IssueAt(skema.ParsePath(path), skema.CodeBusinessRule, msg, params)
}

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func evalConditional(v any, c Conditional) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !evalConditional(v, it) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if evalConditional(v, it) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAtPath(v, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// valueAtPath navigates v (record map, slice or struct) by JSON Pointer.
// Struct fields are matched by skema.ResolveStructKey.
func valueAtPath(v any, pointer string) (any, bool) {
	return valueAtPathWithin(v, strings.TrimPrefix(pointer, "/"))
}

func valueAtPathWithin(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := reflect.ValueOf(v)
	for _, seg := range strings.Split(rel, "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		for cur.IsValid() && (cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface) {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		if !cur.IsValid() {
			return nil, false
		}
		switch cur.Kind() {
		case reflect.Struct:
			found := false
			rt := cur.Type()
			for i := 0; i < rt.NumField(); i++ {
				sf := rt.Field(i)
				if sf.IsExported() && skema.ResolveStructKey(sf) == seg {
					cur = cur.Field(i)
					found = true
					break
				}
			}
			if !found {
				return nil, false
			}
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			mv := cur.MapIndex(reflect.ValueOf(seg).Convert(cur.Type().Key()))
			if !mv.IsValid() {
				return nil, false
			}
			cur = mv
		case reflect.Slice, reflect.Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(idx)
		default:
			return nil, false
		}
	}
	for cur.IsValid() && (cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface) {
		if cur.IsNil() {
			return nil, false
		}
		cur = cur.Elem()
	}
	if !cur.IsValid() {
		return nil, false
	}
	return cur.Interface(), true
}

func compare(cur any, op Op, want any) bool {
	a, aNum := number(cur)
	b, bNum := number(want)
	switch op {
	case Eq:
		if aNum && bNum {
			return a == b
		}
		return reflect.DeepEqual(cur, want)
	case Ne:
		if aNum && bNum {
			return a != b
		}
		return !reflect.DeepEqual(cur, want)
	}
	if !aNum || !bNum {
		return false
	}
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

// number converts any Go or JSON number kind to float64.
func number(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
