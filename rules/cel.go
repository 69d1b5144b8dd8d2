package rules

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	json "github.com/goccy/go-json"

	"github.com/reoring/skema"
)

// SelfVar is the CEL variable bound to the checked value.
const SelfVar = "self"

// ErrNotBool is reported when an assertion does not evaluate to a bool.
var ErrNotBool = errors.New("rules: assertion did not evaluate to bool")

// Assertion is a CEL expression that must evaluate to true for the value
// bound to self. For example:
//
//	{Name: "has_route", Expr: "self.routes.size() > 0"}
type Assertion struct {
	Name    string `yaml:"name"`
	Expr    string `yaml:"expr"`
	Message string `yaml:"message"`
	// Path is the JSON Pointer reported on failure; defaults to "/".
	Path string `yaml:"path"`
}

type compiled struct {
	Assertion
	prg cel.Program
}

// CEL compiles the assertions into a Rule. All compile errors are returned
// joined.
func CEL(asserts ...Assertion) (Rule, error) {
	env, err := cel.NewEnv(
		cel.Variable(SelfVar, cel.DynType),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, err
	}
	progs := make([]compiled, 0, len(asserts))
	var errs []error
	for _, a := range asserts {
		ast, iss := env.Compile(a.Expr)
		if iss.Err() != nil {
			errs = append(errs, fmt.Errorf("rules: compile %q: %w", a.Expr, iss.Err()))
			continue
		}
		prg, err := env.Program(ast)
		if err != nil {
			errs = append(errs, fmt.Errorf("rules: program %q: %w", a.Expr, err))
			continue
		}
		progs = append(progs, compiled{Assertion: a, prg: prg})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return func(v any) []skema.Issue {
		in := map[string]any{SelfVar: celValue(v)}
		var out []skema.Issue
		for _, c := range progs {
			val, _, err := c.prg.Eval(in)
			if err == nil {
				b, ok := val.Value().(bool)
				if ok && b {
					continue
				}
				if !ok {
					err = ErrNotBool
				}
			}
			out = append(out, c.issue(err))
		}
		return out
	}, nil
}

// MustCEL is like CEL but panics on compile errors.
func MustCEL(asserts ...Assertion) Rule {
	r, err := CEL(asserts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (c compiled) issue(err error) skema.Issue {
	msg := c.Message
	if msg == "" {
		msg = "assertion failed: " + c.Expr
	}
	path := c.Path
	if path == "" {
		path = "/"
	}
	it := issueAt(normalizePath(path), msg, map[string]any{"expr": c.Expr})
	it.Rule = c.Name
	if err != nil {
		it.Hint = err.Error()
		it.Cause = err
	}
	return it
}

// celValue converts numbers CEL cannot adapt (json.Number) to float64.
func celValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = celValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = celValue(e)
		}
		return out
	}
	return v
}
