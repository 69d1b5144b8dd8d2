package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/skema"
	"github.com/reoring/skema/rules"
)

// config is the optional YAML file passed with -config.
//
//	decode:
//	  duplicate_keys: error   # ignore | warn | error
//	  max_depth: 64
//	  max_bytes: 1048576
//	  numbers: json_number    # float64 | json_number
//	encode:
//	  indent: "  "
//	rules:
//	  - name: has_route
//	    expr: self.routes.size() > 0
type config struct {
	Decode struct {
		DuplicateKeys string `yaml:"duplicate_keys"`
		MaxDepth      int    `yaml:"max_depth"`
		MaxBytes      int64  `yaml:"max_bytes"`
		Numbers       string `yaml:"numbers"`
	} `yaml:"decode"`
	Encode struct {
		Indent string `yaml:"indent"`
	} `yaml:"encode"`
	Rules []rules.Assertion `yaml:"rules"`
}

func loadConfig(path string) (config, error) {
	var c config
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c config) decodeOpt() (skema.DecodeOpt, error) {
	opt := skema.DecodeOpt{MaxDepth: c.Decode.MaxDepth, MaxBytes: c.Decode.MaxBytes}
	switch c.Decode.DuplicateKeys {
	case "", "ignore":
		opt.Strictness.OnDuplicateKey = skema.Ignore
	case "warn":
		opt.Strictness.OnDuplicateKey = skema.Warn
	case "error":
		opt.Strictness.OnDuplicateKey = skema.Error
	default:
		return opt, fmt.Errorf("config: duplicate_keys must be ignore, warn or error, got %q", c.Decode.DuplicateKeys)
	}
	switch c.Decode.Numbers {
	case "", "float64":
		opt.NumberMode = skema.NumberFloat64
	case "json_number":
		opt.NumberMode = skema.NumberJSONNumber
	default:
		return opt, fmt.Errorf("config: numbers must be float64 or json_number, got %q", c.Decode.Numbers)
	}
	return opt, nil
}

// ruleSet compiles config rules plus -assert expressions.
func (c config) ruleSet(asserts []string) (rules.Rule, error) {
	all := append([]rules.Assertion(nil), c.Rules...)
	for _, a := range asserts {
		all = append(all, rules.Assertion{Expr: a})
	}
	if len(all) == 0 {
		return nil, nil
	}
	return rules.CEL(all...)
}
