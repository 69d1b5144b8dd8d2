package main

import (
	"os"

	"github.com/reoring/skema"
	"github.com/reoring/skema/rules"
	"github.com/reoring/skema/schemafile"
)

func validateCmd(e *env, args []string) int {
	fs := newFlagSet(e, "validate")
	var (
		c          common
		schemaPath string
		typeName   string
		cfgPath    string
		out        string
		asserts    multiFlag
	)
	c.register(fs)
	fs.StringVar(&schemaPath, "schema", "", "YAML schema definition file")
	fs.StringVar(&typeName, "type", "", "root schema name")
	fs.StringVar(&cfgPath, "config", "", "YAML config file")
	fs.StringVar(&out, "o", "", "write the re-encoded document to this file (- for stdout)")
	fs.Var(&asserts, "assert", "CEL assertion over self (repeatable)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if !c.apply(e) {
		return exitUsage
	}
	if schemaPath == "" || typeName == "" || fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	reg, err := schemafile.LoadFile(schemaPath)
	if err != nil {
		e.log.Error("load schema", "path", schemaPath, "err", err)
		return exitUsage
	}
	e.log.Debug("schema loaded", "path", schemaPath, "schemas", len(reg.Names()))

	cfg, rule, opt, ok := prepare(e, cfgPath, asserts)
	if !ok {
		return exitUsage
	}
	data, err := readInput(e, fs.Arg(0))
	if err != nil {
		e.log.Error("read input", "err", err)
		return exitUsage
	}
	rec, code := decodeAndCheck(e, reg, typeName, data, opt, rule)
	if code != exitOK {
		return code
	}
	e.log.Info("document valid", "type", typeName, "bytes", len(data))

	if out == "" {
		return exitOK
	}
	b, err := reg.Encode(rec, typeName, skema.EncodeOpt{Indent: cfg.Encode.Indent})
	if err != nil {
		return reportErr(e, err)
	}
	b = append(b, '\n')
	if out == "-" {
		_, err = e.stdout.Write(b)
	} else {
		err = os.WriteFile(out, b, 0o644)
	}
	if err != nil {
		e.log.Error("write output", "err", err)
		return exitUsage
	}
	return exitOK
}

// prepare loads the config and compiles its rules.
func prepare(e *env, cfgPath string, asserts []string) (config, rules.Rule, skema.DecodeOpt, bool) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		e.log.Error("load config", "err", err)
		return cfg, nil, skema.DecodeOpt{}, false
	}
	opt, err := cfg.decodeOpt()
	if err != nil {
		e.log.Error("load config", "err", err)
		return cfg, nil, opt, false
	}
	opt.OnWarning = warnSink(e)
	rule, err := cfg.ruleSet(asserts)
	if err != nil {
		e.log.Error("compile rules", "err", err)
		return cfg, nil, opt, false
	}
	return cfg, rule, opt, true
}

// decodeAndCheck decodes data against root, then runs rule over the wire
// form of the record. It returns the record.
func decodeAndCheck(e *env, reg *skema.Registry, root string, data []byte, opt skema.DecodeOpt, rule rules.Rule) (any, int) {
	rec, err := reg.Decode(data, root, opt)
	if err != nil {
		return nil, reportErr(e, err)
	}
	if rule == nil {
		return rec, exitOK
	}
	wire, err := reg.EncodeValue(rec, root)
	if err != nil {
		return nil, reportErr(e, err)
	}
	if err := rules.Check(wire, rule); err != nil {
		return nil, reportErr(e, err)
	}
	return rec, exitOK
}
