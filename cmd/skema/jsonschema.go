package main

import (
	json "github.com/goccy/go-json"

	"github.com/reoring/skema"
	"github.com/reoring/skema/directions"
	"github.com/reoring/skema/schemafile"
)

func jsonschemaCmd(e *env, args []string) int {
	fs := newFlagSet(e, "jsonschema")
	var (
		c          common
		schemaPath string
		builtin    bool
		typeName   string
	)
	c.register(fs)
	fs.StringVar(&schemaPath, "schema", "", "YAML schema definition file")
	fs.BoolVar(&builtin, "directions", false, "use the built-in directions schema")
	fs.StringVar(&typeName, "type", "", "root schema name")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if !c.apply(e) {
		return exitUsage
	}
	if typeName == "" || (schemaPath == "") == !builtin {
		fs.Usage()
		return exitUsage
	}

	var reg *skema.Registry
	if builtin {
		reg = directions.Registry
	} else {
		var err error
		if reg, err = schemafile.LoadFile(schemaPath); err != nil {
			e.log.Error("load schema", "path", schemaPath, "err", err)
			return exitUsage
		}
	}
	s, err := reg.JSONSchema(typeName)
	if err != nil {
		e.log.Error("export", "type", typeName, "err", err)
		return exitUsage
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		e.log.Error("marshal", "err", err)
		return exitUsage
	}
	b = append(b, '\n')
	if _, err := e.stdout.Write(b); err != nil {
		return exitUsage
	}
	return exitOK
}
