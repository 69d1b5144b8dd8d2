// Package schemafile loads schema registries from YAML definition files.
//
// A file declares named schemas under "schemas". Object fields keep their
// declaration order:
//
//	schemas:
//	  Lane:
//	    object:
//	      unknown: strict          # strict | passthrough | strip
//	      fields:
//	        - json: indications
//	          name: Indications    # internal name, defaults to json
//	          type: {array: {ref: Indication}}
//	        - json: valid_indication
//	          name: ValidIndication
//	          optional: true
//	          type: {ref: Indication}
//	        - {json: valid, name: Valid, type: boolean}
//	  Indication:
//	    enum: [left, straight]
//
// Scalar types are written as strings: string, number, boolean, any, absent.
// Composite types are single-key maps: array, object, union, optional, enum
// and ref.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/skema"
)

// SyntaxError reports a malformed schema definition with its position.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("schemafile: %d:%d: %s", e.Line, e.Col, e.Msg)
}

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("schemafile: duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// ErrNoSchemas is returned for a document without a "schemas" mapping.
var ErrNoSchemas = errors.New("schemafile: no schemas declared")

// Load parses data and builds a Registry from it.
func Load(data []byte) (*skema.Registry, error) {
	b, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// LoadFile reads and loads the file at path.
func LoadFile(path string) (*skema.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Parse converts the schema definitions into a RegistryBuilder so callers may
// register more nodes before building. Reference resolution happens at Build.
func Parse(data []byte) (*skema.RegistryBuilder, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoSchemas
		}
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, ErrNoSchemas
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, syntaxErr(root, "top level must be a mapping")
	}
	pairs, err := mappingPairs(root)
	if err != nil {
		return nil, err
	}
	var schemas *yaml.Node
	for _, p := range pairs {
		switch p.key.Value {
		case "schemas":
			schemas = p.val
		default:
			return nil, syntaxErr(p.key, "unknown top-level key "+p.key.Value)
		}
	}
	if schemas == nil || schemas.Kind != yaml.MappingNode || len(schemas.Content) == 0 {
		return nil, ErrNoSchemas
	}
	defs, err := mappingPairs(schemas)
	if err != nil {
		return nil, err
	}
	b := skema.NewRegistryBuilder()
	for _, d := range defs {
		n, err := typeNode(d.val)
		if err != nil {
			return nil, err
		}
		b.Register(d.key.Value, n)
	}
	return b, nil
}

type pair struct{ key, val *yaml.Node }

// mappingPairs returns the entries of a mapping in order and rejects
// duplicate keys.
func mappingPairs(n *yaml.Node) ([]pair, error) {
	out := make([]pair, 0, len(n.Content)/2)
	first := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, syntaxErr(k, "mapping keys must be scalars")
		}
		if f, dup := first[k.Value]; dup {
			return nil, &DuplicateKeyError{Key: k.Value, FirstLine: f.Line, FirstCol: f.Column, Line: k.Line, Col: k.Column}
		}
		first[k.Value] = k
		out = append(out, pair{key: k, val: v})
	}
	return out, nil
}

func typeNode(n *yaml.Node) (skema.Node, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Value {
		case "string":
			return skema.String(), nil
		case "number":
			return skema.Number(), nil
		case "boolean":
			return skema.Boolean(), nil
		case "any":
			return skema.Any(), nil
		case "absent":
			return skema.Absent(), nil
		}
		return nil, syntaxErr(n, "unknown scalar type "+n.Value)
	case yaml.MappingNode:
	default:
		return nil, syntaxErr(n, "type must be a scalar name or a single-key mapping")
	}
	pairs, err := mappingPairs(n)
	if err != nil {
		return nil, err
	}
	if len(pairs) != 1 {
		return nil, syntaxErr(n, "type mapping must have exactly one key")
	}
	k, v := pairs[0].key, pairs[0].val
	switch k.Value {
	case "array":
		elem, err := typeNode(v)
		if err != nil {
			return nil, err
		}
		return skema.Array(elem), nil
	case "optional":
		inner, err := typeNode(v)
		if err != nil {
			return nil, err
		}
		return skema.Optional(inner), nil
	case "union":
		if v.Kind != yaml.SequenceNode {
			return nil, syntaxErr(v, "union expects a sequence of types")
		}
		members := make([]skema.Node, 0, len(v.Content))
		for _, c := range v.Content {
			m, err := typeNode(c)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return skema.Union(members...), nil
	case "enum":
		if v.Kind != yaml.SequenceNode {
			return nil, syntaxErr(v, "enum expects a sequence of strings")
		}
		vals := make([]string, 0, len(v.Content))
		for _, c := range v.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, syntaxErr(c, "enum values must be scalars")
			}
			vals = append(vals, c.Value)
		}
		return skema.Enum(vals...), nil
	case "ref":
		if v.Kind != yaml.ScalarNode || v.Value == "" {
			return nil, syntaxErr(v, "ref expects a schema name")
		}
		return skema.Ref(v.Value), nil
	case "object":
		return objectNode(v)
	}
	return nil, syntaxErr(k, "unknown type "+k.Value)
}

// fieldDef mirrors one entry of an object's fields list.
type fieldDef struct {
	JSON     string    `yaml:"json"`
	Name     string    `yaml:"name"`
	Optional bool      `yaml:"optional"`
	Type     yaml.Node `yaml:"type"`
}

func objectNode(n *yaml.Node) (skema.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, syntaxErr(n, "object expects a mapping")
	}
	pairs, err := mappingPairs(n)
	if err != nil {
		return nil, err
	}
	policy := skema.UnknownStrict
	var fields []skema.FieldDef
	for _, p := range pairs {
		switch p.key.Value {
		case "unknown":
			switch p.val.Value {
			case "strict":
				policy = skema.UnknownStrict
			case "passthrough":
				policy = skema.UnknownPassthrough
			case "strip":
				policy = skema.UnknownStrip
			default:
				return nil, syntaxErr(p.val, "unknown policy must be strict, passthrough or strip")
			}
		case "fields":
			if p.val.Kind != yaml.SequenceNode {
				return nil, syntaxErr(p.val, "fields expects a sequence")
			}
			for _, fn := range p.val.Content {
				f, err := fieldNode(fn)
				if err != nil {
					return nil, err
				}
				fields = append(fields, f)
			}
		default:
			return nil, syntaxErr(p.key, "unknown object key "+p.key.Value)
		}
	}
	return skema.Object(fields...).WithUnknown(policy), nil
}

func fieldNode(n *yaml.Node) (skema.FieldDef, error) {
	if n.Kind != yaml.MappingNode {
		return skema.FieldDef{}, syntaxErr(n, "field must be a mapping")
	}
	pairs, err := mappingPairs(n)
	if err != nil {
		return skema.FieldDef{}, err
	}
	for _, p := range pairs {
		switch p.key.Value {
		case "json", "name", "optional", "type":
		default:
			return skema.FieldDef{}, syntaxErr(p.key, "unknown field key "+p.key.Value)
		}
	}
	var fd fieldDef
	if err := n.Decode(&fd); err != nil {
		return skema.FieldDef{}, err
	}
	if fd.JSON == "" {
		return skema.FieldDef{}, syntaxErr(n, "field requires a json name")
	}
	if fd.Type.Kind == 0 {
		return skema.FieldDef{}, syntaxErr(n, "field "+fd.JSON+" requires a type")
	}
	t, err := typeNode(&fd.Type)
	if err != nil {
		return skema.FieldDef{}, err
	}
	if fd.Optional {
		t = skema.Optional(t)
	}
	name := fd.Name
	if name == "" {
		name = fd.JSON
	}
	return skema.Field(fd.JSON, name, t), nil
}

func syntaxErr(n *yaml.Node, msg string) error {
	return &SyntaxError{Line: n.Line, Col: n.Column, Msg: msg}
}
