package skema

import (
	"errors"
	"io"

	json "github.com/goccy/go-json"

	"github.com/reoring/skema/i18n"
	eng "github.com/reoring/skema/internal/engine"
)

// Decode parses JSON text and decodes it against the schema registered as
// root. The result is a record keyed by internal names (map[string]any for
// objects). Malformed text yields a parse_error issue; an unregistered root
// yields a *ConfigError.
func (r *Registry) Decode(data []byte, root string, opts ...DecodeOpt) (any, error) {
	n, err := r.root(root)
	if err != nil {
		return nil, err
	}
	opt := lastDecodeOpt(opts)
	v, iss := parseJSON(data, opt)
	if iss != nil {
		return nil, iss
	}
	return r.decodeNode(n, v, opt.NumberMode)
}

// DecodeValue decodes an already parsed JSON value (as produced by
// encoding/json or go-json into an any) against root.
func (r *Registry) DecodeValue(v any, root string, opts ...DecodeOpt) (any, error) {
	n, err := r.root(root)
	if err != nil {
		return nil, err
	}
	return r.decodeNode(n, v, lastDecodeOpt(opts).NumberMode)
}

func (r *Registry) decodeNode(n Node, v any, mode NumberMode) (any, error) {
	d := &decoder{reg: r, mode: mode}
	out, iss := d.decode(n, v, RootPath())
	if iss != nil {
		return nil, iss
	}
	if isMissing(out) {
		return nil, nil
	}
	return out, nil
}

// Encode encodes a record (or a Go struct, see Unbind) against root and
// serializes the wire value to JSON text.
func (r *Registry) Encode(v any, root string, opts ...EncodeOpt) ([]byte, error) {
	wire, err := r.EncodeValue(v, root)
	if err != nil {
		return nil, err
	}
	return marshal(wire, lastEncodeOpt(opts))
}

// EncodeValue encodes a record (or a Go struct) against root and returns the
// wire value tree keyed by external names.
func (r *Registry) EncodeValue(v any, root string) (any, error) {
	n, err := r.root(root)
	if err != nil {
		return nil, err
	}
	if isStructValue(v) {
		rec, err := r.unbindNode(n, v)
		if err != nil {
			return nil, err
		}
		v = rec
	}
	e := &encoder{reg: r}
	out, iss := e.encode(n, v, RootPath())
	if iss != nil {
		return nil, iss
	}
	if isMissing(out) {
		return nil, nil
	}
	return out, nil
}

// Codec binds a Registry root to a Go type T.
type Codec[T any] struct {
	reg  *Registry
	root string
}

// NewCodec returns a typed codec for root. T is usually a struct whose field
// names (or skema:"name=..." tags) are the internal names of root.
func NewCodec[T any](reg *Registry, root string) (*Codec[T], error) {
	if _, err := reg.root(root); err != nil {
		return nil, err
	}
	return &Codec[T]{reg: reg, root: root}, nil
}

// MustCodec is like NewCodec but panics on error.
func MustCodec[T any](reg *Registry, root string) *Codec[T] {
	c, err := NewCodec[T](reg, root)
	if err != nil {
		panic(err)
	}
	return c
}

// Root returns the schema name the codec is bound to.
func (c *Codec[T]) Root() string { return c.root }

// Registry returns the registry the codec resolves names against.
func (c *Codec[T]) Registry() *Registry { return c.reg }

// Decode parses data and binds the decoded record into a T.
func (c *Codec[T]) Decode(data []byte, opts ...DecodeOpt) (T, error) {
	var out T
	rec, err := c.reg.Decode(data, c.root, opts...)
	if err != nil {
		return out, err
	}
	if err := Bind(rec, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Encode validates v against the root schema and serializes it.
func (c *Codec[T]) Encode(v T, opts ...EncodeOpt) ([]byte, error) {
	n, err := c.reg.root(c.root)
	if err != nil {
		return nil, err
	}
	rec, err := c.reg.unbindNode(n, v)
	if err != nil {
		return nil, err
	}
	return c.reg.Encode(rec, c.root, opts...)
}

// ---- parsing and serialization ----

func parseJSON(data []byte, opt DecodeOpt) (any, Issues) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, Issues{Issue{Path: "/", Code: CodeTruncated, Message: i18n.T(CodeTruncated, nil), Hint: "max bytes exceeded"}}
	}
	if err := eng.CheckSyntax(data); err != nil {
		return nil, toIssues(err)
	}
	var sink func(eng.SimpleIssue)
	if opt.OnWarning != nil {
		sink = func(si eng.SimpleIssue) {
			opt.OnWarning(Issue{Path: si.Path, Code: si.Code, Message: si.Message})
		}
	}
	v, err := eng.DecodeTree(eng.NewBytes(data), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		UseNumber:   opt.NumberMode == NumberJSONNumber,
		IssueSink:   sink,
	})
	if err != nil {
		return nil, toIssues(err)
	}
	return v, nil
}

func marshal(v any, opt EncodeOpt) ([]byte, error) {
	if opt.Indent != "" {
		return json.MarshalIndent(v, "", opt.Indent)
	}
	return json.Marshal(v)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

// toIssues maps engine and decoder errors to a single parse-level Issue.
func toIssues(err error) Issues {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{Issue{Code: ie.Code, Path: ie.Path, Message: i18n.T(ie.Code, nil), Hint: ie.Message}}
	}
	hint := err.Error()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		hint = "unexpected end of input"
	}
	return Issues{Issue{Code: CodeParseError, Path: "/", Message: i18n.T(CodeParseError, nil), Hint: hint, Cause: err}}
}
