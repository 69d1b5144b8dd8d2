package engine

import (
	"errors"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// Enforcement applied while the value tree is built: duplicate key policy and
// maximum nesting depth.

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	// UseNumber keeps numbers as json.Number instead of float64.
	UseNumber bool
	// IssueSink receives non-fatal issues (duplicate keys under DupWarn).
	IssueSink func(SimpleIssue)
}

// DecodeTree builds a generic value (map[string]any, []any, string, bool,
// float64 or json.Number, nil) from src and requires src to hold exactly one
// top-level value.
func DecodeTree(src TokenSource, opt EnforceOptions) (any, error) {
	b := &treeBuilder{src: src, opt: opt}
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := b.value(tok, nil, 0)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, IssueError{SimpleIssue{Code: "parse_error", Path: "/", Message: "unexpected data after top-level value"}}
	}
	return v, nil
}

// segment is one step of the path of the value being built; paths are only
// rendered when an issue is reported.
type segment struct {
	parent *segment
	token  string
}

func (s *segment) pointer() string {
	if s == nil {
		return "/"
	}
	var toks []string
	for cur := s; cur != nil; cur = cur.parent {
		toks = append(toks, jsonPointerEscaper.Replace(cur.token))
	}
	b := &strings.Builder{}
	for i := len(toks) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(toks[i])
	}
	return b.String()
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

type treeBuilder struct {
	src TokenSource
	opt EnforceOptions
}

func (b *treeBuilder) value(tok Token, at *segment, depth int) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		if err := b.checkDepth(at, depth+1); err != nil {
			return nil, err
		}
		return b.object(at, depth+1)
	case KindBeginArray:
		if err := b.checkDepth(at, depth+1); err != nil {
			return nil, err
		}
		return b.array(at, depth+1)
	case KindString:
		return tok.String, nil
	case KindNumber:
		if b.opt.UseNumber {
			return j.Number(tok.Number), nil
		}
		return strconv.ParseFloat(tok.Number, 64)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func (b *treeBuilder) checkDepth(at *segment, depth int) error {
	if b.opt.MaxDepth > 0 && depth > b.opt.MaxDepth {
		return IssueError{SimpleIssue{Code: "parse_error", Path: at.pointer(), Message: "max depth exceeded"}}
	}
	return nil
}

func (b *treeBuilder) object(at *segment, depth int) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := b.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		child := &segment{parent: at, token: tok.String}
		if _, dup := m[tok.String]; dup && b.opt.OnDuplicate != DupIgnore {
			si := SimpleIssue{Code: "duplicate_key", Path: child.pointer(), Message: "key '" + tok.String + "' duplicated"}
			if b.opt.OnDuplicate == DupError {
				return nil, IssueError{si}
			}
			if b.opt.IssueSink != nil {
				b.opt.IssueSink(si)
			}
		}
		vt, err := b.next()
		if err != nil {
			return nil, err
		}
		v, err := b.value(vt, child, depth)
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func (b *treeBuilder) array(at *segment, depth int) (any, error) {
	arr := []any{}
	for i := 0; ; i++ {
		tok, err := b.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := b.value(tok, &segment{parent: at, token: strconv.Itoa(i)}, depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// next reads a token inside a container, where EOF means truncated input.
func (b *treeBuilder) next() (Token, error) {
	tok, err := b.src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}
