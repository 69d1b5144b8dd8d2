package skema

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
// Segments are shared between derived paths, so Field and Index are cheap and
// the pointer string is only rendered when an issue is reported.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code, msg string, kv ...any) Issue
}

// RootPath returns the path of the document root ("/").
func RootPath() PathRef { return (*pathRef)(nil) }

// ParsePath converts a JSON Pointer into a PathRef. Numeric tokens become
// field segments since a pointer does not distinguish them.
func ParsePath(pointer string) PathRef {
	var p PathRef = RootPath()
	for _, tok := range strings.Split(pointer, "/") {
		if tok == "" {
			continue
		}
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		p = p.Field(tok)
	}
	return p
}

type pathRef struct {
	parent *pathRef
	name   string
	index  int
	isIdx  bool
}

func (p *pathRef) Field(name string) PathRef {
	return &pathRef{parent: p, name: name}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parent: p, index: i, isIdx: true}
}

func (p *pathRef) Pointer() string {
	if p == nil {
		return "/"
	}
	var segs []string
	for cur := p; cur != nil; cur = cur.parent {
		if cur.isIdx {
			segs = append(segs, strconv.Itoa(cur.index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		segs = append(segs, strings.ReplaceAll(strings.ReplaceAll(cur.name, "~", "~0"), "/", "~1"))
	}
	b := &strings.Builder{}
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(segs[i])
	}
	return b.String()
}

func (p *pathRef) Issue(code, msg string, kv ...any) Issue {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: m}
}
