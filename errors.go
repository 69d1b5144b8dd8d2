package skema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeParseError   = "parse_error"
	CodeInvalidType  = "invalid_type"
	CodeInvalidEnum  = "invalid_enum"
	CodeUnionNoMatch = "union_no_match"
	CodeUnknownKey   = "unknown_key"
	CodeRequired     = "required"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
	// Post-decode rules (business semantics)
	CodeBusinessRule = "business_rule"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /routes/0/legs/2/summary).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected kinds, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"expected":"number","actual":"string"})
	// for i18n and observability.
	Params map[string]any
	// Rule optionally records the rule name that produced this issue.
	Rule string
}

func (it Issue) String() string {
	if it.Message == "" {
		return it.Code + " at " + it.Path
	}
	return it.Code + " at " + it.Path + ": " + it.Message
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an Issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// Configuration errors. These describe defects in the schema graph itself and
// are never returned as Issues.
var (
	ErrUnresolvedRef     = errors.New("skema: unresolved reference")
	ErrDuplicateName     = errors.New("skema: duplicate schema name")
	ErrNonBijectiveField = errors.New("skema: field mapping is not bijective")
	ErrEmptyNode         = errors.New("skema: empty node")
	ErrUnknownSchema     = errors.New("skema: unknown schema")
	ErrRefCycle          = errors.New("skema: reference cycle")
)

// ConfigError locates a schema configuration defect. Schema is the registered
// name the defect was found under and Path the JSON Pointer inside that node.
type ConfigError struct {
	Schema string
	Path   string
	Detail string
	Err    error
}

func (e *ConfigError) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Err.Error())
	if e.Schema != "" {
		fmt.Fprintf(b, " in %q", e.Schema)
	}
	if e.Path != "" && e.Path != "/" {
		fmt.Fprintf(b, " at %s", e.Path)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }
