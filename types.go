package skema

// UnknownPolicy controls how undeclared keys of an object are handled.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownPassthrough                      // Copy unknown keys verbatim under their own name.
	UnknownStrip                            // Drop unknown keys.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownPassthrough:
		return "passthrough"
	case UnknownStrip:
		return "strip"
	default:
		return "strict"
	}
}

// NumberMode dictates how decoded numbers are represented.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Fast mode (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number.
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Ignore, Warn or Error (duplicate JSON keys).
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt bundles parsing options. When several are passed the last one wins.
type DecodeOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	NumberMode NumberMode
	// OnWarning receives non-fatal issues (duplicate keys under Warn).
	OnWarning func(Issue)
}

// EncodeOpt bundles serialization options.
type EncodeOpt struct {
	// Indent enables indented output when non-empty.
	Indent string
}

func lastDecodeOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) == 0 {
		return DecodeOpt{}
	}
	return opts[len(opts)-1]
}

func lastEncodeOpt(opts []EncodeOpt) EncodeOpt {
	if len(opts) == 0 {
		return EncodeOpt{}
	}
	return opts[len(opts)-1]
}
