package skema

import "github.com/reoring/skema/i18n"

// IssueAt creates an Issue at the given path with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

func singleIssue(p PathRef, code, hint string, params map[string]any) Issues {
	return Issues{Issue{Path: p.Pointer(), Code: code, Message: i18n.T(code, stringParams(params)), Hint: hint, Params: params}}
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		switch t := v.(type) {
		case string:
			out[k] = t
		case []string:
			out[k] = joinQuoted(t)
		}
	}
	return out
}

func joinQuoted(ss []string) string {
	b := make([]byte, 0, 8*len(ss))
	for i, s := range ss {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = append(b, '"')
		b = append(b, s...)
		b = append(b, '"')
	}
	return string(b)
}
