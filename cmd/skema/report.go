package main

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/reoring/skema"
)

type issueView struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
	Rule    string `json:"rule,omitempty"`
}

// writeIssues prints issues as {"issues":[...]} on w.
func writeIssues(w io.Writer, iss skema.Issues) error {
	views := make([]issueView, len(iss))
	for i, it := range iss {
		views[i] = issueView{Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint, Rule: it.Rule}
	}
	b, err := json.MarshalIndent(map[string]any{"issues": views}, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// reportErr prints validation issues and returns exitInvalid; any other
// error is logged and mapped to exitUsage.
func reportErr(e *env, err error) int {
	if iss, ok := skema.AsIssues(err); ok {
		e.log.Info("document invalid", "issues", len(iss), "first", iss[0].String())
		if werr := writeIssues(e.stdout, iss); werr != nil {
			e.log.Error("write issues", "err", werr)
		}
		return exitInvalid
	}
	e.log.Error("failed", "err", err)
	return exitUsage
}

func warnSink(e *env) func(skema.Issue) {
	return func(it skema.Issue) {
		e.log.Warn("decode warning", "code", it.Code, "path", it.Path, "hint", it.Hint)
	}
}
