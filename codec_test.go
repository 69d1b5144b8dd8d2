package skema_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	s "github.com/reoring/skema"
)

func TestDecode_DuplicateKeys(t *testing.T) {
	reg := laneRegistry(t)
	in := []byte(`{"indications":[],"valid":true,"valid":false,"active":true}`)

	// Ignore (default): last one wins
	v, err := reg.Decode(in, "Lane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(map[string]any)["Valid"] != false {
		t.Fatalf("last duplicate should win: %v", v)
	}

	// Warn: reported to OnWarning, decode succeeds
	var warned []s.Issue
	_, err = reg.Decode(in, "Lane", s.DecodeOpt{
		Strictness: s.Strictness{OnDuplicateKey: s.Warn},
		OnWarning:  func(it s.Issue) { warned = append(warned, it) },
	})
	if err != nil {
		t.Fatalf("warn mode should succeed: %v", err)
	}
	if len(warned) != 1 || warned[0].Code != s.CodeDuplicateKey || warned[0].Path != "/valid" {
		t.Fatalf("unexpected warnings: %v", warned)
	}

	// Error
	_, err = reg.Decode(in, "Lane", s.DecodeOpt{Strictness: s.Strictness{OnDuplicateKey: s.Error}})
	wantIssue(t, err, s.CodeDuplicateKey, "/valid")
}

func TestDecode_Limits(t *testing.T) {
	reg := s.NewRegistryBuilder().Register("Any", s.Any()).MustBuild()

	_, err := reg.Decode([]byte(`[[[1]]]`), "Any", s.DecodeOpt{MaxDepth: 2})
	it := wantIssue(t, err, s.CodeParseError, "/0/0")
	if !strings.Contains(it.Hint, "depth") {
		t.Fatalf("hint should mention depth: %q", it.Hint)
	}
	if _, err := reg.Decode([]byte(`[[[1]]]`), "Any", s.DecodeOpt{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 should pass: %v", err)
	}

	_, err = reg.Decode([]byte(`"0123456789"`), "Any", s.DecodeOpt{MaxBytes: 8})
	wantIssue(t, err, s.CodeTruncated, "/")

	_, err = reg.Decode([]byte(``), "Any")
	it = wantIssue(t, err, s.CodeParseError, "/")
	if it.Hint != "unexpected end of input" {
		t.Fatalf("unexpected hint %q", it.Hint)
	}
	_, err = reg.Decode([]byte(`[1,2`), "Any")
	wantIssue(t, err, s.CodeParseError, "/")
}

func TestDecode_NumberModes(t *testing.T) {
	reg := s.NewRegistryBuilder().
		Register("N", s.Object(s.Same("n", s.Number()), s.Same("raw", s.Any()))).
		MustBuild()
	in := []byte(`{"n":12345678901234567890,"raw":0.1}`)

	v, err := reg.Decode(in, "N")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(map[string]any)["n"].(float64); !ok {
		t.Fatalf("default mode yields float64, got %T", v.(map[string]any)["n"])
	}

	v, err = reg.Decode(in, "N", s.DecodeOpt{NumberMode: s.NumberJSONNumber})
	if err != nil {
		t.Fatal(err)
	}
	rec := v.(map[string]any)
	if rec["n"] != json.Number("12345678901234567890") || rec["raw"] != json.Number("0.1") {
		t.Fatalf("json.Number mode lost precision: %#v", rec)
	}
	out, err := reg.Encode(rec, "N")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "12345678901234567890") {
		t.Fatalf("encode should keep the literal: %s", out)
	}
}

func TestCodec_UnknownRoot(t *testing.T) {
	reg := laneRegistry(t)

	_, err := reg.Decode([]byte(`{}`), "Nope")
	var ce *s.ConfigError
	if !errors.As(err, &ce) || !errors.Is(err, s.ErrUnknownSchema) {
		t.Fatalf("want ConfigError(ErrUnknownSchema), got %v", err)
	}
	if _, ok := s.AsIssues(err); ok {
		t.Fatalf("unknown root is not a data issue")
	}
	if _, err := reg.Encode(map[string]any{}, "Nope"); !errors.Is(err, s.ErrUnknownSchema) {
		t.Fatalf("encode: %v", err)
	}
	if _, err := reg.JSONSchema("Nope"); !errors.Is(err, s.ErrUnknownSchema) {
		t.Fatalf("jsonschema: %v", err)
	}
	if _, err := s.NewCodec[map[string]any](reg, "Nope"); !errors.Is(err, s.ErrUnknownSchema) {
		t.Fatalf("codec: %v", err)
	}
}

func TestIssues_Helpers(t *testing.T) {
	reg := laneRegistry(t)
	_, err := reg.Decode([]byte(`{"indications":[],"valid":1,"active":true}`), "Lane")
	if !s.HasCode(err, s.CodeInvalidType) || s.HasCode(err, s.CodeRequired) {
		t.Fatalf("HasCode mismatch for %v", err)
	}
	if got := err.Error(); got != "invalid_type at /valid" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	var iss s.Issues
	if !errors.As(err, &iss) || iss[0].Hint != "expected boolean, got number" {
		t.Fatalf("unexpected issues: %#v", iss)
	}
}

func TestConcurrentUse(t *testing.T) {
	reg := laneRegistry(t)
	in := []byte(`{"admin_index":0,"location":[1,2],"lanes":[{"indications":["left"],"valid":true,"active":true}]}`)
	want, err := reg.Decode(in, "Intersection")
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan any, 16)
	for i := 0; i < cap(done); i++ {
		go func() {
			v, err := reg.Decode(in, "Intersection")
			if err != nil {
				done <- err
				return
			}
			done <- v
		}()
	}
	for i := 0; i < cap(done); i++ {
		if got := <-done; !reflect.DeepEqual(got, want) {
			t.Fatalf("concurrent decode diverged: %v", got)
		}
	}
}
