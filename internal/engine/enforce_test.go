package engine

import (
	"errors"
	"io"
	"reflect"
	"testing"

	j "github.com/goccy/go-json"
)

func TestDecodeTree_Values(t *testing.T) {
	v, err := DecodeTree(NewBytes([]byte(`{"a":[1,"x",true,null,{}],"b":[]}`)), EnforceOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"a": []any{1.0, "x", true, nil, map[string]any{}}, "b": []any{}}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v", v)
	}
}

func TestDecodeTree_UseNumber(t *testing.T) {
	v, err := DecodeTree(NewBytes([]byte(`[1.10, 9007199254740993]`)), EnforceOptions{UseNumber: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []any{j.Number("1.10"), j.Number("9007199254740993")}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v", v)
	}
}

func TestDecodeTree_Duplicates(t *testing.T) {
	in := []byte(`{"o":{"k":1,"k":2}}`)

	v, err := DecodeTree(NewBytes(in), EnforceOptions{OnDuplicate: DupIgnore})
	if err != nil || v.(map[string]any)["o"].(map[string]any)["k"] != 2.0 {
		t.Fatalf("ignore: %v %v", v, err)
	}

	var got []SimpleIssue
	_, err = DecodeTree(NewBytes(in), EnforceOptions{OnDuplicate: DupWarn, IssueSink: func(si SimpleIssue) { got = append(got, si) }})
	if err != nil || len(got) != 1 || got[0].Path != "/o/k" || got[0].Code != "duplicate_key" {
		t.Fatalf("warn: %v %v", got, err)
	}

	_, err = DecodeTree(NewBytes(in), EnforceOptions{OnDuplicate: DupError})
	var ie IssueError
	if !errors.As(err, &ie) || ie.Path != "/o/k" {
		t.Fatalf("error: %v", err)
	}
}

func TestDecodeTree_Depth(t *testing.T) {
	_, err := DecodeTree(NewBytes([]byte(`{"a":{"b~/":{}}}`)), EnforceOptions{MaxDepth: 2})
	var ie IssueError
	if !errors.As(err, &ie) || ie.Path != "/a/b~0~1" {
		t.Fatalf("want depth issue at /a/b~0~1, got %v", err)
	}
	if _, err := DecodeTree(NewBytes([]byte(`{"a":{"b":{}}}`)), EnforceOptions{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 should pass: %v", err)
	}
}

func TestDecodeTree_Truncated(t *testing.T) {
	for _, in := range []string{``, `[`, `{"a":1`, `{"a":`} {
		_, err := DecodeTree(NewBytes([]byte(in)), EnforceOptions{})
		if err == nil {
			t.Fatalf("%q: expected error", in)
		}
		if in == `` {
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Fatalf("%q: want ErrUnexpectedEOF, got %v", in, err)
			}
		}
	}
}

func TestDecodeTree_TrailingData(t *testing.T) {
	_, err := DecodeTree(NewBytes([]byte(`{} []`)), EnforceOptions{})
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != "parse_error" {
		t.Fatalf("want trailing data issue, got %v", err)
	}
}

type fakeSource struct{ toks []Token }

func (f *fakeSource) NextToken() (Token, error) {
	if len(f.toks) == 0 {
		return Token{}, io.EOF
	}
	t := f.toks[0]
	f.toks = f.toks[1:]
	return t, nil
}

func TestDecodeTree_CustomSource(t *testing.T) {
	src := &fakeSource{toks: []Token{
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "n"},
		{Kind: KindNumber, Number: "3"},
		{Kind: KindEndObject},
	}}
	v, err := DecodeTree(src, EnforceOptions{})
	if err != nil || !reflect.DeepEqual(v, map[string]any{"n": 3.0}) {
		t.Fatalf("got %v %v", v, err)
	}
}

func TestCheckSyntax(t *testing.T) {
	for _, in := range []string{`{}`, ` [1, 2] `, `"x"`, `{"a":{"b":[null,true]}}`} {
		if err := CheckSyntax([]byte(in)); err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
	}
	for _, in := range []string{`[1 2]`, `{"a" 1}`, `{"a":1,}`, `[1,]`, `[,1]`, `{,}`, `tru`, `{"a":1 "b":2}`, `{} {}`} {
		if err := CheckSyntax([]byte(in)); err == nil {
			t.Fatalf("%q: expected syntax error", in)
		}
	}
	if err := CheckSyntax([]byte(" \n")); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("blank input: %v", err)
	}
	if err := CheckSyntax([]byte("\"\xff\"")); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("invalid UTF-8: %v", err)
	}
}
