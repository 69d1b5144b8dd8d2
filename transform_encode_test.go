package skema_test

import (
	"reflect"
	"testing"

	json "github.com/goccy/go-json"

	s "github.com/reoring/skema"
)

func TestRoundTrip_Records(t *testing.T) {
	reg := laneRegistry(t)
	inputs := []string{
		`{"admin_index":0,"location":[1.5,-2]}`,
		`{"admin_index":3,"location":[],"is_urban":false,"lanes":[]}`,
		`{"admin_index":1,"location":[0,0],"lanes":[{"indications":["left","straight"],"valid_indication":"left","valid":true,"active":false}]}`,
	}
	for _, in := range inputs {
		rec, err := reg.Decode([]byte(in), "Intersection")
		if err != nil {
			t.Fatalf("decode %s: %v", in, err)
		}
		out, err := reg.Encode(rec, "Intersection")
		if err != nil {
			t.Fatalf("encode %s: %v", in, err)
		}
		again, err := reg.Decode(out, "Intersection")
		if err != nil {
			t.Fatalf("re-decode %s: %v", out, err)
		}
		if !reflect.DeepEqual(rec, again) {
			t.Fatalf("round trip mismatch:\n%#v\n%#v", rec, again)
		}
		var a, b any
		_ = json.Unmarshal([]byte(in), &a)
		_ = json.Unmarshal(out, &b)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("wire changed: %s -> %s", in, out)
		}
	}
}

func TestEncode_Failures(t *testing.T) {
	reg := laneRegistry(t)
	tests := []struct {
		name string
		rec  any
		code string
		path string
	}{
		{"missing required", map[string]any{"Indications": []any{}, "Valid": true}, s.CodeRequired, "/Active"},
		{"wire name in record", map[string]any{"Indications": []any{}, "Valid": true, "Active": true, "valid": true}, s.CodeUnknownKey, "/valid"},
		{"bad enum", map[string]any{"Indications": []any{"up"}, "Valid": true, "Active": true}, s.CodeInvalidEnum, "/Indications/0"},
		{"bad optional", map[string]any{"Indications": []any{}, "ValidIndication": 1, "Valid": true, "Active": true}, s.CodeInvalidEnum, "/ValidIndication"},
		{"kind mismatch", map[string]any{"Indications": "left", "Valid": true, "Active": true}, s.CodeInvalidType, "/Indications"},
		{"not an object", []any{}, s.CodeInvalidType, "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Encode(tt.rec, "Lane")
			wantIssue(t, err, tt.code, tt.path)
		})
	}
}

func TestEncode_UnionByKind(t *testing.T) {
	reg := s.NewRegistryBuilder().
		Register("Cell", s.Object(s.Field("value", "Value", s.Union(s.Number(), s.String(), s.Array(s.Number()))))).
		MustBuild()
	for _, v := range []any{1.0, "x", []any{1.0, 2.0}} {
		out, err := reg.EncodeValue(map[string]any{"Value": v}, "Cell")
		if err != nil {
			t.Fatalf("encode %v: %v", v, err)
		}
		if !reflect.DeepEqual(out, map[string]any{"value": v}) {
			t.Fatalf("unexpected wire %#v", out)
		}
	}
	_, err := reg.EncodeValue(map[string]any{"Value": true}, "Cell")
	wantIssue(t, err, s.CodeUnionNoMatch, "/Value")

	// the member is chosen by kind and not re-tried
	_, err = reg.EncodeValue(map[string]any{"Value": []any{"a"}}, "Cell")
	wantIssue(t, err, s.CodeInvalidType, "/Value/0")
}

func TestEncode_Policies(t *testing.T) {
	fields := []s.FieldDef{s.Field("wire_name", "WireName", s.String())}
	reg := s.NewRegistryBuilder().
		Register("Pass", s.Object(fields...).Passthrough()).
		Register("Strip", s.Object(fields...).Strip()).
		MustBuild()

	out, err := reg.EncodeValue(map[string]any{"WireName": "a", "extra": 1.0}, "Pass")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, map[string]any{"wire_name": "a", "extra": 1.0}) {
		t.Fatalf("passthrough wire %#v", out)
	}
	_, err = reg.EncodeValue(map[string]any{"WireName": "a", "wire_name": "b"}, "Pass")
	wantIssue(t, err, s.CodeUnknownKey, "/wire_name")

	out, err = reg.EncodeValue(map[string]any{"WireName": "a", "extra": 1.0}, "Strip")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, map[string]any{"wire_name": "a"}) {
		t.Fatalf("strip wire %#v", out)
	}
}

func TestEncode_Indent(t *testing.T) {
	reg := laneRegistry(t)
	rec := map[string]any{"Indications": []any{"left"}, "Valid": true, "Active": false}
	out, err := reg.Encode(rec, "Lane", s.EncodeOpt{Indent: "  "})
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"active\": false,\n  \"indications\": [\n    \"left\"\n  ],\n  \"valid\": true\n}"
	if string(out) != want {
		t.Fatalf("got:\n%s", out)
	}
}
