package skema_test

import (
	"errors"
	"reflect"
	"testing"

	json "github.com/goccy/go-json"

	s "github.com/reoring/skema"
)

type indication string

type lane struct {
	Indications     []indication
	ValidIndication *indication
	Valid           bool
	Active          bool
}

type intersection struct {
	AdminIndex int
	Location   []float64
	Urban      *bool `skema:"name=IsUrban"`
	Lanes      []lane
	Ignored    string `skema:"-"`
}

func TestCodec_DecodeEncode(t *testing.T) {
	c := s.MustCodec[intersection](laneRegistry(t), "Intersection")
	if c.Root() != "Intersection" || c.Registry() == nil {
		t.Fatalf("codec accessors")
	}
	in := []byte(`{"admin_index":2,"location":[1.5,2],"is_urban":true,"lanes":[{"indications":["left"],"valid_indication":"left","valid":true,"active":false}]}`)
	got, err := c.Decode(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	left := indication("left")
	urban := true
	want := intersection{
		AdminIndex: 2,
		Location:   []float64{1.5, 2},
		Urban:      &urban,
		Lanes:      []lane{{Indications: []indication{"left"}, ValidIndication: &left, Valid: true}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v", got)
	}

	out, err := c.Encode(got)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var a, b any
	_ = json.Unmarshal(in, &a)
	_ = json.Unmarshal(out, &b)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("wire changed:\n%s\n%s", in, out)
	}
}

func TestCodec_NilOptionalsAndRequiredSlices(t *testing.T) {
	c := s.MustCodec[intersection](laneRegistry(t), "Intersection")
	out, err := c.Encode(intersection{AdminIndex: 1, Ignored: "x"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(out) != `{"admin_index":1,"location":[]}` {
		t.Fatalf("got %s", out)
	}

	got, err := c.Decode(out)
	if err != nil {
		t.Fatal(err)
	}
	if got.Lanes != nil || got.Urban != nil || got.Location == nil {
		t.Fatalf("absent optionals stay nil, required arrays are empty: %+v", got)
	}
}

func TestCodec_DecodeIssues(t *testing.T) {
	c := s.MustCodec[intersection](laneRegistry(t), "Intersection")
	_, err := c.Decode([]byte(`{"admin_index":1.5,"location":[]}`))
	it := wantIssue(t, err, s.CodeInvalidType, "/AdminIndex")
	if it.Params["expected"] != "int" {
		t.Fatalf("bind issue params: %v", it.Params)
	}

	_, err = c.Decode([]byte(`{"admin_index":"1","location":[]}`))
	wantIssue(t, err, s.CodeInvalidType, "/admin_index")
}

func TestBind_Targets(t *testing.T) {
	if err := s.Bind(map[string]any{}, intersection{}); !errors.Is(err, s.ErrBindTarget) {
		t.Fatalf("non-pointer target: %v", err)
	}
	var m map[string]int
	if err := s.Bind(map[string]any{"a": 1.0, "b": json.Number("2")}, &m); err != nil || m["a"] != 1 || m["b"] != 2 {
		t.Fatalf("map target: %v %v", m, err)
	}
	var arr [2]uint8
	if err := s.Bind([]any{1.0, 2.0}, &arr); err != nil || arr != [2]uint8{1, 2} {
		t.Fatalf("array target: %v %v", arr, err)
	}
	if err := s.Bind([]any{-1.0, 2.0}, &arr); !s.HasCode(err, s.CodeInvalidType) {
		t.Fatalf("negative into uint: %v", err)
	}
	var n json.Number
	if err := s.Bind(2.5, &n); err != nil || n != "2.5" {
		t.Fatalf("json.Number target: %v %v", n, err)
	}
	var anyv any
	if err := s.Bind(map[string]any{"k": "v"}, &anyv); err != nil || !reflect.DeepEqual(anyv, map[string]any{"k": "v"}) {
		t.Fatalf("interface target: %v %v", anyv, err)
	}
}

func TestBind_FirstFailureIsStable(t *testing.T) {
	rec := map[string]any{"Lanes": 3.0, "Location": "y", "AdminIndex": "x", "IsUrban": "z"}
	for i := 0; i < 50; i++ {
		var out intersection
		err := s.Bind(rec, &out)
		iss, ok := s.AsIssues(err)
		if !ok || len(iss) != 1 || iss[0].Path != "/AdminIndex" {
			t.Fatalf("run %d: want first declared field /AdminIndex, got %v", i, err)
		}
	}
	bad := map[string]any{"c": "x", "a": "y", "b": "z"}
	for i := 0; i < 50; i++ {
		var m map[string]int
		iss, _ := s.AsIssues(s.Bind(bad, &m))
		if len(iss) != 1 || iss[0].Path != "/a" {
			t.Fatalf("run %d: want /a, got %v", i, iss)
		}
	}
}

func TestUnbind(t *testing.T) {
	reg := laneRegistry(t)
	v, err := reg.Unbind(lane{Indications: nil, Valid: true}, "Lane")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"Indications": []any{}, "Valid": true, "Active": false}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v", v)
	}

	// struct values go through Unbind inside Encode
	out, err := reg.EncodeValue(&lane{Indications: []indication{"straight"}}, "Lane")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, map[string]any{"indications": []any{"straight"}, "valid": false, "active": false}) {
		t.Fatalf("wire %#v", out)
	}

	if _, err := reg.Unbind(lane{}, "Nope"); !errors.Is(err, s.ErrUnknownSchema) {
		t.Fatalf("unknown root: %v", err)
	}
}

func TestResolveStructKey(t *testing.T) {
	rt := reflect.TypeOf(intersection{})
	tests := map[string]string{"AdminIndex": "AdminIndex", "Urban": "IsUrban", "Ignored": "-"}
	for field, want := range tests {
		sf, _ := rt.FieldByName(field)
		if got := s.ResolveStructKey(sf); got != want {
			t.Fatalf("%s: got %q want %q", field, got, want)
		}
	}
}
