package skema_test

import (
	"testing"

	s "github.com/reoring/skema"
)

// laneRegistry is a trimmed directions graph: Intersection -> Lane -> Indication.
func laneRegistry(t *testing.T) *s.Registry {
	t.Helper()
	reg, err := s.NewRegistryBuilder().
		Register("Intersection", s.Object(
			s.Field("admin_index", "AdminIndex", s.Number()),
			s.Field("location", "Location", s.Array(s.Number())),
			s.Field("is_urban", "IsUrban", s.Optional(s.Boolean())),
			s.Field("lanes", "Lanes", s.Optional(s.Array(s.Ref("Lane")))),
		)).
		Register("Lane", s.Object(
			s.Field("indications", "Indications", s.Array(s.Ref("Indication"))),
			s.Field("valid_indication", "ValidIndication", s.Optional(s.Ref("Indication"))),
			s.Field("valid", "Valid", s.Boolean()),
			s.Field("active", "Active", s.Boolean()),
		)).
		Register("Indication", s.Enum("left", "straight")).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return reg
}

// wantIssue asserts err is a single Issue with code at path.
func wantIssue(t *testing.T, err error, code, path string) s.Issue {
	t.Helper()
	iss, ok := s.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %T: %v", err, err)
	}
	if len(iss) != 1 {
		t.Fatalf("fail-fast should report exactly one issue, got %v", iss)
	}
	if iss[0].Code != code || iss[0].Path != path {
		t.Fatalf("want %s at %s, got %s at %s (%s)", code, path, iss[0].Code, iss[0].Path, iss[0].Message)
	}
	return iss[0]
}
