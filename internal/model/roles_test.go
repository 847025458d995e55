package model

import "testing"

func TestSummarizeRoleAssignmentNil(t *testing.T) {
	if got := SummarizeRoleAssignment(nil); got != nil {
		t.Fatalf("expected nil summary, got %+v", got)
	}
}

func TestSummarizeRoleAssignmentCopies(t *testing.T) {
	ra := &CaseRoleAssignment{
		Name:   "owner",
		Users:  []string{"john"},
		Groups: []string{"managers"},
	}

	s := SummarizeRoleAssignment(ra)
	if s.Name != "owner" || len(s.Users) != 1 || s.Users[0] != "john" || s.Groups[0] != "managers" {
		t.Fatalf("unexpected summary %+v", s)
	}

	ra.Users[0] = "mary"
	if s.Users[0] != "john" {
		t.Errorf("summary shares user slice with source")
	}
}

func TestSummarizeRoleAssignmentsSkipsNil(t *testing.T) {
	out := SummarizeRoleAssignments([]*CaseRoleAssignment{nil, {Name: "a"}, nil, {Name: "b"}})
	if len(out) != 2 || out[0].Name != "a" || out[1].Name != "b" {
		t.Fatalf("unexpected summaries %+v", out)
	}
}
