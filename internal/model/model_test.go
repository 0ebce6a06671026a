package model

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"student":              RoleStudent,
		"USER":                 RoleStudent,
		"":                     RoleStudent,
		"tutor":                RoleTutor,
		"AA":                   RoleAcademicAssistant,
		"academic_assistant":   RoleAcademicAssistant,
		"daa":                  RoleDepartmentAssistant,
		"department_assistant": RoleDepartmentAssistant,
		" administrator ":      RoleAdministrator,
	}
	for input, expect := range cases {
		role, err := ParseRole(input)
		if err != nil {
			t.Fatalf("expected %q to parse, got %v", input, err)
		}
		if role != expect {
			t.Fatalf("expected %q to parse as %s, got %s", input, expect, role)
		}
	}
	for _, input := range []string{"superuser", "aa:owner", "Students"} {
		if _, err := ParseRole(input); err == nil {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestParseReviewAction(t *testing.T) {
	status, err := ParseReviewAction("approve")
	if err != nil || status != StatusApproved {
		t.Fatalf("expected approve to map to approved, got %s err=%v", status, err)
	}
	status, err = ParseReviewAction(" REJECT ")
	if err != nil || status != StatusRejected {
		t.Fatalf("expected reject to map to rejected, got %s err=%v", status, err)
	}
	if _, err := ParseReviewAction("maybe"); err == nil {
		t.Fatalf("expected invalid action to error")
	}
	if _, err := ParseReviewAction(""); err == nil {
		t.Fatalf("expected empty action to error")
	}
}
