package models

import "testing"

func TestParseLabels(t *testing.T) {
	cases := []struct {
		name  string
		parse func(string) (string, bool)
		in    string
		want  string
		ok    bool
	}{
		{"scope dashed", wrap(ParseExamScope), "all-midterm", "ALL_MIDTERM", true},
		{"scope spaced", wrap(ParseExamScope), " All Final ", "ALL_FINAL", true},
		{"scope specific", wrap(ParseExamScope), "specific", "SPECIFIC", true},
		{"scope unknown", wrap(ParseExamScope), "everything", "", false},
		{"exam type label", wrap(ParseExamType), "Midterm", "MIDTERM", true},
		{"exam type unknown", wrap(ParseExamType), "quiz", "", false},
		{"shift form value", wrap(ParseShift), "parttime", "PART_TIME", true},
		{"shift enum", wrap(ParseShift), "FULL_TIME", "FULL_TIME", true},
		{"shift unknown", wrap(ParseShift), "evening", "", false},
		{"form type label", wrap(ParseFormType), "Improvement Exam", "IMPROVEMENT_EXAM", true},
		{"form type unknown", wrap(ParseFormType), "Survey", "", false},
		{"user type label", wrap(ParseUserType), "Hod", "HOD", true},
		{"user status", wrap(ParseUserStatus), "inactive", "INACTIVE", true},
		{"approval status", wrap(ParseApprovalStatus), "Approved", "APPROVED", true},
		{"approval empty", wrap(ParseApprovalStatus), "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.parse(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("parse(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func wrap[T ~string](parse func(string) (T, bool)) func(string) (string, bool) {
	return func(s string) (string, bool) {
		v, ok := parse(s)
		return string(v), ok
	}
}

func TestAdminUserIsActive(t *testing.T) {
	if !(&AdminUser{Status: UserStatusActive}).IsActive() {
		t.Fatalf("active user reported inactive")
	}
	if (&AdminUser{Status: UserStatusInactive}).IsActive() {
		t.Fatalf("inactive user reported active")
	}
}
