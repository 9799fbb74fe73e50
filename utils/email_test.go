package utils

import "testing"

func TestValidEmail(t *testing.T) {
	tt := []struct {
		email string
		want  bool
	}{
		{"a@b.c", true},
		{"nguyen.van.a@example.com", true},
		{"UPPER@CASE.VN", true},
		{"", false},
		{"thieu-a-cong.com", false},
		{"a@thieudomain", false},
		{"co khoang trang@x.vn", false},
		{"@x.vn", false},
	}
	for _, tc := range tt {
		if got := ValidEmail(tc.email); got != tc.want {
			t.Errorf("ValidEmail(%q) = %v, muốn %v", tc.email, got, tc.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Nguyen.Van.A@Example.COM  "); got != "nguyen.van.a@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestDisplayNameFromEmail(t *testing.T) {
	tt := []struct {
		email string
		want  string
	}{
		{"john.doe@x.com", "John Doe"},
		{"mai_thi-lan@x.vn", "Mai Thi Lan"},
		{"single@x.vn", "Single"},
		{"UPPER.case@x.vn", "Upper Case"},
	}
	for _, tc := range tt {
		if got := DisplayNameFromEmail(tc.email); got != tc.want {
			t.Errorf("DisplayNameFromEmail(%q) = %q, muốn %q", tc.email, got, tc.want)
		}
	}
}
