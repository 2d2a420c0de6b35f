package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"2024-01-05", true},
		{"2024-01-05T10:30:00Z", true},
		{"2024-01-05T10:30:00.123Z", true},
		{"2024-01-05T10:30", true},
		{"", false},
		{"yesterday", false},
	}
	for _, tc := range cases {
		if got := ParseDate(tc.in); got.Valid() != tc.valid {
			t.Fatalf("ParseDate(%q).Valid() = %v, want %v", tc.in, got.Valid(), tc.valid)
		}
	}
	if d := ParseDate("2024-01-05"); d.Time.Location() != time.UTC {
		t.Fatalf("date-only should be UTC, got %v", d.Time.Location())
	}
}

func TestDateCompare(t *testing.T) {
	bad := Date{Raw: "??"}
	a := NewDate(2024, 1, 5)
	b := NewDate(2024, 1, 6)

	if bad.Compare(a) >= 0 || a.Compare(bad) <= 0 {
		t.Fatalf("invalid dates must sort first")
	}
	if bad.Compare(Date{Raw: "x"}) != 0 {
		t.Fatalf("two invalid dates must compare equal")
	}
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(a) != 0 {
		t.Fatalf("unexpected ordering for valid dates")
	}
}
