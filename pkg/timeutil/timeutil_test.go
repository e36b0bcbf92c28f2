package timeutil

import (
	"testing"
	"time"
)

func TestNormalizeTimeTo24h(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"3:00 PM", "15:00:00"},
		{"15:00", "15:00:00"},
		{"15:00:00", "15:00:00"},
		{"9:30 am", "09:30:00"},
		{"12:00 AM", "00:00:00"},
		{"  7:15PM ", "19:15:00"},
	}
	for _, tc := range cases {
		got, err := NormalizeTimeTo24h(tc.in)
		if err != nil {
			t.Fatalf("NormalizeTimeTo24h(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeTimeTo24h(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTimeTo24h_Rejects(t *testing.T) {
	for _, in := range []string{"", "noon", "25:00", "13:00 PM"} {
		if _, err := NormalizeTimeTo24h(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestDisplayOffsetRoundTrip(t *testing.T) {
	utc := time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)
	disp := ToDisplay(utc)
	if disp.Hour() != 15 {
		t.Fatalf("expected 15:00 display hour, got %d", disp.Hour())
	}
	back := FromDisplay(2025, 6, 1, 15, 0)
	if !back.Equal(utc) {
		t.Fatalf("round trip mismatch: %v != %v", back, utc)
	}
}
