package engine

import "testing"

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"iso passthrough", "2026-03-31", "2026-03-31", true},
		{"iso invalid calendar", "2026-13-40", "", false},
		{"day first slash", "15/03/2026", "2026-03-15", true},
		{"day first single digits", "5/3/2026", "2026-03-05", true},
		{"day first dots", "15.03.2026", "2026-03-15", true},
		{"excel serial", "45000", "2023-03-15", true},
		{"excel serial below window", "12000", "", false},
		{"excel serial above window", "99999", "", false},
		{"bare year rejected", "2026", "", false},
		{"month name dash short year", "Mar-26", "2026-03-31", true},
		{"month name space full year", "MAR 2026", "2026-03-31", true},
		{"month name full word", "March 2026", "2026-03-31", true},
		{"month name leap february", "Feb-24", "2024-02-29", true},
		{"numeric month year slash", "03/2026", "2026-03-31", true},
		{"numeric month year dash short", "3-26", "2026-03-31", true},
		{"numeric month out of range", "13/2026", "", false},
		{"two digit year pivot low", "Jan-68", "2068-01-31", true},
		{"two digit year pivot high", "Jan-69", "1969-01-31", true},
		{"garbage", "soon", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFlexibleDate(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseFlexibleDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseFlexibleDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFlexibleDateIdempotent(t *testing.T) {
	// An already-normalized output must re-parse to itself.
	for _, in := range []string{"Mar-26", "15/03/2026", "45000"} {
		first, ok := ParseFlexibleDate(in)
		if !ok {
			t.Fatalf("ParseFlexibleDate(%q) failed", in)
		}
		second, ok := ParseFlexibleDate(first)
		if !ok || second != first {
			t.Errorf("re-parse of %q: got (%q, %v), want (%q, true)", first, second, ok, first)
		}
	}
}

func TestExpandYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2026", 2026, true},
		{"00", 2000, true},
		{"68", 2068, true},
		{"69", 1969, true},
		{"99", 1999, true},
		{"026", 0, false},
		{"x6", 0, false},
	}
	for _, tt := range tests {
		got, ok := expandYear(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("expandYear(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
