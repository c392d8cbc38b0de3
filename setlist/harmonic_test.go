// ABOUTME: Tests for Camelot parsing and harmonic distance
// ABOUTME: Covers wheel wrap-around, relative keys, unknown and malformed input

package setlist

import (
	"slices"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
		desc string
	}{
		{"8A", "8A", 0, "same key"},
		{"", "", 0, "both unknown"},
		{"", "5A", 2, "unknown vs known"},
		{"5A", "", 2, "known vs unknown"},
		{"8A", "8B", 1, "relative major/minor"},
		{"8A", "9A", 1, "adjacent same letter"},
		{"8A", "7A", 1, "adjacent same letter, downwards"},
		{"1A", "12A", 1, "wrap-around"},
		{"12B", "1B", 1, "wrap-around major"},
		{"8A", "9B", 2, "adjacent different letter"},
		{"8A", "3B", 2, "unrelated"},
		{"8A", "10A", 2, "two steps"},
		{"xA", "8A", 2, "non-numeric prefix"},
		{"8", "8A", 2, "missing letter"},
		{"13A", "12A", 2, "number off the wheel"},
		{"08A", "8A", 2, "leading zero is malformed"},
		{"8C", "8A", 2, "unknown mode letter"},
		{"garbage", "garbage", 0, "identical strings short-circuit"},
		{"8a", "8A", 0, "lower-case mode letter is the same key"},
		{"8a", "9A", 1, "lower-case adjacent"},
		{"8b", "8A", 1, "lower-case relative major/minor"},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			if got := Distance(tc.a, tc.b); got != tc.want {
				t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDistance_IdenticalKeys(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for _, letter := range []string{"A", "B"} {
			k := CamelotKey{Letter: letter, Number: n}.String()
			if got := Distance(k, k); got != 0 {
				t.Errorf("Distance(%s, %s) = %d, want 0", k, k, got)
			}
		}
	}
}

func TestDistance_Symmetric(t *testing.T) {
	keys := []string{"", "1A", "1B", "2A", "6B", "7A", "11B", "12A", "12B", "bad", "0A", "13B"}

	for _, a := range keys {
		for _, b := range keys {
			if Distance(a, b) != Distance(b, a) {
				t.Errorf("Distance(%q, %q) = %d but Distance(%q, %q) = %d",
					a, b, Distance(a, b), b, a, Distance(b, a))
			}
		}
	}
}

func TestParseCamelotKey(t *testing.T) {
	k, err := ParseCamelotKey("12B")
	if err != nil {
		t.Fatalf("ParseCamelotKey(12B) error: %v", err)
	}

	if k.Number != 12 || k.Letter != "B" {
		t.Errorf("ParseCamelotKey(12B) = %+v", k)
	}

	if k.String() != "12B" {
		t.Errorf("String() = %q, want 12B", k.String())
	}

	lower, err := ParseCamelotKey("8a")
	if err != nil || lower != (CamelotKey{Letter: "A", Number: 8}) {
		t.Errorf("ParseCamelotKey(8a) = %+v, %v, want 8A", lower, err)
	}

	for _, bad := range []string{"", "0A", "13A", "8c", "08A", "A8", " 8A"} {
		if _, err := ParseCamelotKey(bad); err == nil {
			t.Errorf("ParseCamelotKey(%q) expected error", bad)
		}
	}
}

func TestCompatibleKeys(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"8A", []string{"8A", "8B", "7A", "9A"}},
		{"1B", []string{"1B", "1A", "12B", "2B"}},
		{"12A", []string{"12A", "12B", "11A", "1A"}},
	}

	for _, tc := range tests {
		got := CompatibleKeys(tc.key)
		if !slices.Equal(got, tc.want) {
			t.Errorf("CompatibleKeys(%s) = %v, want %v", tc.key, got, tc.want)
		}

		for _, k := range got[1:] {
			if Distance(tc.key, k) != 1 {
				t.Errorf("CompatibleKeys(%s) returned %s at distance %d", tc.key, k, Distance(tc.key, k))
			}
		}
	}

	if CompatibleKeys("nope") != nil {
		t.Error("CompatibleKeys(nope) should be nil")
	}
}
