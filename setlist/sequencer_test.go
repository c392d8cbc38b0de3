// ABOUTME: Tests for greedy set ordering
// ABOUTME: Checks permutation, determinism, and the rising-BPM rule by replaying the greedy trace

package setlist

import (
	"slices"
	"sort"
	"testing"
)

func titles(tracks []Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.Title
	}

	return out
}

func sampleSet() []Track {
	return []Track{
		{Title: "Lift", BPM: 124, Key: "9A", Duration: 300},
		{Title: "Opener", BPM: 118, Key: "8A", Duration: 240},
		{Title: "Mystery", BPM: 0, Key: "", Duration: 200},
		{Title: "Peak", BPM: 128, Key: "10A", Duration: 320},
		{Title: "Relative", BPM: 124, Key: "8B", Duration: 280},
		{Title: "Clash", BPM: 124, Key: "3B", Duration: 260},
		{Title: "Cooldown", BPM: 100, Key: "9A", Duration: 310},
		{Title: "Lift", BPM: 124, Key: "9A", Duration: 300},
	}
}

func TestOrder_Empty(t *testing.T) {
	got := Order(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Order(nil) = %v, want empty non-nil slice", got)
	}

	if got := Order([]Track{}); len(got) != 0 {
		t.Errorf("Order([]) = %v, want empty", got)
	}
}

func TestOrder_Single(t *testing.T) {
	in := []Track{{Title: "Only", BPM: 120, Key: "1A"}}

	got := Order(in)
	if len(got) != 1 || got[0].Title != "Only" {
		t.Errorf("Order(single) = %v", titles(got))
	}
}

func TestOrder_Permutation(t *testing.T) {
	in := sampleSet()
	got := Order(in)

	want := titles(in)
	have := titles(got)
	sort.Strings(want)
	sort.Strings(have)

	if !slices.Equal(want, have) {
		t.Errorf("Order is not a permutation: got %v, want %v", have, want)
	}
}

func TestOrder_DoesNotModifyInput(t *testing.T) {
	in := sampleSet()
	before := titles(in)

	Order(in)

	if !slices.Equal(before, titles(in)) {
		t.Errorf("Order modified its input: %v -> %v", before, titles(in))
	}
}

func TestOrder_Deterministic(t *testing.T) {
	first := titles(Order(sampleSet()))

	for range 20 {
		if got := titles(Order(sampleSet())); !slices.Equal(got, first) {
			t.Fatalf("Order not deterministic: %v vs %v", got, first)
		}
	}
}

func TestOrder_Expected(t *testing.T) {
	// Mystery (0) seeds; every track is faster so all are candidates and the
	// unknown key scores 2 against all of them, so the first in BPM order wins.
	// Nothing is at least as fast as Peak, so the whole pool is searched and
	// Opener, first in BPM order among equally distant keys, follows it.
	want := []string{"Mystery", "Cooldown", "Lift", "Lift", "Peak", "Opener", "Relative", "Clash"}

	got := titles(Order(sampleSet()))
	if !slices.Equal(got, want) {
		t.Errorf("Order = %v, want %v", got, want)
	}
}

// TestOrder_RisingUnlessForced replays the greedy trace and checks every step
// either keeps BPM rising or had no faster-or-equal track left to choose.
func TestOrder_RisingUnlessForced(t *testing.T) {
	sets := [][]Track{
		sampleSet(),
		{
			{Title: "a", BPM: 90, Key: "1A"},
			{Title: "b", BPM: 140, Key: "1A"},
			{Title: "c", BPM: 95, Key: "5B"},
			{Title: "d", BPM: 120, Key: "2A"},
			{Title: "e", BPM: 120, Key: "12A"},
		},
	}

	for _, set := range sets {
		got := Order(set)

		remaining := slices.Clone(got)
		for i := 0; i+1 < len(got); i++ {
			a, b := got[i], got[i+1]
			remaining = remaining[1:]

			if b.BPM >= a.BPM {
				continue
			}

			for _, r := range remaining {
				if r.BPM >= a.BPM {
					t.Errorf("step %d: %s (%.0f) -> %s (%.0f) dropped BPM while %s (%.0f) was available",
						i, a.Title, a.BPM, b.Title, b.BPM, r.Title, r.BPM)
				}
			}
		}
	}
}

func TestOrder_PrefersHarmonicNeighbour(t *testing.T) {
	in := []Track{
		{Title: "start", BPM: 120, Key: "8A"},
		{Title: "far", BPM: 121, Key: "2B"},
		{Title: "near", BPM: 130, Key: "9A"},
		{Title: "same", BPM: 125, Key: "8A"},
	}

	got := titles(Order(in))
	want := []string{"start", "same", "near", "far"}

	if !slices.Equal(got, want) {
		t.Errorf("Order = %v, want %v", got, want)
	}
}
