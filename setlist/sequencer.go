// ABOUTME: Greedy nearest-neighbour ordering of a set by rising BPM and harmonic closeness
// ABOUTME: Single pass, deterministic, never reorders globally

package setlist

import (
	"cmp"
	"slices"
)

// Order returns the tracks arranged for play.
//
// The set starts at the slowest track. Each following pick is taken from the
// tracks at least as fast as the current one (or from everything left when
// none are), choosing the harmonically closest; the first such track in
// BPM order wins ties. The input slice is not modified.
func Order(tracks []Track) []Track {
	if len(tracks) == 0 {
		return []Track{}
	}

	pool := slices.Clone(tracks)
	slices.SortStableFunc(pool, func(a, b Track) int {
		return cmp.Compare(a.BPM, b.BPM)
	})

	sequence := make([]Track, 0, len(pool))
	current := pool[0]
	pool = slices.Delete(pool, 0, 1)
	sequence = append(sequence, current)

	for len(pool) > 0 {
		pick := nextPick(pool, current)

		current = pool[pick]
		sequence = append(sequence, current)
		pool = slices.Delete(pool, pick, pick+1)
	}

	return sequence
}

// nextPick returns the pool index of the track to play after current
func nextPick(pool []Track, current Track) int {
	rising := false
	for _, t := range pool {
		if t.BPM >= current.BPM {
			rising = true

			break
		}
	}

	best, bestDist := -1, 0
	for i, t := range pool {
		if rising && t.BPM < current.BPM {
			continue
		}

		d := Distance(current.Key, t.Key)
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}

	return best
}
