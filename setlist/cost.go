// ABOUTME: Transition cost between two tracks, used to score insertion points
// ABOUTME: Mixes harmonic distance with raw BPM difference behind one function type

package setlist

import "math"

// CostFunc scores how rough the transition between two tracks is.
// Lower is smoother. Implementations must be symmetric and non-negative.
type CostFunc func(a, b Track) float64

// DefaultCost is harmonic distance plus absolute BPM difference.
// The two terms are on different scales (0-2 vs unbounded BPM).
func DefaultCost(a, b Track) float64 {
	return float64(Distance(a.Key, b.Key)) + math.Abs(a.BPM-b.BPM)
}

// WeightedCost returns a CostFunc that scales each term of DefaultCost.
// WeightedCost(1, 1) behaves exactly like DefaultCost.
func WeightedCost(harmonicWeight, tempoWeight float64) CostFunc {
	return func(a, b Track) float64 {
		return harmonicWeight*float64(Distance(a.Key, b.Key)) + tempoWeight*math.Abs(a.BPM-b.BPM)
	}
}
