// ABOUTME: Scores every legal insertion point for a requested track in a playing set
// ABOUTME: Reports the overall best spot and the best spot within a look-ahead window

package setlist

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// DefaultLookahead is how many upcoming positions the local recommendation considers
const DefaultLookahead = 10

var (
	ErrEmptySequence      = errors.New("sequence is empty")
	ErrCursorOutOfRange   = errors.New("cursor out of range")
	ErrPositionOutOfRange = errors.New("insert position out of range")
)

// Candidate is one proposed insertion point.
type Candidate struct {
	Position  int     // Index the new track would occupy
	Cost      float64 // Transition cost against its new neighbours
	SongsAway int     // The request would be this many tracks after the current one

	// Lead is the seconds of music queued between the current track and the
	// request: seq[cursor+1:Position]. The track the request lands in front of
	// is not counted.
	Lead float64
}

// LeadTime returns Lead as a time.Duration
func (c Candidate) LeadTime() time.Duration {
	return time.Duration(c.Lead * float64(time.Second))
}

// Proposal holds the two recommendations for a request.
// Global is the cheapest position anywhere after the cursor, Local the
// cheapest within the look-ahead window. They are often the same position.
type Proposal struct {
	Global    Candidate
	Local     Candidate
	Lookahead int
}

// InsertionCost is the cost of placing t at position p of seq:
// the transition from seq[p-1] plus, unless appending, the one into seq[p].
func InsertionCost(seq []Track, p int, t Track, cost CostFunc) float64 {
	c := cost(t, seq[p-1])
	if p < len(seq) {
		c += cost(t, seq[p])
	}

	return c
}

// ProposeInsertion finds where t fits best in seq after the cursor.
//
// Legal positions run from cursor+1 to len(seq) (append). The local search is
// limited to cursor+1 .. min(cursor+1+lookahead, len(seq)). Ties go to the
// earliest position. A nil cost uses DefaultCost.
func ProposeInsertion(seq []Track, cursor int, t Track, lookahead int, cost CostFunc) (Proposal, error) {
	if len(seq) == 0 {
		return Proposal{}, ErrEmptySequence
	}

	if cursor < 0 || cursor >= len(seq) {
		return Proposal{}, fmt.Errorf("%w: %d not in [0, %d)", ErrCursorOutOfRange, cursor, len(seq))
	}

	if cost == nil {
		cost = DefaultCost
	}

	lookahead = max(lookahead, 0)

	first := cursor + 1
	globalPos := bestPosition(seq, first, len(seq), t, cost)
	localPos := bestPosition(seq, first, min(first+lookahead, len(seq)), t, cost)

	return Proposal{
		Global:    candidate(seq, cursor, globalPos, t, cost),
		Local:     candidate(seq, cursor, localPos, t, cost),
		Lookahead: lookahead,
	}, nil
}

// bestPosition scans positions from..to inclusive, keeping the first minimum
func bestPosition(seq []Track, from, to int, t Track, cost CostFunc) int {
	best := from
	bestCost := InsertionCost(seq, from, t, cost)

	for p := from + 1; p <= to; p++ {
		if c := InsertionCost(seq, p, t, cost); c < bestCost {
			best, bestCost = p, c
		}
	}

	return best
}

func candidate(seq []Track, cursor, p int, t Track, cost CostFunc) Candidate {
	var lead float64
	for _, played := range seq[cursor+1 : p] {
		lead += played.Duration
	}

	return Candidate{
		Position:  p,
		Cost:      InsertionCost(seq, p, t, cost),
		SongsAway: p - cursor,
		Lead:      lead,
	}
}

// Insert returns a copy of seq with t placed at index pos.
// Every other track keeps its relative order.
func Insert(seq []Track, pos int, t Track) ([]Track, error) {
	if pos < 0 || pos > len(seq) {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrPositionOutOfRange, pos, len(seq))
	}

	out := make([]Track, 0, len(seq)+1)
	out = append(out, seq[:pos]...)
	out = append(out, t)
	out = append(out, seq[pos:]...)

	return out, nil
}

// cloneTracks is slices.Clone that never returns nil
func cloneTracks(seq []Track) []Track {
	if seq == nil {
		return []Track{}
	}

	return slices.Clone(seq)
}
