// ABOUTME: Defines the Track record shared by the sequencer, optimizer and collaborators
// ABOUTME: Tracks are plain values, matched by title

// Package setlist orders DJ sets for harmonic and energy flow and finds where
// a requested track fits into a set that is already playing.
package setlist

import (
	"fmt"
	"time"
)

// Track is a single song in a set.
// BPM 0 and Key "" mean unknown.
type Track struct {
	Title     string  // Practical identity of the track
	Artist    string  // Artist or uploader
	BPM       float64 // Beats per minute
	Key       string  // Camelot key, e.g. "8A"
	Duration  float64 // Length in seconds
	Thumbnail string  // Cover art reference, presentation only

	Path  string // File path or URL the track plays from, if known
	Album string
	Genre string
}

// Same reports whether two tracks refer to the same song
func (t Track) Same(other Track) bool {
	return t.Title == other.Title
}

// Length returns the duration as a time.Duration
func (t Track) Length() time.Duration {
	return time.Duration(t.Duration * float64(time.Second))
}

// String returns a formatted string representation of the track
func (t Track) String() string {
	return fmt.Sprintf("%-30s - Key: %-3s BPM: %.0f", t.Artist, t.Key, t.BPM)
}
