// ABOUTME: Session-scoped free-text notes attached to transitions between adjacent tracks
// ABOUTME: Keyed by the title pair, so an insertion can orphan a note (accepted)

package setlist

// TransitionKey identifies the transition from one track into the next
type TransitionKey struct {
	From string
	To   string
}

// NoteKey returns the key for the transition out of seq[cursor].
// On the last track the key pairs the track with itself.
func NoteKey(seq []Track, cursor int) TransitionKey {
	next := min(cursor+1, len(seq)-1)

	return TransitionKey{From: seq[cursor].Title, To: seq[next].Title}
}

// Notes maps transitions to free-text notes.
// It is not safe for concurrent use; Session guards its own Notes.
type Notes struct {
	entries map[TransitionKey]string
}

// NewNotes returns an empty store
func NewNotes() *Notes {
	return &Notes{entries: make(map[TransitionKey]string)}
}

// Get returns the note for key, or "" if none was set
func (n *Notes) Get(key TransitionKey) string {
	return n.entries[key]
}

// Set stores text for key, replacing any previous note
func (n *Notes) Set(key TransitionKey, text string) {
	if n.entries == nil {
		n.entries = make(map[TransitionKey]string)
	}

	n.entries[key] = text
}

// Len returns the number of stored notes, orphaned ones included
func (n *Notes) Len() int {
	return len(n.entries)
}
