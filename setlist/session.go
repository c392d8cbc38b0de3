// ABOUTME: A live DJ session: the ordered set, the playback cursor and transition notes
// ABOUTME: All mutations go through one mutex so insert + cursor reclamp is atomic

package setlist

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNoTracks is returned when a session would start without any tracks
var ErrNoTracks = errors.New("session needs at least one track")

// Session is the mutable state of one DJ set.
// It is safe for concurrent use.
type Session struct {
	ID string

	mu     sync.Mutex
	tracks []Track
	cursor int
	notes  *Notes
}

// NewSession starts a session over an already ordered, non-empty set
// with the cursor on the first track.
func NewSession(ordered []Track) (*Session, error) {
	if len(ordered) == 0 {
		return nil, ErrNoTracks
	}

	return &Session{
		ID:     uuid.NewString(),
		tracks: cloneTracks(ordered),
		notes:  NewNotes(),
	}, nil
}

// Tracks returns a copy of the current order
func (s *Session) Tracks() []Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneTracks(s.tracks)
}

// Len returns the number of tracks in the set
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tracks)
}

// Cursor returns the index of the playing track
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cursor
}

// Current returns the playing track
func (s *Session) Current() Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tracks[s.cursor]
}

// Next advances the cursor by one. Returns false on the last track.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor+1 >= len(s.tracks) {
		return false
	}

	s.cursor++

	return true
}

// Prev moves the cursor back by one. Returns false on the first track.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor == 0 {
		return false
	}

	s.cursor--

	return true
}

// Seek moves the cursor to index i
func (s *Session) Seek(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.tracks) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrCursorOutOfRange, i, len(s.tracks))
	}

	s.cursor = i

	return nil
}

// NoteKey returns the key of the transition out of the playing track
func (s *Session) NoteKey() TransitionKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	return NoteKey(s.tracks, s.cursor)
}

// Note returns the note for the transition out of the playing track
func (s *Session) Note() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.notes.Get(NoteKey(s.tracks, s.cursor))
}

// SetNote stores text for the transition out of the playing track
func (s *Session) SetNote(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes.Set(NoteKey(s.tracks, s.cursor), text)
}

// NoteCount returns how many transition notes have been written
func (s *Session) NoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.notes.Len()
}

// Propose scores insertion points for t against the current snapshot
func (s *Session) Propose(t Track, lookahead int, cost CostFunc) (Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return ProposeInsertion(s.tracks, s.cursor, t, lookahead, cost)
}

// Insert places t at pos. Inserting at or before the cursor moves the
// cursor forward so it stays on the same playing track.
func (s *Session) Insert(pos int, t Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks, err := Insert(s.tracks, pos, t)
	if err != nil {
		return err
	}

	s.tracks = tracks
	if pos <= s.cursor {
		s.cursor++
	}

	return nil
}

// Restore replaces the set and cursor, e.g. to undo an insertion.
// Notes are kept.
func (s *Session) Restore(tracks []Track, cursor int) error {
	if len(tracks) == 0 {
		return ErrNoTracks
	}

	if cursor < 0 || cursor >= len(tracks) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrCursorOutOfRange, cursor, len(tracks))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracks = cloneTracks(tracks)
	s.cursor = cursor

	return nil
}
