// ABOUTME: Tests for the notes store and the session state machine
// ABOUTME: Covers cursor movement, insert reclamping, note keys and concurrent use

package setlist

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestNotes(t *testing.T) {
	n := NewNotes()
	k := TransitionKey{From: "a", To: "b"}

	if got := n.Get(TransitionKey{From: "x", To: "y"}); got != "" {
		t.Errorf("Get(unused) = %q, want empty", got)
	}

	n.Set(k, "hello")
	if got := n.Get(k); got != "hello" {
		t.Errorf("Get = %q, want hello", got)
	}

	n.Set(k, "world")
	if got := n.Get(k); got != "world" {
		t.Errorf("second Set should overwrite, got %q", got)
	}

	if n.Len() != 1 {
		t.Errorf("Len = %d, want 1", n.Len())
	}

	var zero Notes
	zero.Set(k, "ok")
	if zero.Get(k) != "ok" {
		t.Error("zero-value Notes should be usable")
	}
}

func TestNoteKey(t *testing.T) {
	seq := []Track{{Title: "a"}, {Title: "b"}, {Title: "c"}}

	if got := NoteKey(seq, 0); got != (TransitionKey{"a", "b"}) {
		t.Errorf("NoteKey(0) = %v", got)
	}

	if got := NoteKey(seq, 2); got != (TransitionKey{"c", "c"}) {
		t.Errorf("NoteKey(last) = %v, want c->c", got)
	}
}

func newTestSession(t *testing.T, names ...string) *Session {
	t.Helper()

	tracks := make([]Track, len(names))
	for i, n := range names {
		tracks[i] = Track{Title: n}
	}

	s, err := NewSession(tracks)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	return s
}

func TestNewSession_Empty(t *testing.T) {
	if _, err := NewSession(nil); !errors.Is(err, ErrNoTracks) {
		t.Errorf("err = %v, want ErrNoTracks", err)
	}
}

func TestSession_Navigation(t *testing.T) {
	s := newTestSession(t, "a", "b", "c")

	if s.ID == "" {
		t.Error("session should have an ID")
	}

	if s.Prev() {
		t.Error("Prev on first track should fail")
	}

	if !s.Next() || !s.Next() {
		t.Fatal("Next should succeed twice")
	}

	if s.Next() {
		t.Error("Next on last track should fail")
	}

	if s.Cursor() != 2 || s.Current().Title != "c" {
		t.Errorf("cursor = %d (%s), want 2 (c)", s.Cursor(), s.Current().Title)
	}

	if err := s.Seek(3); !errors.Is(err, ErrCursorOutOfRange) {
		t.Errorf("Seek(3) err = %v", err)
	}

	if err := s.Seek(1); err != nil || s.Current().Title != "b" {
		t.Errorf("Seek(1) = %v, current %s", err, s.Current().Title)
	}
}

func TestSession_InsertReclampsCursor(t *testing.T) {
	tests := []struct {
		name       string
		cursor     int
		pos        int
		wantCursor int
	}{
		{"after cursor", 1, 2, 1},
		{"append", 1, 3, 1},
		{"at cursor", 1, 1, 2},
		{"before cursor", 2, 0, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t, "a", "b", "c")
			if err := s.Seek(tc.cursor); err != nil {
				t.Fatal(err)
			}

			playing := s.Current().Title

			if err := s.Insert(tc.pos, Track{Title: "x"}); err != nil {
				t.Fatalf("Insert: %v", err)
			}

			if s.Len() != 4 {
				t.Errorf("Len = %d, want 4", s.Len())
			}

			if s.Cursor() != tc.wantCursor || s.Current().Title != playing {
				t.Errorf("cursor = %d on %s, want %d on %s", s.Cursor(), s.Current().Title, tc.wantCursor, playing)
			}

			if s.Tracks()[tc.pos].Title != "x" {
				t.Errorf("track at %d = %s, want x", tc.pos, s.Tracks()[tc.pos].Title)
			}
		})
	}
}

func TestSession_InsertOutOfRange(t *testing.T) {
	s := newTestSession(t, "a")

	if err := s.Insert(5, Track{Title: "x"}); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("err = %v", err)
	}

	if s.Len() != 1 {
		t.Errorf("failed insert changed the set: %d tracks", s.Len())
	}
}

func TestSession_NotesFollowCursor(t *testing.T) {
	s := newTestSession(t, "a", "b", "c")

	s.SetNote("filter out the bass")
	s.Next()

	if s.Note() != "" {
		t.Errorf("b->c note = %q, want empty", s.Note())
	}

	s.Prev()
	if s.Note() != "filter out the bass" {
		t.Errorf("a->b note = %q", s.Note())
	}

	// Inserting between a and b orphans the a->b note
	if err := s.Insert(1, Track{Title: "x"}); err != nil {
		t.Fatal(err)
	}

	if s.NoteKey() != (TransitionKey{"a", "x"}) || s.Note() != "" {
		t.Errorf("after insert key = %v note = %q", s.NoteKey(), s.Note())
	}

	if s.NoteCount() != 1 {
		t.Errorf("orphaned note should be kept, NoteCount = %d", s.NoteCount())
	}
}

func TestSession_ProposeAndRestore(t *testing.T) {
	s, err := NewSession([]Track{
		{Title: "a", BPM: 100, Key: "8A"},
		{Title: "b", BPM: 110, Key: "8A"},
		{Title: "c", BPM: 120, Key: "9A"},
	})
	if err != nil {
		t.Fatal(err)
	}

	before := s.Tracks()

	prop, err := s.Propose(Track{Title: "r", BPM: 115, Key: "8A"}, DefaultLookahead, nil)
	if err != nil {
		t.Fatal(err)
	}

	if prop.Global.Position != 3 {
		t.Errorf("Global.Position = %d, want 3", prop.Global.Position)
	}

	if err := s.Insert(prop.Global.Position, Track{Title: "r"}); err != nil {
		t.Fatal(err)
	}

	if err := s.Restore(before, 0); err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(titles(s.Tracks()), []string{"a", "b", "c"}) {
		t.Errorf("Restore = %v", titles(s.Tracks()))
	}

	if err := s.Restore(nil, 0); !errors.Is(err, ErrNoTracks) {
		t.Errorf("Restore(nil) err = %v", err)
	}

	if err := s.Restore(before, 3); !errors.Is(err, ErrCursorOutOfRange) {
		t.Errorf("Restore(cursor 3) err = %v", err)
	}
}

func TestSession_ConcurrentUse(t *testing.T) {
	s := newTestSession(t, "a", "b", "c", "d")

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 50 {
				switch (i + j) % 4 {
				case 0:
					_ = s.Insert(s.Len(), Track{Title: "x"})
				case 1:
					s.Next()
				case 2:
					s.SetNote("n")
				default:
					_ = s.Note()
				}
			}
		}()
	}

	wg.Wait()

	if c := s.Cursor(); c < 0 || c >= s.Len() {
		t.Errorf("cursor %d out of range for %d tracks", c, s.Len())
	}
}
