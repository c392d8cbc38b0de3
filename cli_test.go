// ABOUTME: Tests for CLI mode output, request placement and playlist writing
// ABOUTME: Uses a real library database built from a UTF-8 export in a temp dir

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"setlist-sidecar/library"
	"setlist-sidecar/setlist"
)

func createTestSession(t *testing.T) *setlist.Session {
	t.Helper()

	session, err := setlist.NewSession([]setlist.Track{
		{Title: "One", Artist: "A", BPM: 100, Key: "8A", Duration: 300},
		{Title: "Two", Artist: "B", BPM: 110, Key: "8A", Duration: 240},
		{Title: "Three", Artist: "C", BPM: 120, Key: "9A", Duration: 180},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	return session
}

func createTestLibrary(t *testing.T) *library.Library {
	t.Helper()

	dir := t.TempDir()
	export := "Track Title\tArtist\tBPM\tKey\tTime\n" +
		"Requested Song\tGuest\t115\t8A\t4:00\n" +
		"Requested Song (Dub)\tGuest\t115\t8A\t6:00\n"

	if err := os.WriteFile(filepath.Join(dir, "export.txt"), []byte(export), 0o600); err != nil {
		t.Fatal(err)
	}

	lib, err := library.Open(filepath.Join(dir, "track_info.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	t.Cleanup(func() { _ = lib.Close() })

	if _, err := importLibrary(context.Background(), lib, dir, false); err != nil {
		t.Fatalf("importLibrary: %v", err)
	}

	return lib
}

func TestRunCLI_PrintsSet(t *testing.T) {
	var out bytes.Buffer

	if err := RunCLI(&out, createTestSession(t), nil, CLIOptions{}); err != nil {
		t.Fatalf("RunCLI: %v", err)
	}

	for _, want := range []string{"Ordered set:", "One", "Three", "3 tracks", "Energy:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunCLI_RequestApplyAndWrite(t *testing.T) {
	var out bytes.Buffer

	session := createTestSession(t)
	outputPath := filepath.Join(t.TempDir(), "set.m3u8")

	err := RunCLI(&out, session, createTestLibrary(t), CLIOptions{
		Request:    "requested",
		Cursor:     1,
		Apply:      "global",
		OutputPath: outputPath,
		Lookahead:  setlist.DefaultLookahead,
	})
	if err != nil {
		t.Fatalf("RunCLI: %v\n%s", err, out.String())
	}

	// Costs for positions 1..3 are 20, 11 and 6: appending wins
	if !strings.Contains(out.String(), "#4, 3 songs away, in ~7:00, cost 6.00") {
		t.Errorf("missing global proposal:\n%s", out.String())
	}

	if !strings.Contains(out.String(), "Requested Song (Dub)") {
		t.Errorf("missing other matches:\n%s", out.String())
	}

	tracks := session.Tracks()
	if len(tracks) != 4 || tracks[3].Title != "Requested Song" {
		t.Errorf("request not appended: %v", tracks)
	}

	if _, err := os.Stat(outputPath); err != nil {
		t.Errorf("playlist not written: %v", err)
	}
}

func TestRunCLI_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts CLIOptions
		lib  bool
		want string
	}{
		{"bad apply", CLIOptions{Apply: "sideways"}, false, "invalid --apply"},
		{"request without library", CLIOptions{Request: "x", Cursor: 1}, false, "need the track library"},
		{"no match", CLIOptions{Request: "missing", Cursor: 1}, true, "no track matches"},
		{"cursor out of range", CLIOptions{Request: "requested", Cursor: 9}, true, "invalid --cursor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lib *library.Library
			if tt.lib {
				lib = createTestLibrary(t)
			}

			var out bytes.Buffer

			err := RunCLI(&out, createTestSession(t), lib, tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("RunCLI() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer title", 10, "a longe..."},
		{"abcdef", 3, "abc"},
		{"Ünïcødé títle", 8, "Ünïcø..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
