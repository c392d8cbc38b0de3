// ABOUTME: Handles reading and writing M3U8 playlist files
// ABOUTME: Loads local playlists with tag metadata in parallel and saves ordered sets back to disk

// Package playlist handles M3U8 playlist files and audio file metadata.
// It reads playlists, extracts metadata directly from audio file tags
// (ID3, Vorbis, etc.) and writes ordered sets back out.
package playlist

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"setlist-sidecar/pool"
	"setlist-sidecar/setlist"
)

const extInf = "#EXTINF:"

// ReadPlaylist reads an M3U8 playlist file.
// Returns one Track per entry with Path set; #EXTINF lines fill in
// Duration, Artist and Title of the entry that follows them.
func ReadPlaylist(path string) ([]setlist.Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}

	defer func() {
		_ = file.Close() // Explicitly ignore error for read-only file
	}()

	var (
		tracks  []setlist.Track
		pending setlist.Track
	)

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, extInf) {
			pending = parseExtInf(strings.TrimPrefix(line, extInf))

			continue
		}

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pending.Path = line
		tracks = append(tracks, pending)
		pending = setlist.Track{}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading playlist: %w", err)
	}

	return tracks, nil
}

// parseExtInf parses "245,Artist - Title"
func parseExtInf(info string) setlist.Track {
	var t setlist.Track

	secs, display, found := strings.Cut(info, ",")
	if !found {
		return t
	}

	if d, err := strconv.ParseFloat(strings.TrimSpace(secs), 64); err == nil && d > 0 {
		t.Duration = d
	}

	if artist, title, ok := strings.Cut(display, " - "); ok {
		t.Artist = strings.TrimSpace(artist)
		t.Title = strings.TrimSpace(title)
	} else {
		t.Title = strings.TrimSpace(display)
	}

	return t
}

// IsRemote reports whether a playlist entry is a URL rather than a file
func IsRemote(entry string) bool {
	return strings.Contains(entry, "://")
}

// LoadPlaylistWithMetadata reads a playlist and fetches tag metadata for each
// local track, reading files in parallel. Relative entries are resolved
// against the playlist's directory. Remote entries keep their #EXTINF data.
// Local tracks whose tags cannot be read are skipped and logged.
func LoadPlaylistWithMetadata(path string, workers int) ([]setlist.Track, error) {
	tracks, err := ReadPlaylist(path)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	loaded := make([]*setlist.Track, len(tracks))

	var skipped sync.Map

	p := pool.NewWorkerPool(workers)
	defer p.Close()

	for i := range tracks {
		entry := tracks[i]

		if IsRemote(entry.Path) {
			loaded[i] = &entry

			continue
		}

		p.Submit(func() error {
			metadata, err := ReadTrack(entry.Path, baseDir)
			if err != nil {
				skipped.Store(i, err)

				return nil
			}

			if metadata.Duration == 0 {
				metadata.Duration = entry.Duration
			}

			loaded[i] = &metadata

			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}

	valid := make([]setlist.Track, 0, len(tracks))
	for i, t := range loaded {
		if t == nil {
			if reason, ok := skipped.Load(i); ok {
				slog.Warn("skipping track, could not load metadata", "path", tracks[i].Path, "error", reason)
			}

			continue
		}

		valid = append(valid, *t)
	}

	return valid, nil
}

// WritePlaylist writes tracks to an M3U8 playlist file with #EXTINF lines.
// Tracks without a Path cannot be played back and are written as comments.
// Creates a backup (.bak) of the existing file before overwriting.
func WritePlaylist(path string, tracks []setlist.Track) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		backupPath := path + ".bak"
		if err := os.Rename(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close playlist file: %w", closeErr)
		}
	}()

	writer := bufio.NewWriter(file)

	if _, err := writer.WriteString("#EXTM3U\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, track := range tracks {
		if _, err := writer.WriteString(entryLines(track)); err != nil {
			return fmt.Errorf("failed to write track: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}

func entryLines(t setlist.Track) string {
	display := t.Title
	if t.Artist != "" {
		display = t.Artist + " - " + t.Title
	}

	if t.Path == "" {
		return "# " + display + "\n"
	}

	secs := int(t.Duration)
	if secs <= 0 {
		secs = -1 // unknown length
	}

	return fmt.Sprintf("%s%d,%s\n%s\n", extInf, secs, display, t.Path)
}
