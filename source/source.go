// ABOUTME: Track metadata sources that supply the tracks of a requested playlist
// ABOUTME: Resolve picks the local M3U8 source for playlist files and yt-dlp for URLs

// Package source supplies track records for a playlist reference: a remote
// playlist URL resolved with yt-dlp, or a local M3U8 file read from audio tags.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"setlist-sidecar/playlist"
	"setlist-sidecar/setlist"
)

var ErrUnsupportedRef = errors.New("unsupported playlist reference")

// Source fetches the tracks of a playlist
type Source interface {
	Fetch(ctx context.Context, ref string) ([]setlist.Track, error)
}

// Options configures Resolve
type Options struct {
	YTDLPPath string // yt-dlp executable; empty uses PATH
	Workers   int    // Parallel tag readers for M3U8 playlists
}

// Resolve returns the source that can fetch ref
func Resolve(ref string, opts Options) (Source, error) {
	switch {
	case playlist.IsRemote(ref):
		return NewYTDLP(opts.YTDLPPath), nil
	case isPlaylistFile(ref):
		if _, err := os.Stat(ref); err != nil {
			return nil, fmt.Errorf("playlist file: %w", err)
		}

		return &M3U{Workers: opts.Workers}, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected a URL or .m3u/.m3u8 file)", ErrUnsupportedRef, ref)
	}
}

func isPlaylistFile(ref string) bool {
	ext := strings.ToLower(filepath.Ext(ref))

	return ext == ".m3u8" || ext == ".m3u"
}

// M3U reads tracks from a local playlist file and the tags of its audio files
type M3U struct {
	Workers int
}

// Fetch loads the playlist at path
func (m *M3U) Fetch(ctx context.Context, path string) ([]setlist.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracks, err := playlist.LoadPlaylistWithMetadata(path, m.Workers)
	if err != nil {
		return nil, fmt.Errorf("loading playlist %s: %w", path, err)
	}

	return tracks, nil
}
