// ABOUTME: Remote playlist source backed by yt-dlp's JSON dump
// ABOUTME: Maps playlist entries (title, artist, length, artwork, URL) to set tracks

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"setlist-sidecar/setlist"
)

var ErrEmptyPlaylist = errors.New("playlist has no tracks")

// Runner executes yt-dlp with extra arguments. *ytdlp.Command satisfies it.
type Runner interface {
	Run(ctx context.Context, args ...string) (*ytdlp.Result, error)
}

// YTDLP fetches remote playlists (SoundCloud sets, YouTube playlists, ...)
type YTDLP struct {
	runner Runner
}

// NewYTDLP uses the yt-dlp at executable, or the one on PATH when empty
func NewYTDLP(executable string) *YTDLP {
	cmd := ytdlp.New().
		DumpSingleJSON().
		SkipDownload().
		NoWarnings().
		IgnoreErrors()

	if executable != "" {
		cmd = cmd.SetExecutable(executable)
	}

	return &YTDLP{runner: cmd}
}

// NewYTDLPWithRunner wraps a custom runner
func NewYTDLPWithRunner(r Runner) *YTDLP {
	return &YTDLP{runner: r}
}

// info is the subset of yt-dlp's JSON dump we use. Playlists carry entries;
// a single track URL is the entry itself.
type info struct {
	Type       string  `json:"_type"`
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Track      string  `json:"track"`
	Artist     string  `json:"artist"`
	Uploader   string  `json:"uploader"`
	Channel    string  `json:"channel"`
	Duration   float64 `json:"duration"`
	Thumbnail  string  `json:"thumbnail"`
	WebpageURL string  `json:"webpage_url"`
	URL        string  `json:"url"`
	Genre      string  `json:"genre"`
	Album      string  `json:"album"`
	Entries    []*info `json:"entries"`
}

// Fetch resolves the playlist at url
func (y *YTDLP) Fetch(ctx context.Context, url string) ([]setlist.Track, error) {
	slog.Info("fetching remote playlist", "url", url)

	result, err := y.runner.Run(ctx, url)
	if err != nil {
		if result != nil && result.Stderr != "" {
			return nil, fmt.Errorf("yt-dlp failed: %w\nstderr: %s", err, result.Stderr)
		}

		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	tracks, err := parseDump([]byte(result.Stdout))
	if err != nil {
		return nil, err
	}

	slog.Info("fetched remote playlist", "url", url, "tracks", len(tracks))

	return tracks, nil
}

// parseDump converts a yt-dlp JSON dump to tracks. Entries yt-dlp could not
// resolve come back as null and are skipped.
func parseDump(data []byte) ([]setlist.Track, error) {
	var root info
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp JSON: %w", err)
	}

	entries := root.Entries
	if root.Type != "playlist" && len(entries) == 0 {
		entries = []*info{&root}
	}

	tracks := make([]setlist.Track, 0, len(entries))

	for _, e := range entries {
		if e == nil || strings.TrimSpace(e.Title) == "" {
			continue
		}

		tracks = append(tracks, e.track())
	}

	if len(tracks) == 0 {
		return nil, ErrEmptyPlaylist
	}

	return tracks, nil
}

func (e *info) track() setlist.Track {
	title := e.Title
	if strings.TrimSpace(e.Track) != "" {
		title = e.Track
	}

	path := e.WebpageURL
	if path == "" {
		path = e.URL
	}

	return setlist.Track{
		Title:     strings.TrimSpace(title),
		Artist:    pickArtist(e),
		Duration:  max(e.Duration, 0),
		Thumbnail: e.Thumbnail,
		Path:      path,
		Album:     e.Album,
		Genre:     e.Genre,
	}
}

// pickArtist prefers the explicit artist, then the channel, then the uploader
func pickArtist(e *info) string {
	for _, s := range []string{e.Artist, e.Channel, e.Uploader} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}

	return ""
}
