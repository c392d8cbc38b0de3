// ABOUTME: Shared initialization code for CLI and TUI modes
// ABOUTME: Debug logging, library opening/import and loading the ordered set into a session

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"setlist-sidecar/config"
	"setlist-sidecar/library"
	"setlist-sidecar/setlist"
	"setlist-sidecar/source"
)

const debugLogName = "setlist-sidecar-debug.log"

var debugLog *slog.Logger

// LoadOptions contains options for loading the set
type LoadOptions struct {
	Ref     string // Playlist URL or local M3U8 file
	Workers int    // Parallel tag readers for local playlists
	Verbose bool
}

// loadSession fetches the playlist, fills missing BPM/key from the library,
// orders it and starts a session on the first track.
// lib may be nil.
func loadSession(ctx context.Context, opts LoadOptions, cfg config.Config, lib *library.Library) (*setlist.Session, error) {
	src, err := source.Resolve(opts.Ref, source.Options{YTDLPPath: cfg.YTDLPPath, Workers: opts.Workers})
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		fmt.Printf("Reading playlist: %s\n", opts.Ref)
	}

	tracks, err := src.Fetch(ctx, opts.Ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist: %w", err)
	}

	if lib != nil {
		tracks, err = lib.Enrich(tracks)
		if err != nil {
			return nil, fmt.Errorf("failed to enrich tracks from library: %w", err)
		}
	}

	session, err := setlist.NewSession(setlist.Order(tracks))
	if err != nil {
		if errors.Is(err, setlist.ErrNoTracks) {
			return nil, errors.New("playlist is empty")
		}

		return nil, err
	}

	debugf("session %s: %d tracks from %s", session.ID, session.Len(), opts.Ref)

	return session, nil
}

// openLibrary opens the track library, importing exports from importDir first
// when it is set. A library that cannot be opened is only fatal when an import
// was asked for; otherwise requests are disabled.
func openLibrary(ctx context.Context, cfg config.Config, importDir string, showProgress bool) (*library.Library, error) {
	lib, err := library.Open(cfg.LibraryDB)
	if err != nil {
		if importDir != "" {
			return nil, err
		}

		log.Printf("Warning: track library unavailable, requests disabled: %v", err)

		return nil, nil
	}

	if importDir == "" {
		return lib, nil
	}

	stats, err := importLibrary(ctx, lib, importDir, showProgress)
	if err != nil {
		_ = lib.Close()

		return nil, fmt.Errorf("failed to import library exports: %w", err)
	}

	if showProgress {
		fmt.Printf("Imported %d tracks (%d rows from %d files)\n", stats.Inserted, stats.Rows, stats.Files)
	}

	return lib, nil
}

// importLibrary rebuilds the library from the exports in dir with a progress bar
func importLibrary(ctx context.Context, lib *library.Library, dir string, showProgress bool) (library.ImportStats, error) {
	var bar *progressbar.ProgressBar

	stats, err := lib.ImportDir(ctx, dir, func(done, total int) {
		if !showProgress {
			return
		}

		if bar == nil {
			bar = newProgressBar(total, "Importing library exports...", ansi.NewAnsiStdout())
		}

		_ = bar.Set(done)
	})

	if bar != nil {
		_ = bar.Finish()

		fmt.Println()
	}

	return stats, err
}

func newProgressBar(total int, description string, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
	)
}

// SetupDebugLog initializes debug logging.
// In TUI mode the default slog logger is silenced unless debug logging is on,
// so library and source logs never draw over the screen.
func SetupDebugLog(enabled, tuiMode bool) error {
	if !enabled {
		if tuiMode {
			slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		}

		return nil
	}

	if err := InitDebugLog(debugLogName); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	slog.SetDefault(debugLog)

	if isTTY(os.Stdout) && !tuiMode {
		fmt.Printf("Debug logging enabled: %s\n", debugLogName)
	}

	return nil
}

// InitDebugLog initializes debug logging
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return nil
}

// debugf logs debug messages if enabled
func debugf(format string, args ...any) {
	if debugLog != nil {
		debugLog.Debug(fmt.Sprintf(format, args...))
	}
}

// isTTY checks if the given file is a terminal
func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}

// truncate shortens s to maxLen runes, adding "..." if needed
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(r[:maxLen])
	}

	return string(r[:maxLen-3]) + "..."
}
