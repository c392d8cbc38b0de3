// ABOUTME: TUI mode configuration and injected dependencies
// ABOUTME: Defines input parameters and collaborators for running the TUI

package tui

import (
	"context"

	"setlist-sidecar/setlist"
)

// Options contains configuration for running the TUI
type Options struct {
	SetName    string           // Shown in the title bar (playlist URL or file)
	OutputPath string           // M3U8 written on save and on exit; empty disables saving
	Lookahead  int              // Local window size for request proposals
	Cost       setlist.CostFunc // Transition cost; nil uses setlist.DefaultCost
}

// Dependencies holds all external dependencies for the TUI.
// Every field is optional.
type Dependencies struct {
	Library       Library
	Watcher       ExportWatcher
	Reimport      func(ctx context.Context) error
	WritePlaylist func(path string, tracks []setlist.Track) error
	Debugf        func(format string, args ...any)
}
