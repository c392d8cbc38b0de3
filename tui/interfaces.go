// ABOUTME: Interfaces defining dependencies for the TUI package
// ABOUTME: Allows clean separation and easy testing with fakes

package tui

import (
	"context"

	"setlist-sidecar/setlist"
)

// Library resolves song requests against the reference track library
type Library interface {
	Match(query string) (setlist.Track, error)
	Titles() ([]string, error)
}

// ExportWatcher blocks until the library exports on disk change
type ExportWatcher interface {
	Wait(ctx context.Context) error
}
