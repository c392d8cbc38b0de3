// ABOUTME: CLI mode: prints the ordered set and answers a single song request
// ABOUTME: Optionally applies the chosen insertion and writes the set to an M3U8 file

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	"setlist-sidecar/library"
	"setlist-sidecar/playlist"
	"setlist-sidecar/setlist"
	"setlist-sidecar/tui"
)

const (
	energyWidth      = 60
	alsoMatchingMax  = 5
	applyLocalSpot   = "local"
	applyGlobalSpot  = "global"
	unknownTrackCost = "-"
)

// CLIOptions contains options for a non-interactive run
type CLIOptions struct {
	Request    string // Title (or part of one) to place; empty skips the request
	Cursor     int    // Now-playing track number, 1-based
	Apply      string // "local", "global" or "" (only report)
	OutputPath string // Write the final set here; empty skips writing
	Lookahead  int
	Cost       setlist.CostFunc
}

// RunCLI prints the set, proposes the request and writes the result
func RunCLI(w io.Writer, session *setlist.Session, lib *library.Library, opts CLIOptions) error {
	if opts.Apply != "" && opts.Apply != applyLocalSpot && opts.Apply != applyGlobalSpot {
		return fmt.Errorf("invalid --apply %q: want %q or %q", opts.Apply, applyLocalSpot, applyGlobalSpot)
	}

	if opts.Cost == nil {
		opts.Cost = setlist.DefaultCost
	}

	fmt.Fprintln(w, "\nOrdered set:")
	printSet(w, session.Tracks(), opts.Cost)
	printEnergy(w, session.Tracks())

	if opts.Request != "" {
		if err := placeRequest(w, session, lib, opts); err != nil {
			return err
		}
	}

	if opts.OutputPath != "" {
		fmt.Fprintf(w, "\nWriting set to: %s\n", opts.OutputPath)

		if err := playlist.WritePlaylist(opts.OutputPath, session.Tracks()); err != nil {
			return fmt.Errorf("failed to write playlist: %w", err)
		}

		fmt.Fprintln(w, "Done!")
	}

	return nil
}

// printSet prints the set as a table with the cost of each transition into a track
func printSet(w io.Writer, tracks []setlist.Track, cost setlist.CostFunc) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "#\tKey\tBPM\tTime\tCost\tArtist\tTitle"); err != nil {
		log.Printf("Warning: failed to write header: %v", err)
	}

	if _, err := fmt.Fprintln(tw, "---\t---\t---\t----\t----\t------\t-----"); err != nil {
		log.Printf("Warning: failed to write separator: %v", err)
	}

	var total float64

	for i, track := range tracks {
		transition := unknownTrackCost

		if i > 0 {
			c := cost(tracks[i-1], track)
			total += c
			transition = fmt.Sprintf("%.1f", c)
		}

		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			orUnknown(track.Key),
			bpmOrUnknown(track.BPM),
			formatTime(track.Duration),
			transition,
			truncate(track.Artist, 20),
			truncate(track.Title, 40),
		); err != nil {
			log.Printf("Warning: failed to write track %d: %v", i+1, err)
		}
	}

	if err := tw.Flush(); err != nil {
		log.Printf("Warning: failed to flush output: %v", err)
	}

	fmt.Fprintf(w, "\n%d tracks, total transition cost %.1f\n", len(tracks), total)
}

// printEnergy prints the BPM curve of the set
func printEnergy(w io.Writer, tracks []setlist.Track) {
	bpms := make([]float64, len(tracks))
	for i, t := range tracks {
		bpms[i] = t.BPM
	}

	fmt.Fprintf(w, "Energy: %s\n", tui.Sparkline(bpms, energyWidth))
}

// placeRequest proposes both insertion points for the request and applies one if asked
func placeRequest(w io.Writer, session *setlist.Session, lib *library.Library, opts CLIOptions) error {
	if lib == nil {
		return errors.New("song requests need the track library (see --library and --import)")
	}

	track, err := lib.Match(opts.Request)
	if err != nil {
		return err
	}

	if err := session.Seek(opts.Cursor - 1); err != nil {
		return fmt.Errorf("invalid --cursor %d: %w", opts.Cursor, err)
	}

	proposal, err := session.Propose(track, opts.Lookahead, opts.Cost)
	if err != nil {
		return fmt.Errorf("failed to place request: %w", err)
	}

	current := session.Current()

	fmt.Fprintf(w, "\nRequest: %s - %s (%s, %s BPM, %s)\n",
		track.Artist, track.Title, orUnknown(track.Key), bpmOrUnknown(track.BPM), formatTime(track.Duration))
	fmt.Fprintf(w, "Now playing #%d: %s - %s\n", opts.Cursor, current.Artist, current.Title)

	if others, err := lib.Search(opts.Request, alsoMatchingMax+1); err == nil && len(others) > 1 {
		fmt.Fprintf(w, "Also matching %q:\n", opts.Request)

		for _, o := range others[1:min(len(others), alsoMatchingMax+1)] {
			fmt.Fprintf(w, "  %s - %s\n", o.Artist, o.Title)
		}
	}

	localCost, globalCost := FormatCostPair(proposal.Local.Cost, proposal.Global.Cost)

	fmt.Fprintf(w, "  Local (next %d):  #%d, %s, cost %s\n",
		proposal.Lookahead, proposal.Local.Position+1, describeLead(proposal.Local), localCost)
	fmt.Fprintf(w, "  Global:          #%d, %s, cost %s\n",
		proposal.Global.Position+1, describeLead(proposal.Global), globalCost)

	var chosen setlist.Candidate

	switch opts.Apply {
	case applyLocalSpot:
		chosen = proposal.Local
	case applyGlobalSpot:
		chosen = proposal.Global
	default:
		return nil
	}

	if err := session.Insert(chosen.Position, track); err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}

	fmt.Fprintf(w, "\nInserted at #%d (%s spot):\n", chosen.Position+1, opts.Apply)
	printSet(w, session.Tracks(), opts.Cost)

	return nil
}

// describeLead says how many songs and how much time until the candidate plays
func describeLead(c setlist.Candidate) string {
	if c.SongsAway <= 1 {
		return "right after the current track"
	}

	return fmt.Sprintf("%d songs away, in ~%s", c.SongsAway, formatTime(c.Lead))
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}

	return s
}

func bpmOrUnknown(bpm float64) string {
	if bpm <= 0 {
		return "?"
	}

	return fmt.Sprintf("%.0f", bpm)
}
