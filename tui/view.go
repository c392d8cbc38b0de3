// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function and all render helpers

package tui

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"setlist-sidecar/setlist"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] View panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return "Bye!\n"
	}

	panelHeight := max(m.height-(statusBarHeight+helpHeight+1), 0)

	leftPanelStyle := lipgloss.NewStyle().
		Width(sidePanelWidth).
		Height(panelHeight).
		Padding(0, 1)

	rightPanelWidth := max(m.width-sidePanelWidth-panelPadding, minViewportWidth*2)

	rightPanelStyle := lipgloss.NewStyle().
		Width(rightPanelWidth).
		Height(panelHeight).
		Padding(0, 1)

	combined := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanelStyle.Render(m.renderSide()),
		rightPanelStyle.Render(m.renderQueue()),
	)

	return combined + "\n" + m.renderStatus() + "\n" + m.renderHelp()
}

// renderSide renders the now-playing panel: current and next track,
// the transition note, the energy curve and any pending request
func (m model) renderSide() string {
	var s strings.Builder

	tracks := m.session.Tracks()
	cursor := m.session.Cursor()
	current := tracks[cursor]

	s.WriteString(titleStyle.Render("Now playing") + "\n\n")
	s.WriteString(nowPlayingStyle.Render(fmt.Sprintf("%d. %s", cursor+1, truncate(trackLabel(current), sidePanelWidth-8))) + "\n")
	s.WriteString(labelStyle.Render(fmt.Sprintf("   %s  %s BPM  %s", formatKey(current.Key), formatBPM(current.BPM), formatLength(current.Duration))) + "\n\n")

	s.WriteString(labelStyle.Render("Up next: "))

	if cursor+1 < len(tracks) {
		next := tracks[cursor+1]
		s.WriteString(truncate(trackLabel(next), sidePanelWidth-14) + "\n")
		s.WriteString(labelStyle.Render(fmt.Sprintf("   %s  %s BPM", formatKey(next.Key), formatBPM(next.BPM))) + "\n")
	} else {
		s.WriteString("End of set\n")
	}

	if compatible := setlist.CompatibleKeys(current.Key); len(compatible) > 0 {
		s.WriteString(labelStyle.Render("Mixes into: ") + hintStyle.Render(strings.Join(compatible, " ")) + "\n")
	}

	s.WriteString("\n" + titleStyle.Render("Transition note") + "\n")

	if m.mode == modeNote {
		s.WriteString(m.noteInput.View() + "\n")
	} else {
		k := m.session.NoteKey()
		if cursor+1 >= len(tracks) {
			s.WriteString(labelStyle.Render(truncate(k.From, 20)+" → (end)") + "\n")
		} else {
			s.WriteString(labelStyle.Render(truncate(k.From, 20)+" → "+truncate(k.To, 20)) + "\n")
		}

		if note := m.session.Note(); note != "" {
			s.WriteString(noteStyle.Width(sidePanelWidth-4).Render(note) + "\n")
		} else {
			s.WriteString(labelStyle.Render("(none, press n)") + "\n")
		}
	}

	s.WriteString("\n" + titleStyle.Render("Energy") + "\n")
	s.WriteString(m.renderEnergy(tracks, cursor) + "\n")

	s.WriteString("\n" + m.renderRequest())

	return s.String()
}

// renderEnergy draws the BPM curve with a marker under the playing track
func (m model) renderEnergy(tracks []setlist.Track, cursor int) string {
	width := sidePanelWidth - 4

	bpms := make([]float64, len(tracks))
	for i, t := range tracks {
		bpms[i] = t.BPM
	}

	col := SparkColumn(cursor, len(bpms), width)

	return hintStyle.Render(Sparkline(bpms, width)) + "\n" + strings.Repeat(" ", col) + "^"
}

// renderRequest renders the request area for the current mode
func (m model) renderRequest() string {
	switch m.mode {
	case modeRequest:
		return titleStyle.Render("Song request") + "\n" + m.requestInput.View() + "\n"

	case modeChoose, modeConfirm:
		var s strings.Builder

		fmt.Fprintf(&s, "%s\n%s  %s  %s BPM\n\n",
			nowPlayingStyle.Render(truncate(trackLabel(m.request), sidePanelWidth-8)),
			formatKey(m.request.Key), formatLength(m.request.Duration), formatBPM(m.request.BPM))

		fmt.Fprintf(&s, "[l] Next %d: %s\n", m.proposal.Lookahead, describeCandidate(m.proposal.Local))
		fmt.Fprintf(&s, "[g] Best:    %s", describeCandidate(m.proposal.Global))

		if m.mode == modeConfirm {
			fmt.Fprintf(&s, "\n\nInsert at #%d (%s)? [y/esc]", m.chosen.Position+1, m.chosenLabel)
		}

		return titleStyle.Render("Song request") + "\n" + proposalStyle.Width(sidePanelWidth-4).Render(s.String()) + "\n"

	case modeFilter:
		return m.filterInput.View() + "\n"
	}

	if m.filter != "" {
		return labelStyle.Render("Filter: "+m.filter) + "\n"
	}

	return ""
}

// describeCandidate summarises where and when a candidate would play
func describeCandidate(c setlist.Candidate) string {
	return fmt.Sprintf("#%d, %s, cost %.2f", c.Position+1, describeWhen(c), c.Cost)
}

// describeWhen states how far away a candidate is in songs and time
func describeWhen(c setlist.Candidate) string {
	if c.SongsAway <= 1 {
		return "right after this track"
	}

	return fmt.Sprintf("%d songs away, in ~%s", c.SongsAway, c.LeadTime().Round(time.Minute))
}

// renderQueue renders the set with viewport scrolling
func (m model) renderQueue() string {
	var s strings.Builder

	title := "Set"
	if m.setName != "" {
		title += ": " + truncate(m.setName, 40)
	}

	s.WriteString(titleStyle.Render(title) + "\n\n")
	s.WriteString(queueHeaderStyle.Render(fmt.Sprintf("  %-3s %-4s %-4s %-5s %-20s %-30s", "#", "Key", "BPM", "Time", "Artist", "Title")) + "\n")
	s.WriteString(m.viewport.View())

	return s.String()
}

// queueRow is a track and its index in the full set
type queueRow struct {
	index int
	track setlist.Track
}

// visibleRows returns the tracks matching the filter (title or artist, case-insensitive)
func (m model) visibleRows() []queueRow {
	tracks := m.session.Tracks()
	filter := strings.ToLower(m.filter)

	rows := make([]queueRow, 0, len(tracks))

	for i, t := range tracks {
		if filter != "" &&
			!strings.Contains(strings.ToLower(t.Title), filter) &&
			!strings.Contains(strings.ToLower(t.Artist), filter) {
			continue
		}

		rows = append(rows, queueRow{index: i, track: t})
	}

	return rows
}

// updateViewportContent builds the queue rows and scrolls the playing track into view
func (m *model) updateViewportContent() {
	var content strings.Builder

	cursor := m.session.Cursor()
	rows := m.visibleRows()
	cursorRow := 0

	for i, row := range rows {
		t := row.track

		line := fmt.Sprintf("%-3d %-4s %-4s %-5s %-20s %-30s",
			row.index+1,
			formatKey(t.Key),
			formatBPM(t.BPM),
			formatLength(t.Duration),
			truncate(t.Artist, 20),
			truncate(t.Title, 30),
		)

		switch {
		case row.index == cursor:
			line = cursorStyle.Render("▶ " + line)
			cursorRow = i
		case row.index < cursor:
			line = playedStyle.Render("  " + line)
		default:
			line = "  " + line
		}

		content.WriteString(line + "\n")
	}

	m.viewport.SetContent(content.String())
	m.viewport.SetYOffset(scrollOffset(m.viewport.Height, cursorRow, len(rows)))
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		return statusStyle.Width(m.width).Render(m.statusMsg)
	}

	modified := ""
	if m.modified {
		modified = " [modified]"
	}

	status := fmt.Sprintf("%d tracks | Track %d/%d | U:%d R:%d | %d notes | lookahead %d%s",
		m.session.Len(),
		m.session.Cursor()+1,
		m.session.Len(),
		m.undoMgr.UndoSize(),
		m.undoMgr.RedoSize(),
		m.session.NoteCount(),
		m.lookahead,
		modified,
	)

	return statusStyle.Width(m.width).Render(status)
}

// renderHelp renders the key hints for the current mode
func (m model) renderHelp() string {
	var help string

	switch m.mode {
	case modeFilter:
		help = "type to filter | enter: keep | esc: clear"
	case modeNote:
		help = "ctrl+s: save note | esc: discard"
	case modeRequest:
		help = "tab: complete | enter: find spot | esc: cancel"
	case modeChoose:
		help = "l: local spot | g: best spot overall | esc: cancel"
	case modeConfirm:
		help = "y/enter: insert | esc: back"
	default:
		help = "↑↓/jk: move | pgup/pgdn: page | n: note | r: request | /: filter | u/ctrl+r: undo/redo | w: save | q: quit"
	}

	if m.library == nil && m.mode == modeBrowse {
		return helpStyle.Render(help) + " " + errorStyle.Render("(no library)")
	}

	return helpStyle.Render(help)
}

// trackLabel renders "Artist - Title", or just the title when the artist is unknown
func trackLabel(t setlist.Track) string {
	if t.Artist == "" {
		return t.Title
	}

	return t.Artist + " - " + t.Title
}

// formatKey shows "?" for an unknown key
func formatKey(key string) string {
	if key == "" {
		return "?"
	}

	return key
}

// formatBPM shows "?" for an unknown tempo
func formatBPM(bpm float64) string {
	if bpm <= 0 {
		return "?"
	}

	return fmt.Sprintf("%.0f", bpm)
}

// formatLength formats seconds as m:ss, or --:-- when unknown
func formatLength(seconds float64) string {
	if seconds <= 0 {
		return "--:--"
	}

	total := int(seconds + 0.5)

	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
