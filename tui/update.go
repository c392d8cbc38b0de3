// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function with one handler per input mode

package tui

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"setlist-sidecar/setlist"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] Update panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.viewport.Width = max(msg.Width-sidePanelWidth-panelPadding, minViewportWidth)
		m.viewport.Height = max(msg.Height-totalUIChrome, minViewportHeight)

		m.updateViewportContent()

		return m, nil

	case exportsReloadedMsg:
		if msg.err != nil {
			m.debugf("[TUI] library re-import failed: %v", msg.err)
			m.setStatusMsg("Library re-import failed: " + msg.err.Error())
		} else {
			m.loadSuggestions()
			m.setStatusMsg("Library updated from exports")
		}

		return m, waitForExportChange(m.ctx, m.watcher, m.reimport)

	case tea.KeyMsg:
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeNote:
			return m.updateNote(msg)
		case modeRequest:
			return m.updateRequest(msg)
		case modeChoose:
			return m.updateChoose(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	// Everything else (cursor blink etc.) goes to the focused input
	return m.updateFocusedInput(msg)
}

func (m model) updateBrowse(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()

	case key.Matches(msg, keys.Up):
		m.session.Prev()

	case key.Matches(msg, keys.Down):
		m.session.Next()

	case key.Matches(msg, keys.PageUp):
		_ = m.session.Seek(max(m.session.Cursor()-pageJumpSize, 0))

	case key.Matches(msg, keys.PageDown):
		_ = m.session.Seek(min(m.session.Cursor()+pageJumpSize, m.session.Len()-1))

	case key.Matches(msg, keys.Home):
		_ = m.session.Seek(0)

	case key.Matches(msg, keys.End):
		_ = m.session.Seek(m.session.Len() - 1)

	case key.Matches(msg, keys.Note):
		m.noteInput.SetValue(m.session.Note())
		m.mode = modeNote

		return m, m.noteInput.Focus()

	case key.Matches(msg, keys.Request):
		if m.library == nil {
			m.setStatusMsg("No track library loaded (import exports with --import)")

			return m, nil
		}

		m.requestInput.Reset()
		m.mode = modeRequest

		return m, m.requestInput.Focus()

	case key.Matches(msg, keys.Filter):
		m.filterInput.SetValue(m.filter)
		m.mode = modeFilter

		return m, m.filterInput.Focus()

	case key.Matches(msg, keys.Cancel):
		m.filter = ""

	case key.Matches(msg, keys.Undo):
		m.undo()

	case key.Matches(msg, keys.Redo):
		m.redo()

	case key.Matches(msg, keys.Save):
		m.save()
	}

	m.updateViewportContent()

	return m, nil
}

func (m model) updateFilter(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQ):
		return m.quit()

	case key.Matches(msg, keys.Cancel):
		m.filter = ""
		m.closeInputs()

	case key.Matches(msg, keys.Submit):
		m.filter = strings.TrimSpace(m.filterInput.Value())
		m.closeInputs()

	default:
		var cmd tea.Cmd

		m.filterInput, cmd = m.filterInput.Update(msg)
		m.filter = strings.TrimSpace(m.filterInput.Value())
		m.updateViewportContent()

		return m, cmd
	}

	m.updateViewportContent()

	return m, nil
}

func (m model) updateNote(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQ):
		return m.quit()

	case key.Matches(msg, keys.Cancel):
		m.closeInputs()
		m.setStatusMsg("Note discarded")

	case key.Matches(msg, keys.SaveNote):
		m.session.SetNote(m.noteInput.Value())

		k := m.session.NoteKey()
		m.debugf("[TUI] note saved for %q -> %q", k.From, k.To)
		m.setStatusMsg(fmt.Sprintf("Note saved for %s → %s", truncate(k.From, 20), truncate(k.To, 20)))
		m.closeInputs()

	default:
		var cmd tea.Cmd

		m.noteInput, cmd = m.noteInput.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m model) updateRequest(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQ):
		return m.quit()

	case key.Matches(msg, keys.Cancel):
		m.closeInputs()

	case key.Matches(msg, keys.Submit):
		m.proposeRequest(strings.TrimSpace(m.requestInput.Value()))

	default:
		var cmd tea.Cmd

		m.requestInput, cmd = m.requestInput.Update(msg)

		return m, cmd
	}

	return m, nil
}

// proposeRequest resolves the query and computes both insertion proposals
func (m *model) proposeRequest(query string) {
	if query == "" {
		m.setStatusMsg("Type part of a title first")

		return
	}

	track, err := m.library.Match(query)
	if err != nil {
		m.setStatusMsg(err.Error())

		return
	}

	proposal, err := m.session.Propose(track, m.lookahead, m.cost)
	if err != nil {
		m.setStatusMsg("Cannot place request: " + err.Error())
		m.closeInputs()

		return
	}

	m.debugf("[TUI] request %q: local=%+v global=%+v", track.Title, proposal.Local, proposal.Global)

	m.closeInputs()
	m.request = track
	m.proposal = proposal
	m.mode = modeChoose
}

func (m model) updateChoose(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQ):
		return m.quit()

	case key.Matches(msg, keys.Local):
		m.chosen, m.chosenLabel = m.proposal.Local, "local"
		m.mode = modeConfirm

	case key.Matches(msg, keys.Global):
		m.chosen, m.chosenLabel = m.proposal.Global, "global"
		m.mode = modeConfirm

	case key.Matches(msg, keys.Cancel):
		m.clearRequest()
		m.setStatusMsg("Request cancelled")
	}

	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQ):
		return m.quit()

	case key.Matches(msg, keys.Confirm):
		m.insertRequest()

	case key.Matches(msg, keys.Cancel):
		m.mode = modeChoose
	}

	return m, nil
}

// insertRequest applies the chosen proposal to the session
func (m *model) insertRequest() {
	before := SetState{Tracks: m.session.Tracks(), Cursor: m.session.Cursor()}

	if err := m.session.Insert(m.chosen.Position, m.request); err != nil {
		m.setStatusMsg("Insert failed: " + err.Error())
		m.clearRequest()

		return
	}

	m.undoMgr.Push(before)
	m.modified = true

	m.debugf("[TUI] inserted %q at %d (%s)", m.request.Title, m.chosen.Position, m.chosenLabel)
	m.setStatusMsg(fmt.Sprintf("Inserted %s at #%d, %s", truncate(m.request.Title, 30), m.chosen.Position+1, describeWhen(m.chosen)))

	m.clearRequest()
	m.updateViewportContent()
}

func (m *model) clearRequest() {
	m.request = setlist.Track{}
	m.proposal = setlist.Proposal{}
	m.chosen = setlist.Candidate{}
	m.chosenLabel = ""
	m.mode = modeBrowse
}

// closeInputs blurs every input and returns to browsing
func (m *model) closeInputs() {
	m.filterInput.Blur()
	m.requestInput.Blur()
	m.noteInput.Blur()
	m.mode = modeBrowse
}

func (m model) updateFocusedInput(msg tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.mode {
	case modeFilter:
		m.filterInput, cmd = m.filterInput.Update(msg)
	case modeRequest:
		m.requestInput, cmd = m.requestInput.Update(msg)
	case modeNote:
		m.noteInput, cmd = m.noteInput.Update(msg)
	}

	return m, cmd
}

func (m model) quit() (model, tea.Cmd) {
	m.quitting = true
	m.cancel()

	return m, tea.Quit
}

// undo restores the set before the last insertion, keeping the playing track under the cursor
func (m *model) undo() {
	current := SetState{Tracks: m.session.Tracks(), Cursor: m.session.Cursor()}

	state, ok := m.undoMgr.Undo(current)
	if !ok {
		m.setStatusMsg("Nothing to undo")

		return
	}

	m.restore(current, state)
	m.setStatusMsg(fmt.Sprintf("Undo (Undo: %d, Redo: %d)", m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))
}

// redo re-applies an undone insertion
func (m *model) redo() {
	current := SetState{Tracks: m.session.Tracks(), Cursor: m.session.Cursor()}

	state, ok := m.undoMgr.Redo(current)
	if !ok {
		m.setStatusMsg("Nothing to redo")

		return
	}

	m.restore(current, state)
	m.setStatusMsg(fmt.Sprintf("Redo (Undo: %d, Redo: %d)", m.undoMgr.UndoSize(), m.undoMgr.RedoSize()))
}

func (m *model) restore(current, state SetState) {
	cursor := followCursor(current.Tracks, current.Cursor, state.Tracks, state.Cursor)

	if err := m.session.Restore(state.Tracks, cursor); err != nil {
		m.debugf("[TUI] restore failed: %v", err)
		m.setStatusMsg("Restore failed: " + err.Error())

		return
	}

	m.modified = true
}

// followCursor maps the cursor from one set to another that differs by a
// single inserted or removed track, so the playing track stays selected.
// Other differences fall back to the snapshot's cursor.
func followCursor(from []setlist.Track, cursor int, to []setlist.Track, fallback int) int {
	diff := len(to) - len(from)
	if diff != 1 && diff != -1 {
		return min(max(fallback, 0), len(to)-1)
	}

	i := 0
	for i < min(len(from), len(to)) && from[i] == to[i] {
		i++
	}

	switch {
	case diff == 1 && i <= cursor:
		cursor++
	case diff == -1 && i < cursor:
		cursor--
	}

	return min(max(cursor, 0), len(to)-1)
}

// save writes the live set to the output playlist
func (m *model) save() {
	if m.outputPath == "" || m.writePlaylist == nil {
		m.setStatusMsg("No output file (start with --output)")

		return
	}

	tracks := m.session.Tracks()
	if err := m.writePlaylist(m.outputPath, tracks); err != nil {
		m.debugf("[TUI] save failed: %v", err)
		m.setStatusMsg("Save failed: " + err.Error())

		return
	}

	m.modified = false
	m.setStatusMsg(fmt.Sprintf("Saved %d tracks to %s", len(tracks), m.outputPath))
}
