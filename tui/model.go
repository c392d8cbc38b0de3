// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model around a live set session: navigation, notes, requests and undo

// Package tui provides the interactive terminal sidecar for a live DJ set:
// the ordered queue, per-transition notes and song request insertion.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"setlist-sidecar/setlist"
)

// Layout constants for UI dimensions
const (
	sidePanelWidth = 52 // Left panel width for now-playing, notes and requests
	panelPadding   = 2  // Horizontal spacing between panels

	// UI chrome heights (elements that reduce available viewport space)
	titleHeight     = 2 // Panel title bars
	headerHeight    = 1 // Column headers for the queue
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	spacingHeight   = 2 // Vertical spacing between elements
	totalUIChrome   = titleHeight + headerHeight + statusBarHeight + helpHeight + spacingHeight

	// Minimum viewport dimensions to ensure usability
	minViewportWidth  = 20
	minViewportHeight = 5
)

// Navigation and interaction constants
const (
	pageJumpSize          = 10              // Number of tracks to jump on PageUp/PageDown
	statusMessageDuration = 5 * time.Second // How long to show transient status messages
	maxUndoStackSize      = 50              // Maximum undo/redo history items
)

// mode is what the keyboard is currently driving
type mode int

const (
	modeBrowse  mode = iota // Moving the now-playing cursor
	modeFilter              // Typing a queue filter
	modeNote                // Editing the current transition note
	modeRequest             // Typing a song request
	modeChoose              // Picking the local or global proposal
	modeConfirm             // Confirming the chosen insertion
)

// exportsReloadedMsg is sent after the library re-imported changed exports
type exportsReloadedMsg struct {
	err error
}

// model holds the TUI state
type model struct {
	// Dependencies
	session       *setlist.Session
	library       Library
	watcher       ExportWatcher
	reimport      func(context.Context) error
	writePlaylist func(string, []setlist.Track) error
	debugf        func(string, ...any)

	// Request settings
	lookahead int
	cost      setlist.CostFunc

	// Watcher lifecycle
	// Framework exception: Bubble Tea owns the model lifecycle, so the
	// cancellation context lives in the struct.
	ctx    context.Context //nolint:containedctx // See framework exception above
	cancel context.CancelFunc

	// File I/O
	setName    string
	outputPath string
	modified   bool // Set changed since the last save

	// UI state
	width        int
	height       int
	quitting     bool
	mode         mode
	statusMsg    string    // Temporary status message (e.g., "Saved")
	statusMsgAge time.Time // When status message was set

	// Queue
	viewport viewport.Model
	filter   string
	undoMgr  *UndoManager

	// Inputs
	filterInput  textinput.Model
	requestInput textinput.Model
	noteInput    textarea.Model

	// Pending request
	request     setlist.Track
	proposal    setlist.Proposal
	chosen      setlist.Candidate
	chosenLabel string
}

// Key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Note     key.Binding
	Request  key.Binding
	Filter   key.Binding
	Local    key.Binding
	Global   key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Submit   key.Binding
	SaveNote key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Save     key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous track"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next track"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home/g", "first track"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end/G", "last track"),
	),
	Note: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "edit transition note"),
	),
	Request: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "song request"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter queue"),
	),
	Local: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "local spot"),
	),
	Global: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "best spot overall"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	SaveNote: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save note"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Save: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "save"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ForceQ: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	nowPlayingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	proposalStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("12"))

	queueHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("10"))

	playedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15")).
			Bold(true)
)

// Run starts the TUI for an active session. Cancelling ctx stops the export watcher.
func Run(ctx context.Context, session *setlist.Session, opts Options, deps Dependencies) error {
	m := newModel(ctx, session, opts, deps)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Save the live set on exit if it changed since the last save
	if fm, ok := finalModel.(model); ok && fm.modified && fm.outputPath != "" && fm.writePlaylist != nil {
		if err := fm.writePlaylist(fm.outputPath, fm.session.Tracks()); err != nil {
			return fmt.Errorf("failed to save set: %w", err)
		}

		fmt.Printf("\nSaved set to: %s\n", fm.outputPath)
	}

	return nil
}

// newModel creates the initial model with injected dependencies
func newModel(parent context.Context, session *setlist.Session, opts Options, deps Dependencies) model {
	ctx, cancel := context.WithCancel(parent)

	debugf := deps.Debugf
	if debugf == nil {
		debugf = func(string, ...any) {}
	}

	lookahead := opts.Lookahead
	if lookahead < 0 {
		lookahead = setlist.DefaultLookahead
	}

	filterInput := textinput.New()
	filterInput.Prompt = "/ "
	filterInput.Placeholder = "title or artist"
	filterInput.CharLimit = 64

	requestInput := textinput.New()
	requestInput.Prompt = "request> "
	requestInput.Placeholder = "part of a title"
	requestInput.CharLimit = 128
	requestInput.ShowSuggestions = true

	noteInput := textarea.New()
	noteInput.Placeholder = "cue points, EQ moves, loop lengths..."
	noteInput.ShowLineNumbers = false
	noteInput.SetWidth(sidePanelWidth - 4)
	noteInput.SetHeight(4)

	m := model{
		session:       session,
		library:       deps.Library,
		watcher:       deps.Watcher,
		reimport:      deps.Reimport,
		writePlaylist: deps.WritePlaylist,
		debugf:        debugf,

		lookahead: lookahead,
		cost:      opts.Cost,

		ctx:    ctx,
		cancel: cancel,

		setName:    opts.SetName,
		outputPath: opts.OutputPath,

		viewport: viewport.New(0, 0), // Width and height set on first WindowSizeMsg
		undoMgr:  NewUndoManager(maxUndoStackSize),

		filterInput:  filterInput,
		requestInput: requestInput,
		noteInput:    noteInput,
	}

	m.loadSuggestions()
	m.updateViewportContent()

	m.debugf("[TUI] session %s started with %d tracks", session.ID, session.Len())

	return m
}

// Init starts watching the library exports when a watcher is configured
func (m model) Init() tea.Cmd {
	return tea.Batch(
		waitForExportChange(m.ctx, m.watcher, m.reimport),
		tea.EnterAltScreen,
	)
}

// waitForExportChange returns a command that re-imports the library once
// the exports change
func waitForExportChange(ctx context.Context, watcher ExportWatcher, reimport func(context.Context) error) tea.Cmd {
	if watcher == nil || reimport == nil {
		return nil
	}

	return func() tea.Msg {
		if err := watcher.Wait(ctx); err != nil {
			// Cancelled or closed: stop watching
			return nil
		}

		return exportsReloadedMsg{err: reimport(ctx)}
	}
}

// loadSuggestions feeds library titles to the request autocomplete
func (m *model) loadSuggestions() {
	if m.library == nil {
		return
	}

	titles, err := m.library.Titles()
	if err != nil {
		m.debugf("[TUI] loading library titles failed: %v", err)

		return
	}

	m.requestInput.SetSuggestions(titles)
}

// setStatusMsg sets a transient status message with current timestamp
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
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
