// ABOUTME: Undo/redo stack manager for request insertions
// ABOUTME: Stores set snapshots (tracks + now-playing cursor) with a maximum stack size

package tui

import (
	"slices"

	"setlist-sidecar/setlist"
)

// SetState captures a snapshot of the set for undo/redo
type SetState struct {
	Tracks []setlist.Track
	Cursor int
}

func (s SetState) clone() SetState {
	return SetState{Tracks: slices.Clone(s.Tracks), Cursor: s.Cursor}
}

// UndoManager manages undo/redo stacks with maximum size limit
type UndoManager struct {
	undoStack []SetState
	redoStack []SetState
	maxSize   int
}

// NewUndoManager creates a new undo manager with the specified max stack size
func NewUndoManager(maxSize int) *UndoManager {
	return &UndoManager{maxSize: maxSize}
}

// Push saves a state before an edit.
// Clears the redo stack (you can't redo after a new action)
func (um *UndoManager) Push(state SetState) {
	um.undoStack = um.pushCapped(um.undoStack, state.clone())
	um.redoStack = nil
}

// Undo returns the previous state, saving current for redo.
// Returns false if there is nothing to undo.
func (um *UndoManager) Undo(current SetState) (SetState, bool) {
	if len(um.undoStack) == 0 {
		return SetState{}, false
	}

	um.redoStack = um.pushCapped(um.redoStack, current.clone())

	state := um.undoStack[len(um.undoStack)-1]
	um.undoStack = um.undoStack[:len(um.undoStack)-1]

	return state, true
}

// Redo returns the next state, saving current for undo.
// Returns false if there is nothing to redo.
func (um *UndoManager) Redo(current SetState) (SetState, bool) {
	if len(um.redoStack) == 0 {
		return SetState{}, false
	}

	um.undoStack = um.pushCapped(um.undoStack, current.clone())

	state := um.redoStack[len(um.redoStack)-1]
	um.redoStack = um.redoStack[:len(um.redoStack)-1]

	return state, true
}

func (um *UndoManager) pushCapped(stack []SetState, state SetState) []SetState {
	stack = append(stack, state)
	if um.maxSize > 0 && len(stack) > um.maxSize {
		stack = stack[1:]
	}

	return stack
}

// UndoSize returns the number of items in the undo stack
func (um *UndoManager) UndoSize() int {
	return len(um.undoStack)
}

// RedoSize returns the number of items in the redo stack
func (um *UndoManager) RedoSize() int {
	return len(um.redoStack)
}
