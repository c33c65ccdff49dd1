// ABOUTME: Undo/redo stack manager for filter state changes
// ABOUTME: Manages snapshot history with maximum stack size limit

package tui

import "playlist-browser/filter"

// FilterState captures the filter selection and cursor for undo/redo
type FilterState struct {
	Snapshot  filter.Snapshot
	CursorPos int
}

// UndoManager manages undo/redo stacks with maximum size limit
type UndoManager struct {
	undoStack []FilterState
	redoStack []FilterState
	maxSize   int
}

// NewUndoManager creates a new undo manager with the specified max stack size
func NewUndoManager(maxSize int) *UndoManager {
	return &UndoManager{
		undoStack: []FilterState{},
		redoStack: []FilterState{},
		maxSize:   maxSize,
	}
}

// copyState deep-copies the selection map so later engine mutations cannot leak in
func copyState(state FilterState) FilterState {
	filters := make(map[string][]string, len(state.Snapshot.Filters))
	for category, values := range state.Snapshot.Filters {
		filters[category] = append([]string(nil), values...)
	}

	state.Snapshot.Filters = filters

	return state
}

// pushBounded appends state to stack, dropping the oldest entry beyond maxSize
func (um *UndoManager) pushBounded(stack []FilterState, state FilterState) []FilterState {
	stack = append(stack, copyState(state))

	if len(stack) > um.maxSize {
		stack = stack[1:]
	}

	return stack
}

// Push saves a new state to the undo stack
// Clears the redo stack (you can't redo after a new action)
func (um *UndoManager) Push(state FilterState) {
	um.undoStack = um.pushBounded(um.undoStack, state)
	um.redoStack = []FilterState{}
}

// Undo restores the previous state
// Returns the state and true if undo was successful, or zero value and false if nothing to undo
func (um *UndoManager) Undo(currentState FilterState) (FilterState, bool) {
	if len(um.undoStack) == 0 {
		return FilterState{}, false
	}

	um.redoStack = um.pushBounded(um.redoStack, currentState)

	state := um.undoStack[len(um.undoStack)-1]
	um.undoStack = um.undoStack[:len(um.undoStack)-1]

	return state, true
}

// Redo restores the next state
// Returns the state and true if redo was successful, or zero value and false if nothing to redo
func (um *UndoManager) Redo(currentState FilterState) (FilterState, bool) {
	if len(um.redoStack) == 0 {
		return FilterState{}, false
	}

	um.undoStack = um.pushBounded(um.undoStack, currentState)

	state := um.redoStack[len(um.redoStack)-1]
	um.redoStack = um.redoStack[:len(um.redoStack)-1]

	return state, true
}

// UndoSize returns the number of items in the undo stack
func (um *UndoManager) UndoSize() int {
	return len(um.undoStack)
}

// RedoSize returns the number of items in the redo stack
func (um *UndoManager) RedoSize() int {
	return len(um.redoStack)
}

// Clear clears both stacks
func (um *UndoManager) Clear() {
	um.undoStack = []FilterState{}
	um.redoStack = []FilterState{}
}
