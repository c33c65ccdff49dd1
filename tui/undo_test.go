// ABOUTME: Tests for UndoManager stack operations
// ABOUTME: Verifies undo/redo behavior, snapshot copying and stack size limits

package tui

import (
	"fmt"
	"testing"

	"playlist-browser/filter"
)

// createTestState builds a state with valueCount selected genres
func createTestState(valueCount, cursorPos int) FilterState {
	values := make([]string, valueCount)
	for i := range values {
		values[i] = fmt.Sprintf("genre-%d", i)
	}

	return FilterState{
		Snapshot: filter.Snapshot{
			Filters: map[string][]string{"genre": values},
			Mode:    filter.ModeAnd,
		},
		CursorPos: cursorPos,
	}
}

func valueCount(state FilterState) int {
	return len(state.Snapshot.Filters["genre"])
}

func TestUndoManager_PushAndUndo(t *testing.T) {
	um := NewUndoManager(50)
	um.Push(createTestState(2, 0))

	restored, ok := um.Undo(createTestState(3, 4))
	if !ok {
		t.Fatal("Undo should succeed")
	}

	if valueCount(restored) != 2 {
		t.Errorf("Undo restored %d values, want 2", valueCount(restored))
	}

	if restored.CursorPos != 0 {
		t.Errorf("Undo restored cursor to %d, want 0", restored.CursorPos)
	}
}

func TestUndoManager_EmptyStacks(t *testing.T) {
	um := NewUndoManager(50)

	if _, ok := um.Undo(createTestState(1, 0)); ok {
		t.Error("Undo should fail on empty stack")
	}

	if _, ok := um.Redo(createTestState(1, 0)); ok {
		t.Error("Redo should fail on empty stack")
	}
}

func TestUndoManager_Redo(t *testing.T) {
	um := NewUndoManager(50)
	um.Push(createTestState(2, 0))

	restored, ok := um.Undo(createTestState(3, 1))
	if !ok {
		t.Fatal("Undo should succeed")
	}

	redone, ok := um.Redo(restored)
	if !ok {
		t.Fatal("Redo should succeed")
	}

	if valueCount(redone) != 3 || redone.CursorPos != 1 {
		t.Errorf("Redo restored %d values at cursor %d, want 3 at 1", valueCount(redone), redone.CursorPos)
	}
}

func TestUndoManager_PushClearsRedo(t *testing.T) {
	um := NewUndoManager(50)
	um.Push(createTestState(2, 0))
	um.Undo(createTestState(3, 1))

	if um.RedoSize() != 1 {
		t.Fatalf("Redo stack should have 1 item, got %d", um.RedoSize())
	}

	um.Push(createTestState(1, 0))

	if um.RedoSize() != 0 {
		t.Errorf("Push should clear redo stack, but has %d items", um.RedoSize())
	}
}

func TestUndoManager_MaxStackSize(t *testing.T) {
	um := NewUndoManager(3)

	for i := range 5 {
		um.Push(createTestState(i+1, i))
	}

	if um.UndoSize() != 3 {
		t.Errorf("Undo stack size = %d, want 3 (max)", um.UndoSize())
	}

	current := createTestState(6, 5)

	for i := range 3 {
		var ok bool

		current, ok = um.Undo(current)
		if !ok {
			t.Errorf("Undo %d failed, should have 3 items", i+1)
		}
	}

	// Oldest states were discarded
	if valueCount(current) != 3 {
		t.Errorf("Oldest reachable state has %d values, want 3", valueCount(current))
	}

	if _, ok := um.Undo(current); ok {
		t.Error("4th undo should fail (max stack size is 3)")
	}

	if um.RedoSize() > 3 {
		t.Errorf("Redo stack size = %d, should be <= 3 (max)", um.RedoSize())
	}
}

func TestUndoManager_DeepCopy(t *testing.T) {
	um := NewUndoManager(50)

	state := createTestState(2, 0)
	um.Push(state)

	state.Snapshot.Filters["genre"][0] = "MODIFIED"
	state.Snapshot.Filters["mood"] = []string{"calm"}

	restored, ok := um.Undo(createTestState(1, 1))
	if !ok {
		t.Fatal("Undo failed")
	}

	if restored.Snapshot.Filters["genre"][0] != "genre-0" {
		t.Errorf("State was not deep copied: got %s", restored.Snapshot.Filters["genre"][0])
	}

	if _, ok := restored.Snapshot.Filters["mood"]; ok {
		t.Error("State map was shared with the caller")
	}
}

func TestUndoManager_Clear(t *testing.T) {
	um := NewUndoManager(50)
	um.Push(createTestState(2, 0))
	um.Push(createTestState(3, 1))
	um.Undo(createTestState(4, 2))

	um.Clear()

	if um.UndoSize() != 0 || um.RedoSize() != 0 {
		t.Errorf("After clear, stacks = %d/%d, want 0/0", um.UndoSize(), um.RedoSize())
	}
}
