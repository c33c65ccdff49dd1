// ABOUTME: Tests for ViewportManager scrolling logic
// ABOUTME: Verifies cursor-to-middle scrolling in items and the row conversion for tall items

package tui

import "testing"

func TestViewportManagerPhases(t *testing.T) {
	// 10 rows, 50 items: middle = 5, bottom threshold = 45, max offset = 40
	tests := []struct {
		name       string
		cursorPos  int
		wantOffset int
		wantPhase  ScrollPhase
	}{
		{"cursor at 0", 0, 0, TopPhase},
		{"cursor at 4 (just before middle)", 4, 0, TopPhase},
		{"cursor at 5 (middle start)", 5, 0, MiddlePhase},
		{"cursor at 25 (middle of list)", 25, 20, MiddlePhase},
		{"cursor at 44 (just before bottom threshold)", 44, 39, MiddlePhase},
		{"cursor at 45 (bottom threshold)", 45, 40, BottomPhase},
		{"cursor at 49 (last item)", 49, 40, BottomPhase},
	}

	vm := NewViewportManager(10, 1)
	vm.SetTotalItems(50)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm.SetCursorPos(tt.cursorPos)

			if got := vm.ItemOffset(); got != tt.wantOffset {
				t.Errorf("ItemOffset() = %d, want %d", got, tt.wantOffset)
			}

			if got := vm.Phase(); got != tt.wantPhase {
				t.Errorf("Phase() = %v, want %v", got, tt.wantPhase)
			}
		})
	}
}

func TestViewportManagerTallItems(t *testing.T) {
	// 10 rows of 2-row items: 5 visible items, middle = 2
	vm := NewViewportManager(10, 2)
	vm.SetTotalItems(50)

	tests := []struct {
		cursorPos  int
		wantOffset int
	}{
		{1, 0},
		{2, 0},
		{10, 16},
		{49, 90},
	}

	for _, tt := range tests {
		vm.SetCursorPos(tt.cursorPos)

		if got := vm.RowOffset(); got != tt.wantOffset {
			t.Errorf("cursor %d: RowOffset() = %d, want %d", tt.cursorPos, got, tt.wantOffset)
		}
	}
}

func TestViewportManagerSmallList(t *testing.T) {
	vm := NewViewportManager(10, 1)
	vm.SetTotalItems(5)

	for cursor := range 5 {
		vm.SetCursorPos(cursor)

		if got := vm.ItemOffset(); got != 0 {
			t.Errorf("cursor %d: small list should never scroll, got offset %d", cursor, got)
		}
	}
}

func TestViewportManagerEdgeCases(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		vm := NewViewportManager(10, 1)

		if got := vm.ItemOffset(); got != 0 {
			t.Errorf("Empty list should return offset 0, got %d", got)
		}
	})

	t.Run("zero height viewport", func(t *testing.T) {
		vm := NewViewportManager(0, 1)
		vm.SetTotalItems(50)
		vm.SetCursorPos(5)

		if got := vm.ItemOffset(); got != 0 {
			t.Errorf("Zero height viewport should return offset 0, got %d", got)
		}
	})

	t.Run("item taller than viewport", func(t *testing.T) {
		vm := NewViewportManager(1, 2)
		vm.SetTotalItems(50)
		vm.SetCursorPos(20)

		if got := vm.RowOffset(); got != 0 {
			t.Errorf("Expected offset 0 when no whole item fits, got %d", got)
		}
	})

	t.Run("invalid item height", func(t *testing.T) {
		vm := NewViewportManager(10, 0)
		vm.SetItemHeight(-3)
		vm.SetTotalItems(50)
		vm.SetCursorPos(25)

		if got := vm.RowOffset(); got != 20 {
			t.Errorf("Expected item height clamped to 1, got offset %d", got)
		}
	})
}
