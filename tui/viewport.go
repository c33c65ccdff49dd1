// ABOUTME: Cursor-following scroll offsets for the track list and filter panel
// ABOUTME: Implements vim/less style scrolling in item units, converted to rows for multi-row layouts

package tui

// ViewportManager handles cursor visibility and viewport scrolling
// Implements vim/less style scrolling: cursor moves to middle, then content scrolls.
// Heights are in terminal rows; each item occupies itemHeight rows.
type ViewportManager struct {
	rows       int // Viewport height in rows
	itemHeight int // Rows per item
	cursorPos  int // Current cursor position (item index)
	totalItems int // Total number of items
}

// NewViewportManager creates a viewport manager for items of the given row height
func NewViewportManager(rows, itemHeight int) *ViewportManager {
	if itemHeight < 1 {
		itemHeight = 1
	}

	return &ViewportManager{rows: rows, itemHeight: itemHeight}
}

// SetRows updates the viewport height
func (vm *ViewportManager) SetRows(rows int) {
	vm.rows = rows
}

// SetItemHeight updates the rows per item
func (vm *ViewportManager) SetItemHeight(itemHeight int) {
	if itemHeight < 1 {
		itemHeight = 1
	}

	vm.itemHeight = itemHeight
}

// SetCursorPos updates the cursor position
func (vm *ViewportManager) SetCursorPos(pos int) {
	vm.cursorPos = pos
}

// SetTotalItems updates the total item count
func (vm *ViewportManager) SetTotalItems(total int) {
	vm.totalItems = total
}

// visibleItems returns how many whole items fit in the viewport
func (vm *ViewportManager) visibleItems() int {
	return vm.rows / vm.itemHeight
}

// ItemOffset returns the index of the first item to show
//
// Scrolling behavior:
// - Phase 1 (top): Cursor moves freely, viewport stays at 0
// - Phase 2 (middle): Cursor stays at middle, content scrolls
// - Phase 3 (bottom): Viewport shows end, cursor moves to bottom
func (vm *ViewportManager) ItemOffset() int {
	height := vm.visibleItems()
	if vm.totalItems == 0 || height < 1 {
		return 0
	}

	middle := height / 2

	switch vm.Phase() {
	case TopPhase:
		return 0
	case MiddlePhase:
		return vm.cursorPos - middle
	default:
		return max(0, vm.totalItems-height)
	}
}

// RowOffset returns the scroll offset in rows
func (vm *ViewportManager) RowOffset() int {
	return vm.ItemOffset() * vm.itemHeight
}

// ScrollPhase returns which scrolling phase the cursor is currently in
type ScrollPhase int

const (
	TopPhase    ScrollPhase = iota // Cursor moves, viewport at top
	MiddlePhase                    // Cursor at middle, content scrolls
	BottomPhase                    // Viewport at bottom, cursor moves
)

// Phase returns the current scrolling phase
func (vm *ViewportManager) Phase() ScrollPhase {
	height := vm.visibleItems()
	if vm.totalItems == 0 || height < 1 {
		return TopPhase
	}

	middle := height / 2
	if vm.cursorPos < middle {
		return TopPhase
	}

	bottomThreshold := vm.totalItems - height + middle
	if vm.cursorPos < bottomThreshold {
		return MiddlePhase
	}

	return BottomPhase
}
