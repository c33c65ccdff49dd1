// ABOUTME: Pure window math for virtual scrolling
// ABOUTME: Maps scroll offset and viewport height to the range of item indices to render

package vscroll

// Window is the inclusive range of rendered item indices
// An empty list yields Start 0 and End -1.
type Window struct {
	Start int
	End   int
}

// Len returns the number of indices in the window
func (w Window) Len() int {
	if w.End < w.Start {
		return 0
	}

	return w.End - w.Start + 1
}

// Contains reports whether index is inside the window
func (w Window) Contains(index int) bool {
	return index >= w.Start && index <= w.End
}

// ComputeWindow returns the indices intersecting the viewport plus bufferSize on each side
func ComputeWindow(count, itemHeight, bufferSize, scrollTop, viewportHeight int) Window {
	if count <= 0 || itemHeight <= 0 {
		return Window{Start: 0, End: -1}
	}

	if scrollTop < 0 {
		scrollTop = 0
	}

	if viewportHeight < 0 {
		viewportHeight = 0
	}

	if bufferSize < 0 {
		bufferSize = 0
	}

	start := max(0, scrollTop/itemHeight-bufferSize)
	end := min(count-1, ceilDiv(scrollTop+viewportHeight, itemHeight)+bufferSize)

	// Scrolled past the end (e.g. after the list shrank)
	if start > end {
		start = end
	}

	return Window{Start: start, End: end}
}

// Spacers returns the heights above and below the window
func Spacers(w Window, count, itemHeight int) (top, bottom int) {
	if w.Len() == 0 {
		return 0, 0
	}

	return w.Start * itemHeight, (count - 1 - w.End) * itemHeight
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
