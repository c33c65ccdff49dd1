// ABOUTME: Terminal surface implementing the virtual scroll container contract
// ABOUTME: Holds positioned line items and composes the visible rows for the track panel

package tui

import (
	"strings"

	"playlist-browser/vscroll"
)

// terminalContainer is a scrollable block of terminal rows
// Only rendered items exist; rows outside them draw as blank.
type terminalContainer struct {
	width        int
	height       int
	scrollTop    int
	totalHeight  int
	topSpacer    int
	bottomSpacer int
	mounted      bool

	items map[*lineItem]struct{}

	nextListener int
	onScroll     map[int]func()
	onResize     map[int]func()
}

func newTerminalContainer(width, height int) *terminalContainer {
	return &terminalContainer{
		width:    width,
		height:   height,
		items:    make(map[*lineItem]struct{}),
		onScroll: make(map[int]func()),
		onResize: make(map[int]func()),
	}
}

// Mount resets the spacers and content
func (c *terminalContainer) Mount() {
	c.mounted = true
	c.topSpacer = 0
	c.bottomSpacer = 0
	c.items = make(map[*lineItem]struct{})
}

func (c *terminalContainer) ScrollTop() int {
	return c.scrollTop
}

// SetScrollTop moves the viewport without notifying listeners
func (c *terminalContainer) SetScrollTop(top int) {
	c.scrollTop = c.clampScroll(top)
}

func (c *terminalContainer) ClientHeight() int {
	return c.height
}

func (c *terminalContainer) SetTotalHeight(height int) {
	c.totalHeight = height
	c.scrollTop = c.clampScroll(c.scrollTop)
}

func (c *terminalContainer) SetSpacers(top, bottom int) {
	c.topSpacer = top
	c.bottomSpacer = bottom
}

func (c *terminalContainer) Insert(item vscroll.RenderedItem) {
	li, ok := item.(*lineItem)
	if !ok {
		return
	}

	li.container = c
	c.items[li] = struct{}{}
}

func (c *terminalContainer) OnScroll(fn func()) func() {
	return c.listen(c.onScroll, fn)
}

// OnResize makes the container a vscroll.ResizeNotifier
func (c *terminalContainer) OnResize(fn func()) func() {
	return c.listen(c.onResize, fn)
}

func (c *terminalContainer) listen(listeners map[int]func(), fn func()) func() {
	id := c.nextListener
	c.nextListener++
	listeners[id] = fn

	return func() { delete(listeners, id) }
}

// ScrollTo moves the viewport as a user scroll would, notifying listeners
func (c *terminalContainer) ScrollTo(top int) {
	top = c.clampScroll(top)
	if top == c.scrollTop {
		return
	}

	c.scrollTop = top

	for _, fn := range c.onScroll {
		fn()
	}
}

// Resize changes the viewport size and notifies listeners
func (c *terminalContainer) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}

	c.width = width
	c.height = height
	c.scrollTop = c.clampScroll(c.scrollTop)

	for _, fn := range c.onResize {
		fn()
	}
}

func (c *terminalContainer) clampScroll(top int) int {
	return max(0, min(top, c.totalHeight-c.height))
}

// View composes the visible rows
func (c *terminalContainer) View() string {
	if c.height < 1 {
		return ""
	}

	rows := make([]string, c.height)

	for item := range c.items {
		for i, line := range item.lines {
			if i >= item.height {
				break
			}

			row := item.top + i - c.scrollTop
			if row >= 0 && row < c.height {
				rows[row] = line
			}
		}
	}

	return strings.Join(rows, "\n")
}

// lineItem is one rendered track occupying one or more rows
type lineItem struct {
	container *terminalContainer
	lines     []string
	top       int
	height    int
}

func newLineItem(lines ...string) *lineItem {
	return &lineItem{lines: lines}
}

func (l *lineItem) Position(top, height int) {
	l.top = top
	l.height = height
}

func (l *lineItem) Remove() {
	if l.container != nil {
		delete(l.container.items, l)
	}
}

func (l *lineItem) Replace(next vscroll.RenderedItem) {
	if l.container == nil {
		return
	}

	c := l.container
	l.Remove()
	c.Insert(next)
}
