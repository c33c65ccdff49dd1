// ABOUTME: Tests for the terminal container behind the track panel
// ABOUTME: Checks scroll clamping, listener notification and row composition

package tui

import (
	"strings"
	"testing"

	"playlist-browser/vscroll"
)

// Compile-time checks that the container satisfies the renderer contracts
var (
	_ vscroll.Container      = (*terminalContainer)(nil)
	_ vscroll.ResizeNotifier = (*terminalContainer)(nil)
	_ vscroll.RenderedItem   = (*lineItem)(nil)
)

func TestContainerScrollClamp(t *testing.T) {
	c := newTerminalContainer(40, 5)
	c.SetTotalHeight(12)

	tests := []struct {
		name string
		top  int
		want int
	}{
		{"negative", -3, 0},
		{"inside", 4, 4},
		{"past end", 50, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.SetScrollTop(tt.top)

			if c.ScrollTop() != tt.want {
				t.Errorf("SetScrollTop(%d) = %d, want %d", tt.top, c.ScrollTop(), tt.want)
			}
		})
	}
}

func TestContainerShrinkClampsScroll(t *testing.T) {
	c := newTerminalContainer(40, 5)
	c.SetTotalHeight(20)
	c.SetScrollTop(15)

	c.SetTotalHeight(8)

	if c.ScrollTop() != 3 {
		t.Errorf("Expected scroll top 3 after shrink, got %d", c.ScrollTop())
	}
}

func TestContainerListeners(t *testing.T) {
	c := newTerminalContainer(40, 5)
	c.SetTotalHeight(20)

	scrolls, resizes := 0, 0
	detach := c.OnScroll(func() { scrolls++ })
	stop := c.OnResize(func() { resizes++ })

	c.SetScrollTop(3) // programmatic, no notification
	c.ScrollTo(6)
	c.ScrollTo(6) // unchanged
	c.Resize(40, 8)
	c.Resize(40, 8) // unchanged

	if scrolls != 1 {
		t.Errorf("Expected 1 scroll notification, got %d", scrolls)
	}

	if resizes != 1 {
		t.Errorf("Expected 1 resize notification, got %d", resizes)
	}

	detach()
	stop()

	c.ScrollTo(0)
	c.Resize(30, 4)

	if scrolls != 1 || resizes != 1 {
		t.Errorf("Expected no notifications after detach, got %d scrolls and %d resizes", scrolls, resizes)
	}
}

func TestContainerView(t *testing.T) {
	c := newTerminalContainer(20, 3)
	c.Mount()
	c.SetTotalHeight(6)

	for i, text := range []string{"a", "b", "c", "d"} {
		item := newLineItem(text+"1", text+"2")
		item.Position(i*2, 2)
		c.Insert(item)
	}

	if got := c.View(); got != "a1\na2\nb1" {
		t.Errorf("Unexpected view at top: %q", got)
	}

	c.SetScrollTop(3)

	if got := c.View(); got != "b2\nc1\nc2" {
		t.Errorf("Unexpected view after scroll: %q", got)
	}
}

func TestLineItemReplaceAndRemove(t *testing.T) {
	c := newTerminalContainer(20, 2)
	c.Mount()
	c.SetTotalHeight(2)

	old := newLineItem("old")
	old.Position(0, 1)
	c.Insert(old)

	next := newLineItem("new")
	next.Position(0, 1)
	old.Replace(next)

	view := c.View()
	if !strings.HasPrefix(view, "new") || strings.Contains(view, "old") {
		t.Errorf("Expected replaced row, got %q", view)
	}

	next.Remove()

	if len(c.items) != 0 {
		t.Errorf("Expected no items after remove, got %d", len(c.items))
	}
}
