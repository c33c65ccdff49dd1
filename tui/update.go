// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and message handlers

package tui

import (
	"runtime/debug"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"playlist-browser/config"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("update panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	cmd := m.handle(msg)

	// Scroll work queued while handling the message is flushed on the next frame
	return m, tea.Batch(cmd, m.frameCmd())
}

func (m *model) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)

		return nil

	case frameMsg:
		m.frameQueued = false
		m.scheduler.Flush()

		return nil

	case manifestChangedMsg:
		m.reloadLibrary()

		return waitForChange(m.changes)

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}

		return m.handleKey(msg)
	}

	// Cursor blink and other input messages
	if m.searching {
		var cmd tea.Cmd

		m.search, cmd = m.search.Update(msg)

		return cmd
	}

	return nil
}

// handleResize sizes both panels to the terminal
func (m *model) handleResize(width, height int) {
	m.width = width
	m.height = height

	// Right panel width: total width - left panel - padding (both panels pad by one column each side)
	trackWidth := max(minViewportWidth, width-filterPanelWidth-panelPadding-2)
	rows := m.trackRows()

	m.container.Resize(trackWidth, rows)
	m.trackView.SetRows(rows)
	m.filterView.SetRows(rows + headerHeight)

	// Track lines are laid out for the container width, so re-render them all
	m.renderer.SetItems(m.engine.FilteredTracks())
	m.scrollToCursor()
	m.filterView.SetCursorPos(m.filterCursor)
}

// handleKey dispatches key presses outside search mode
func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.handleQuitKey()

	case key.Matches(msg, keys.Tab):
		m.handleTabKey()

	case key.Matches(msg, keys.Up):
		m.handleMoveKey(-1)

	case key.Matches(msg, keys.Down):
		m.handleMoveKey(1)

	case key.Matches(msg, keys.PageUp):
		m.handleMoveKey(-pageJumpSize)

	case key.Matches(msg, keys.PageDown):
		m.handleMoveKey(pageJumpSize)

	case key.Matches(msg, keys.Home):
		m.handleJumpKey(false)

	case key.Matches(msg, keys.End):
		m.handleJumpKey(true)

	case key.Matches(msg, keys.Toggle):
		if m.focusedPanel == panelFilters {
			m.toggleCurrentFilter()
		}

	case key.Matches(msg, keys.Play):
		if m.focusedPanel == panelFilters {
			m.toggleCurrentFilter()
		} else {
			m.play()
		}

	case key.Matches(msg, keys.ClearCategory):
		m.clearCurrentCategory()

	case key.Matches(msg, keys.ClearAll):
		m.clearAllFilters()

	case key.Matches(msg, keys.Mode):
		m.toggleMode()

	case key.Matches(msg, keys.Search):
		return m.startSearch()

	case key.Matches(msg, keys.Escape):
		m.clearSearch()

	case key.Matches(msg, keys.Favorite):
		m.toggleFavorite()

	case key.Matches(msg, keys.Undo):
		m.undo()

	case key.Matches(msg, keys.Redo):
		m.redo()

	case key.Matches(msg, keys.Layout):
		m.switchLayout()

	case key.Matches(msg, keys.Export):
		m.export()
	}

	return nil
}

// handleSearchKey edits the search query, filtering as the user types
func (m *model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.endSearch()

		return nil

	case tea.KeyEsc:
		m.endSearch()
		m.search.SetValue("")
		m.applySearch()

		return nil

	case tea.KeyCtrlC:
		return m.handleQuitKey()
	}

	var cmd tea.Cmd

	m.search, cmd = m.search.Update(msg)
	m.applySearch()

	return cmd
}

// handleQuitKey handles the quit key press
func (m *model) handleQuitKey() tea.Cmd {
	m.quitting = true

	// Save config on quit
	if m.configPath != "" {
		if err := config.SaveConfig(m.configPath, m.cfg); err != nil {
			m.log.Warn("failed to save config on quit", zap.String("path", m.configPath), zap.Error(err))
			// Continue anyway - don't block quit on config save failure
		}
	}

	return tea.Quit
}

// handleTabKey handles panel switching
func (m *model) handleTabKey() {
	if m.focusedPanel == panelFilters {
		m.focusedPanel = panelTracks
	} else {
		m.focusedPanel = panelFilters
	}
}

// handleMoveKey moves the cursor of the focused panel by delta rows
func (m *model) handleMoveKey(delta int) {
	if m.focusedPanel == panelFilters {
		m.moveFilterCursor(m.filterCursor + delta)

		return
	}

	m.moveCursor(m.cursorPos + delta)
}

// handleJumpKey moves the focused cursor to the first or last row
func (m *model) handleJumpKey(toEnd bool) {
	if m.focusedPanel == panelFilters {
		if toEnd {
			m.moveFilterCursor(len(m.filterRows) - 1)
		} else {
			m.moveFilterCursor(0)
		}

		return
	}

	if toEnd {
		m.moveCursor(m.renderer.Len() - 1)
	} else {
		m.moveCursor(0)
	}
}
