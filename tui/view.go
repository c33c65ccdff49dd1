// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function, track line rendering and render helpers

package tui

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"playlist-browser/config"
	"playlist-browser/library"
	"playlist-browser/vscroll"
)

// Column widths of the compact layout
const (
	colTitle  = 28
	colArtist = 20
	colTuning = 8
	colGenre  = 14
)

const favoriteMark = "★"

// View renders the TUI
func (m *model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("view panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return "Saving config and exiting...\n"
	}

	// Both panels should have same height for proper horizontal joining
	// Leave room for search, status bar and help
	panelHeight := max(1, m.height-(searchHeight+statusBarHeight+helpHeight+spacingHeight))

	leftPanelStyle := lipgloss.NewStyle().
		Width(filterPanelWidth).
		Height(panelHeight).
		Padding(0, 1)

	rightPanelWidth := max(minViewportWidth, m.width-filterPanelWidth-panelPadding)

	rightPanelStyle := lipgloss.NewStyle().
		Width(rightPanelWidth).
		Height(panelHeight).
		Padding(0, 1)

	combined := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanelStyle.Render(m.renderFilters()),
		rightPanelStyle.Render(m.renderTracks()),
	)

	return combined + "\n" + m.renderSearch() + "\n" + m.renderStatus() + "\n" + m.renderHelp()
}

// renderFilters renders the category checkboxes around the filter cursor
func (m *model) renderFilters() string {
	var b strings.Builder

	title := "Filters"
	if m.focusedPanel == panelFilters {
		title = "► " + title + " [FOCUSED]"
	}

	b.WriteString(titleStyle.Render(title) + "\n\n")

	if len(m.filterRows) == 0 {
		b.WriteString(helpStyle.Render("No categories"))

		return b.String()
	}

	start := m.filterView.ItemOffset()
	end := min(len(m.filterRows), start+max(1, m.filterView.rows))

	for i := start; i < end; i++ {
		line := m.renderFilterRow(m.filterRows[i])

		if i == m.filterCursor && m.focusedPanel == panelFilters {
			line = cursorStyle.Render(line)
		}

		b.WriteString(line + "\n")
	}

	return b.String()
}

// renderFilterRow renders a category header with its active-count badge, or a value checkbox
func (m *model) renderFilterRow(row filterRow) string {
	if row.header {
		header := categoryStyle.Render(strings.ToUpper(row.category))

		if n := m.engine.ActiveFilterCount(row.category); n > 0 {
			header += " " + badgeStyle.Render(strconv.Itoa(n))
		}

		return header
	}

	box := "[ ]"
	active := m.engine.IsFilterActive(row.category, row.value)

	if active {
		box = "[x]"
	}

	// Leave room for indent, checkbox and the count suffix
	count := fmt.Sprintf(" (%d)", row.count)
	label := truncate(row.value, filterPanelWidth-8-len(count))
	line := "  " + box + " " + label + count

	if active {
		return activeValueStyle.Render(line)
	}

	return line
}

// renderTracks renders the track panel: title, column header and visible rows
func (m *model) renderTracks() string {
	var b strings.Builder

	title := fmt.Sprintf("Tracks (%d of %d)", m.renderer.Len(), m.store.Len())
	if m.focusedPanel == panelTracks {
		title = "► " + title + " [FOCUSED]"
	}

	b.WriteString(titleStyle.Render(title) + "\n\n")

	if m.cfg.Scroll.Layout == config.LayoutDetailed {
		b.WriteString(headerStyle.Render(truncate("#    Title - Artist", m.container.width)) + "\n")
	} else {
		header := fmt.Sprintf("%-5s %-1s %-*s %-*s %-*s %-*s %5s",
			"#", " ",
			colTitle, "Title",
			colArtist, "Artist",
			colTuning, "Tuning",
			colGenre, "Genre",
			"Time")
		b.WriteString(headerStyle.Render(truncate(header, m.container.width)) + "\n")
	}

	if m.renderer.Len() == 0 {
		b.WriteString(helpStyle.Render("No tracks match the current filters"))

		return b.String()
	}

	b.WriteString(m.container.View())

	return b.String()
}

// renderTrack is the renderer's RenderFunc: one line item per track
func (m *model) renderTrack(track *library.Track, index int) vscroll.RenderedItem {
	width := m.container.width
	highlight := index == m.cursorPos

	var lines []string

	if m.cfg.Scroll.Layout == config.LayoutDetailed {
		lines = detailedLines(track, index, width, highlight)
	} else {
		lines = []string{compactLine(track, index, width)}
	}

	if highlight {
		for i, line := range lines {
			lines[i] = cursorStyle.Width(width).Render(line)
		}
	}

	return newLineItem(lines...)
}

// compactLine renders a track on a single row
func compactLine(track *library.Track, index, width int) string {
	line := fmt.Sprintf("%-5d %-1s %-*s %-*s %-*s %-*s %5s",
		index+1,
		favoriteLabel(track),
		colTitle, truncate(track.Title, colTitle),
		colArtist, truncate(track.Artist, colArtist),
		colTuning, truncate(track.Tuning, colTuning),
		colGenre, truncate(strings.Join(track.Genre, ", "), colGenre),
		track.DurationLabel(),
	)

	return truncate(line, width)
}

// detailedLines renders a track on two rows: heading and metadata
func detailedLines(track *library.Track, index, width int, highlight bool) []string {
	heading := fmt.Sprintf("%-5d %-1s %s - %s", index+1, favoriteLabel(track), track.Title, track.Artist)

	var details []string

	if track.Album != "" {
		details = append(details, track.Album)
	}

	if track.Year > 0 {
		details = append(details, strconv.Itoa(track.Year))
	}

	if track.Key != "" {
		details = append(details, track.Key)
	}

	if track.BPM > 0 {
		details = append(details, fmt.Sprintf("%.0f BPM", track.BPM))
	}

	if track.Tuning != "" {
		details = append(details, track.Tuning)
	}

	if len(track.Genre) > 0 {
		details = append(details, strings.Join(track.Genre, "/"))
	}

	if len(track.Mood) > 0 {
		details = append(details, strings.Join(track.Mood, "/"))
	}

	details = append(details, track.DurationLabel(), fmt.Sprintf("%d plays", track.PlayCount))

	meta := truncate("        "+strings.Join(details, " · "), width)
	if !highlight {
		meta = detailStyle.Render(meta)
	}

	return []string{truncate(heading, width), meta}
}

func favoriteLabel(track *library.Track) string {
	if track.Favorite {
		return favoriteMark
	}

	return " "
}

// renderSearch renders the search input, or the active query
func (m *model) renderSearch() string {
	if m.searching {
		return m.search.View()
	}

	if q := m.engine.SearchQuery(); q != "" {
		return helpStyle.Render(" search: " + q + " (esc to clear)")
	}

	return ""
}

// renderStatus renders the status bar
func (m *model) renderStatus() string {
	// Show status message if recent
	if m.statusMsg != "" && m.now().Sub(m.statusMsgAge) < statusMessageDuration {
		return statusStyle.Width(m.width).Render(m.statusMsg)
	}

	trackInfo := fmt.Sprintf("%d/%d tracks", m.renderer.Len(), m.store.Len())
	if m.renderer.Len() > 0 {
		trackInfo += fmt.Sprintf(" | Track %d", m.cursorPos+1)
	}

	filterInfo := fmt.Sprintf("Mode: %s | Filters: %d", m.engine.CombinationMode(), m.engine.TotalActiveFilterCount())
	if cats := m.engine.ActiveCategories(); len(cats) > 0 {
		filterInfo += " (" + strings.Join(cats, ", ") + ")"
	}

	undoInfo := fmt.Sprintf("U:%d R:%d", m.undoMgr.UndoSize(), m.undoMgr.RedoSize())

	status := fmt.Sprintf("%s | %s | %s | %s", trackInfo, filterInfo, undoInfo, m.cfg.Scroll.Layout)

	return statusStyle.Width(m.width).Render(status)
}

// renderHelp renders the help text
func (m *model) renderHelp() string {
	if m.searching {
		return helpStyle.Render(" type to search | enter: keep | esc: clear")
	}

	return helpStyle.Render(" Tab: switch panel | ↑/↓/j/k: navigate | space: toggle | c/C: clear | m: AND/OR | /: search | f: favorite | enter: play | u/ctrl+r: undo/redo | L: layout | e: export | q: quit")
}
