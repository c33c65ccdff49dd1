// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model wiring the filter engine to the virtual scroll track list

// Package tui provides an interactive terminal browser for filtering a music library.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"playlist-browser/config"
	"playlist-browser/filter"
	"playlist-browser/library"
	"playlist-browser/vscroll"
)

// Panel identifiers
const (
	panelFilters = "filters"
	panelTracks  = "tracks"
)

// Layout constants for UI dimensions
const (
	filterPanelWidth = 38 // Left panel width for filter checkboxes
	panelPadding     = 2  // Horizontal spacing between panels

	// UI chrome heights (elements that reduce available viewport space)
	titleHeight     = 2 // Panel title bars
	headerHeight    = 1 // Column headers for the track list
	searchHeight    = 1 // Search line
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	spacingHeight   = 1 // Vertical spacing between elements
	totalUIChrome   = titleHeight + headerHeight + searchHeight + statusBarHeight + helpHeight + spacingHeight

	// Minimum viewport dimensions to ensure usability
	minViewportWidth  = 20
	minViewportHeight = 5
)

// Navigation and interaction constants
const (
	pageJumpSize          = 10              // Number of rows to jump on PageUp/PageDown
	statusMessageDuration = 5 * time.Second // How long to show transient status messages
	maxUndoStackSize      = 50              // Maximum undo/redo history items
)

// frameMsg flushes scroll work queued since the last frame
type frameMsg struct{}

// manifestChangedMsg signals the manifest was rewritten on disk
type manifestChangedMsg struct{}

// filterRow is one line of the filter panel: a category header or a value checkbox
type filterRow struct {
	category string
	value    string
	count    int
	header   bool
}

// model holds the TUI state
type model struct {
	// Dependencies
	store  *library.Store
	engine *filter.Engine
	reload func() ([]*library.Track, error)
	log    *zap.Logger
	now    func() time.Time

	// Configuration
	cfg        config.Config
	configPath string
	exportPath string

	// Track list rendering
	scheduler   *vscroll.FrameScheduler
	container   *terminalContainer
	renderer    *vscroll.Renderer[*library.Track]
	trackView   *ViewportManager
	frameQueued bool

	// Manifest watching (nil when disabled)
	changes <-chan struct{}

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string    // Temporary status message (e.g., "Exported 12 tracks")
	statusMsgAge time.Time // When status message was set
	focusedPanel string    // "filters" or "tracks" - which panel has focus

	// Track browsing
	cursorPos int
	undoMgr   *UndoManager

	// Filter panel
	filterRows   []filterRow
	filterCursor int
	filterView   *ViewportManager

	// Search
	search       textinput.Model
	searching    bool
	searchPushed bool // Undo state recorded for the current search session
}

// Key bindings
type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Home          key.Binding
	End           key.Binding
	Tab           key.Binding
	Toggle        key.Binding
	ClearCategory key.Binding
	ClearAll      key.Binding
	Mode          key.Binding
	Search        key.Binding
	Escape        key.Binding
	Favorite      key.Binding
	Play          key.Binding
	Undo          key.Binding
	Redo          key.Binding
	Layout        key.Binding
	Export        key.Binding
	Quit          key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "navigate"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home/g", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end/G", "last"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch panel"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "toggle filter"),
	),
	ClearCategory: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear category"),
	),
	ClearAll: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "clear all"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "AND/OR"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear search"),
	),
	Favorite: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "favorite"),
	),
	Play: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "play"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Layout: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "layout"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	badgeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("10")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)

	activeValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("14"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))
)

// Run starts the TUI with injected dependencies
func Run(opts Options, deps Dependencies) error {
	m := newModel(opts, deps)

	libCfg := opts.Config.Library
	if libCfg.Watch && libCfg.Manifest != "" && deps.Reload != nil {
		changes, stop, err := watchManifest(libCfg.Manifest, manifestDebounce, m.log)
		if err != nil {
			m.log.Warn("manifest watching disabled", zap.String("path", libCfg.Manifest), zap.Error(err))
		} else {
			m.changes = changes

			defer func() {
				if err := stop(); err != nil {
					m.log.Warn("failed to stop manifest watcher", zap.Error(err))
				}
			}()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// newModel creates the initial model with injected dependencies
func newModel(opts Options, deps Dependencies) *model {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title or artist"
	search.SetValue(deps.Engine.SearchQuery())

	itemHeight := config.ItemHeight(opts.Config.Scroll.Layout)

	m := &model{
		store:  deps.Store,
		engine: deps.Engine,
		reload: deps.Reload,
		log:    log,
		now:    now,

		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		exportPath: opts.ExportPath,

		scheduler: vscroll.NewFrameScheduler(),
		container: newTerminalContainer(0, 0), // Size set on first WindowSizeMsg
		trackView: NewViewportManager(0, itemHeight),

		focusedPanel: panelFilters,
		undoMgr:      NewUndoManager(maxUndoStackSize),
		filterView:   NewViewportManager(0, 1),
		search:       search,
	}

	m.buildRenderer()
	m.refreshFilterRows()

	return m
}

// buildRenderer attaches a fresh renderer for the configured layout
func (m *model) buildRenderer() {
	itemHeight := config.ItemHeight(m.cfg.Scroll.Layout)

	m.renderer = vscroll.New(m.renderTrack, vscroll.Options{
		ItemHeight: itemHeight,
		BufferSize: m.cfg.Scroll.BufferSize,
		Scheduler:  m.scheduler,
		Logger:     m.log,
	})
	m.renderer.Initialize(m.container)
	m.renderer.SetItems(m.engine.FilteredTracks())

	m.trackView.SetItemHeight(itemHeight)
	m.trackView.SetTotalItems(m.renderer.Len())
}

// Init initializes the model
func (m *model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// frameCmd schedules a frame tick when scroll work is pending
func (m *model) frameCmd() tea.Cmd {
	if m.frameQueued || m.scheduler.Pending() == 0 {
		return nil
	}

	m.frameQueued = true
	interval := time.Duration(m.cfg.Scroll.FrameMS) * time.Millisecond

	return tea.Tick(interval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// ========== Track list ==========

// currentTrack returns the track under the cursor, or nil
func (m *model) currentTrack() *library.Track {
	track, ok := m.renderer.Item(m.cursorPos)
	if !ok {
		return nil
	}

	return track
}

// refreshTracks feeds the current filter result to the renderer
func (m *model) refreshTracks(resetCursor bool) {
	m.renderer.SetItems(m.engine.FilteredTracks())
	m.trackView.SetTotalItems(m.renderer.Len())

	if resetCursor {
		m.cursorPos = 0
	}

	m.cursorPos = max(0, min(m.cursorPos, m.renderer.Len()-1))
	m.scrollToCursor()
}

// moveCursor moves the track cursor and re-renders the two affected rows
func (m *model) moveCursor(pos int) {
	pos = max(0, min(pos, m.renderer.Len()-1))
	if pos == m.cursorPos {
		return
	}

	old := m.cursorPos
	m.cursorPos = pos

	m.redrawTrack(old)
	m.redrawTrack(pos)
	m.scrollToCursor()
}

// redrawTrack re-renders one row in place
func (m *model) redrawTrack(index int) {
	if track, ok := m.renderer.Item(index); ok {
		m.renderer.UpdateItem(index, track)
	}
}

// scrollToCursor keeps the cursor in view, cursor-to-middle style
func (m *model) scrollToCursor() {
	m.trackView.SetCursorPos(m.cursorPos)
	m.container.ScrollTo(m.trackView.RowOffset())
}

// trackRows returns the terminal rows available for the track list
func (m *model) trackRows() int {
	return max(minViewportHeight, m.height-totalUIChrome)
}

// ========== Filter panel ==========

// refreshFilterRows rebuilds the filter panel from the current categories
func (m *model) refreshFilterRows() {
	var rows []filterRow

	for _, category := range m.engine.FilterCategories() {
		if len(category.Values) == 0 {
			continue
		}

		rows = append(rows, filterRow{category: category.Name, header: true})

		for _, v := range category.Values {
			rows = append(rows, filterRow{category: category.Name, value: v.Value, count: v.Count})
		}
	}

	m.filterRows = rows
	m.filterCursor = max(0, min(m.filterCursor, len(rows)-1))
	m.filterView.SetTotalItems(len(rows))
	m.filterView.SetCursorPos(m.filterCursor)
}

// currentFilterRow returns the row under the filter cursor
func (m *model) currentFilterRow() (filterRow, bool) {
	if m.filterCursor < 0 || m.filterCursor >= len(m.filterRows) {
		return filterRow{}, false
	}

	return m.filterRows[m.filterCursor], true
}

func (m *model) moveFilterCursor(pos int) {
	m.filterCursor = max(0, min(pos, len(m.filterRows)-1))
	m.filterView.SetCursorPos(m.filterCursor)
}

// ========== Filter mutations ==========

// snapshot captures the state undo returns to
func (m *model) snapshot() FilterState {
	return FilterState{Snapshot: m.engine.Snapshot(), CursorPos: m.cursorPos}
}

// mutateFilters records undo history, applies fn and refreshes the track list
func (m *model) mutateFilters(fn func()) {
	m.undoMgr.Push(m.snapshot())
	fn()
	m.refreshTracks(true)
}

func (m *model) toggleCurrentFilter() {
	row, ok := m.currentFilterRow()
	if !ok || row.header {
		return
	}

	m.mutateFilters(func() {
		m.engine.ToggleFilter(row.category, row.value)
	})
}

func (m *model) clearCurrentCategory() {
	row, ok := m.currentFilterRow()
	if !ok || m.engine.ActiveFilterCount(row.category) == 0 {
		return
	}

	m.mutateFilters(func() {
		m.engine.ClearCategoryFilters(row.category)
	})
	m.setStatusMsg("Cleared " + row.category + " filters")
}

func (m *model) clearAllFilters() {
	if !m.engine.HasActiveFilters() {
		return
	}

	m.mutateFilters(m.engine.ClearAllFilters)
	m.setStatusMsg("Cleared all filters")
}

func (m *model) toggleMode() {
	next := filter.ModeOr
	if m.engine.CombinationMode() == filter.ModeOr {
		next = filter.ModeAnd
	}

	m.mutateFilters(func() {
		m.engine.SetFilterCombinationMode(next)
	})
	m.setStatusMsg("Combining categories with " + string(next))
}

// restoreState applies an undo/redo state
func (m *model) restoreState(state FilterState) {
	m.engine.Restore(state.Snapshot)
	m.search.SetValue(m.engine.SearchQuery())
	m.refreshTracks(false)
	m.moveCursor(state.CursorPos)
}

func (m *model) undo() {
	state, ok := m.undoMgr.Undo(m.snapshot())
	if !ok {
		m.setStatusMsg("Nothing to undo")

		return
	}

	m.restoreState(state)
	m.setStatusMsg("Undo")
}

func (m *model) redo() {
	state, ok := m.undoMgr.Redo(m.snapshot())
	if !ok {
		m.setStatusMsg("Nothing to redo")

		return
	}

	m.restoreState(state)
	m.setStatusMsg("Redo")
}

// ========== Search ==========

func (m *model) startSearch() tea.Cmd {
	m.searching = true
	m.searchPushed = false

	return m.search.Focus()
}

func (m *model) endSearch() {
	m.searching = false
	m.search.Blur()
}

func (m *model) clearSearch() {
	if m.engine.SearchQuery() == "" {
		return
	}

	m.mutateFilters(m.engine.ClearSearch)
	m.search.SetValue("")
}

// applySearch pushes the input text to the engine if it changed
// The first change of a search session records one undo state.
func (m *model) applySearch() {
	if strings.TrimSpace(m.search.Value()) == m.engine.SearchQuery() {
		return
	}

	if !m.searchPushed {
		m.undoMgr.Push(m.snapshot())
		m.searchPushed = true
	}

	m.engine.SetSearchQuery(m.search.Value())
	m.refreshTracks(true)
}

// ========== Track actions ==========

func (m *model) toggleFavorite() {
	track := m.currentTrack()
	if track == nil {
		return
	}

	favorite, ok := m.store.ToggleFavorite(track.ID)
	if !ok {
		return
	}

	m.redrawTrack(m.cursorPos)

	if favorite {
		m.setStatusMsg("Favorited " + track.Title)
	} else {
		m.setStatusMsg("Unfavorited " + track.Title)
	}
}

func (m *model) play() {
	track := m.currentTrack()
	if track == nil {
		return
	}

	if !m.store.IncrementPlayCount(track.ID, m.now()) {
		return
	}

	m.redrawTrack(m.cursorPos)
	m.log.Info("track played", zap.String("id", track.ID), zap.Int("plays", track.PlayCount))
	m.setStatusMsg("Playing " + track.Artist + " - " + track.Title)
}

func (m *model) switchLayout() {
	if m.cfg.Scroll.Layout == config.LayoutDetailed {
		m.cfg.Scroll.Layout = config.LayoutCompact
	} else {
		m.cfg.Scroll.Layout = config.LayoutDetailed
	}

	m.renderer.Destroy()
	m.container = newTerminalContainer(m.container.width, m.container.height)
	m.buildRenderer()
	m.scrollToCursor()
	m.setStatusMsg("Layout: " + m.cfg.Scroll.Layout)
}

func (m *model) export() {
	if m.exportPath == "" {
		m.setStatusMsg("No export path configured")

		return
	}

	tracks := m.engine.FilteredTracks()
	if err := library.WritePlaylist(m.exportPath, tracks); err != nil {
		m.log.Warn("export failed", zap.String("path", m.exportPath), zap.Error(err))
		m.setStatusMsg("Export failed: " + err.Error())

		return
	}

	m.setStatusMsg(fmt.Sprintf("Exported %d tracks to %s", len(tracks), m.exportPath))
}

// reloadLibrary rereads the library after the manifest changed
func (m *model) reloadLibrary() {
	if m.reload == nil {
		return
	}

	tracks, err := m.reload()
	if err != nil {
		m.log.Warn("failed to reload library", zap.Error(err))
		m.setStatusMsg("Reload failed: " + err.Error())

		return
	}

	m.store.Replace(tracks)
	m.engine.ApplyFilters()
	m.refreshFilterRows()
	m.refreshTracks(false)
	m.setStatusMsg(fmt.Sprintf("Reloaded %d tracks", m.store.Len()))
}

// setStatusMsg sets a temporary status message
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = m.now()
}

// ========== Helpers ==========

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(runes[:max(0, maxLen)])
	}

	return string(runes[:maxLen-3]) + "..."
}
