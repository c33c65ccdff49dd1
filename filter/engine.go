// ABOUTME: Filtering engine combining category selections, AND/OR mode and free-text search
// ABOUTME: Memoizes and caches results by filter-state key and persists every mutation

// Package filter computes the filtered track list from the active selections.
//
// The engine owns the active selection, the combination mode, the search query
// and a result cache. Every mutation persists the new state through the injected
// preference store and recomputes the result. Persistence failures are logged
// and never affect the in-memory state.
package filter

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"playlist-browser/library"
)

// Mode decides how categories combine
type Mode string

// Combination modes
const (
	ModeAnd Mode = "AND" // every active category must match
	ModeOr  Mode = "OR"  // at least one active category must match
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeAnd || m == ModeOr
}

// TrackSource is the track store the engine filters
type TrackSource interface {
	GetAllTracks() []*library.Track
	Categories() []library.Category
	Version() uint64
}

// Preferences persists filter state between sessions
type Preferences interface {
	FilterStates() map[string][]string
	UpdateFilterStates(states map[string][]string) error
	SearchQuery() string
	UpdateSearchQuery(query string) error
	CombinationMode() string
	UpdateCombinationMode(mode string) error
}

// Options tunes an engine
type Options struct {
	Logger          *zap.Logger
	DefaultMode     Mode // used when no mode was saved
	CacheMaxEntries int
	CacheRetain     int
}

// Snapshot captures the complete filter state
type Snapshot struct {
	Filters map[string][]string
	Mode    Mode
	Query   string
}

// Engine computes filtered results
// Not safe for concurrent use.
type Engine struct {
	tracks TrackSource
	prefs  Preferences
	log    *zap.Logger

	active *selection
	mode   Mode
	query  string

	cache     *resultCache
	result    []*library.Track
	lastKey   string
	hasResult bool
	version   uint64

	recomputes int // full filter passes, observed by tests
}

// NewEngine creates an engine over tracks, restoring saved state from prefs
// prefs may be nil, in which case nothing is persisted.
func NewEngine(tracks TrackSource, prefs Preferences, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	mode := opts.DefaultMode
	if !mode.Valid() {
		mode = ModeAnd
	}

	e := &Engine{
		tracks:  tracks,
		prefs:   prefs,
		log:     log,
		active:  newSelection(),
		mode:    mode,
		cache:   newResultCache(opts.CacheMaxEntries, opts.CacheRetain),
		version: tracks.Version(),
	}

	e.restore()
	e.ApplyFilters()

	return e
}

// restore loads saved state, dropping unknown categories and empty value lists
func (e *Engine) restore() {
	if e.prefs == nil {
		return
	}

	saved := e.prefs.FilterStates()

	categories := make([]string, 0, len(saved))
	for category := range saved {
		categories = append(categories, category)
	}

	sort.Strings(categories)

	for _, category := range categories {
		if !library.IsCategory(category) {
			e.log.Warn("ignoring saved filter for unknown category", zap.String("category", category))

			continue
		}

		for _, value := range saved[category] {
			if value != "" {
				e.active.add(category, value)
			}
		}
	}

	if mode := Mode(e.prefs.CombinationMode()); mode.Valid() {
		e.mode = mode
	}

	e.query = strings.TrimSpace(e.prefs.SearchQuery())

	e.log.Debug("filter state restored",
		zap.Int("filters", e.active.total()),
		zap.String("mode", string(e.mode)),
		zap.String("query", e.query))
}

// ToggleFilter flips value in category and returns whether it is now active
// Unknown categories and empty values are ignored rather than stored as a
// selection that matches nothing; only registered categories can be selected.
func (e *Engine) ToggleFilter(category, value string) bool {
	if !e.accepts(category, value) {
		return false
	}

	active := true
	if e.active.has(category, value) {
		e.active.remove(category, value)
		active = false
	} else {
		e.active.add(category, value)
	}

	e.persistFilters()
	e.ApplyFilters()

	return active
}

// AddFilter selects value in category
func (e *Engine) AddFilter(category, value string) {
	if !e.accepts(category, value) {
		return
	}

	e.active.add(category, value)
	e.persistFilters()
	e.ApplyFilters()
}

// RemoveFilter deselects value in category
func (e *Engine) RemoveFilter(category, value string) {
	if !e.accepts(category, value) {
		return
	}

	e.active.remove(category, value)
	e.persistFilters()
	e.ApplyFilters()
}

// ClearCategoryFilters deselects every value in category
func (e *Engine) ClearCategoryFilters(category string) {
	if !library.IsCategory(category) {
		return
	}

	e.active.clear(category)
	e.resetResult()
	e.persistFilters()
	e.ApplyFilters()
}

// ClearAllFilters deselects every category and leaves the search query alone
func (e *Engine) ClearAllFilters() {
	e.active = newSelection()
	e.resetResult()
	e.persistFilters()
	e.ApplyFilters()
}

// SetFilterCombinationMode switches between AND and OR; other values are ignored
func (e *Engine) SetFilterCombinationMode(mode Mode) {
	if !mode.Valid() {
		e.log.Debug("ignoring invalid combination mode", zap.String("mode", string(mode)))

		return
	}

	e.mode = mode

	if e.prefs != nil {
		if err := e.prefs.UpdateCombinationMode(string(mode)); err != nil {
			e.log.Warn("failed to save combination mode", zap.Error(err))
		}
	}

	e.ApplyFilters()
}

// SetSearchQuery sets the trimmed free-text query; empty clears the search
func (e *Engine) SetSearchQuery(query string) {
	e.query = strings.TrimSpace(query)

	if e.prefs != nil {
		if err := e.prefs.UpdateSearchQuery(e.query); err != nil {
			e.log.Warn("failed to save search query", zap.Error(err))
		}
	}

	e.ApplyFilters()
}

// ClearSearch removes the free-text query
func (e *Engine) ClearSearch() {
	e.SetSearchQuery("")
}

// IsFilterActive reports whether value is selected in category
func (e *Engine) IsFilterActive(category, value string) bool {
	return e.active.has(category, value)
}

// ActiveFilterCount returns the number of values selected in category
func (e *Engine) ActiveFilterCount(category string) int {
	return e.active.count(category)
}

// TotalActiveFilterCount returns the number of values selected across all categories
func (e *Engine) TotalActiveFilterCount() int {
	return e.active.total()
}

// ActiveFilters returns a copy of the selection with sorted values
func (e *Engine) ActiveFilters() map[string][]string {
	return e.active.toMap()
}

// ActiveCategories returns active categories in the order they were first selected
func (e *Engine) ActiveCategories() []string {
	return e.active.categories()
}

// HasActiveFilters reports whether any category has a selection
func (e *Engine) HasActiveFilters() bool {
	return !e.active.empty()
}

// CombinationMode returns the current mode
func (e *Engine) CombinationMode() Mode {
	return e.mode
}

// SearchQuery returns the current query
func (e *Engine) SearchQuery() string {
	return e.query
}

// FilteredTracks returns the last computed result without recomputing
// The slice may be shared with the cache; callers must not modify it.
func (e *Engine) FilteredTracks() []*library.Track {
	return e.result
}

// FilterCategories returns every category with per-value track counts
func (e *Engine) FilterCategories() []library.Category {
	return e.tracks.Categories()
}

// Snapshot returns the current filter state
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Filters: e.active.toMap(),
		Mode:    e.mode,
		Query:   e.query,
	}
}

// Restore replaces the whole filter state with snap and persists it
func (e *Engine) Restore(snap Snapshot) {
	e.active = newSelection()

	categories := make([]string, 0, len(snap.Filters))
	for category := range snap.Filters {
		categories = append(categories, category)
	}

	sort.Strings(categories)

	for _, category := range categories {
		if !library.IsCategory(category) {
			continue
		}

		for _, value := range snap.Filters[category] {
			if value != "" {
				e.active.add(category, value)
			}
		}
	}

	if snap.Mode.Valid() {
		e.mode = snap.Mode
	}

	e.query = strings.TrimSpace(snap.Query)

	e.resetResult()
	e.persistFilters()

	if e.prefs != nil {
		if err := e.prefs.UpdateCombinationMode(string(e.mode)); err != nil {
			e.log.Warn("failed to save combination mode", zap.Error(err))
		}

		if err := e.prefs.UpdateSearchQuery(e.query); err != nil {
			e.log.Warn("failed to save search query", zap.Error(err))
		}
	}

	e.ApplyFilters()
}

// Invalidate drops every cached result, e.g. after the track set was edited in place
func (e *Engine) Invalidate() {
	e.cache.clear()
	e.resetResult()
}

// ApplyFilters recomputes the result if the filter state changed and returns it
func (e *Engine) ApplyFilters() []*library.Track {
	if v := e.tracks.Version(); v != e.version {
		e.log.Debug("track store changed, dropping cached results",
			zap.Uint64("from", e.version), zap.Uint64("to", v))
		e.version = v
		e.Invalidate()
	}

	key := e.cacheKey()

	if e.hasResult && key == e.lastKey {
		return e.result
	}

	if cached, ok := e.cache.get(key); ok {
		e.setResult(key, cached)

		return cached
	}

	result := e.compute()
	e.recomputes++

	if evicted := e.cache.put(key, result); evicted > 0 {
		e.log.Debug("evicted cached results", zap.Int("evicted", evicted), zap.Int("remaining", e.cache.len()))
	}

	e.setResult(key, result)

	e.log.Debug("filters applied",
		zap.String("key", key),
		zap.Int("results", len(result)))

	return result
}

func (e *Engine) setResult(key string, result []*library.Track) {
	e.result = result
	e.lastKey = key
	e.hasResult = true
}

// resetResult points the result at the full track list and forgets the last key
func (e *Engine) resetResult() {
	e.result = e.tracks.GetAllTracks()
	e.lastKey = ""
	e.hasResult = false
}

// keyEscaper backslash-escapes the cache key separators so "A,B" and {"A", "B"} get distinct keys
var keyEscaper = strings.NewReplacer(`\`, `\\`, `,`, `\,`, `;`, `\;`, `:`, `\:`)

// cacheKey normalizes the filter state, e.g. "genre:Electronic,Folk;mood:calm:AND:q=piano"
func (e *Engine) cacheKey() string {
	categories := e.active.categories()
	sort.Strings(categories)

	parts := make([]string, len(categories))
	for i, category := range categories {
		values := e.active.values(category)

		escaped := make([]string, len(values))
		for j, v := range values {
			escaped[j] = keyEscaper.Replace(v)
		}

		parts[i] = keyEscaper.Replace(category) + ":" + strings.Join(escaped, ",")
	}

	return strings.Join(parts, ";") + ":" + string(e.mode) + ":q=" + e.query
}

// compute runs a full filter pass over every track
func (e *Engine) compute() []*library.Track {
	all := e.tracks.GetAllTracks()

	type criterion struct {
		field    library.Field
		selected []string
	}

	var criteria []criterion

	for _, category := range e.active.categories() {
		field, err := library.LookupCategory(category)
		if err != nil {
			continue
		}

		criteria = append(criteria, criterion{field: field, selected: e.active.values(category)})
	}

	lowerQuery := strings.ToLower(e.query)
	result := make([]*library.Track, 0, len(all))

	for _, track := range all {
		if len(criteria) > 0 {
			matched := 0

			for _, c := range criteria {
				if trackMatchesCategory(track, c.field, c.selected) {
					matched++

					if e.mode == ModeOr {
						break
					}
				} else if e.mode == ModeAnd {
					break
				}
			}

			if (e.mode == ModeAnd && matched < len(criteria)) || (e.mode == ModeOr && matched == 0) {
				continue
			}
		}

		if lowerQuery != "" && !matchesSearch(track, lowerQuery) {
			continue
		}

		result = append(result, track)
	}

	return result
}

// accepts reports whether category/value can be selected
func (e *Engine) accepts(category, value string) bool {
	if value == "" || !library.IsCategory(category) {
		e.log.Debug("ignoring filter", zap.String("category", category), zap.String("value", value))

		return false
	}

	return true
}

// persistFilters saves the selection; failures are logged and ignored
func (e *Engine) persistFilters() {
	if e.prefs == nil {
		return
	}

	if err := e.prefs.UpdateFilterStates(e.active.toMap()); err != nil {
		e.log.Warn("failed to save filter states", zap.Error(err))
	}
}
