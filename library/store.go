// ABOUTME: In-memory keyed collection of tracks, the leaf data source for filtering
// ABOUTME: Exposes lookup by id, category derivation and the favorite/play-count mutations

package library

import "time"

// Store holds the loaded tracks
// Not safe for concurrent use; the TUI touches it only from its update loop.
type Store struct {
	tracks  []*Track
	byID    map[string]*Track
	version uint64
}

// NewStore creates a store holding tracks
func NewStore(tracks []*Track) *Store {
	s := &Store{}
	s.Replace(tracks)

	return s
}

// Replace swaps the whole track set, e.g. after the manifest changed on disk
func (s *Store) Replace(tracks []*Track) {
	s.tracks = make([]*Track, 0, len(tracks))
	s.byID = make(map[string]*Track, len(tracks))

	for _, t := range tracks {
		if t == nil {
			continue
		}

		if _, dup := s.byID[t.ID]; dup {
			continue
		}

		s.byID[t.ID] = t
		s.tracks = append(s.tracks, t)
	}

	s.version++
}

// GetAllTracks returns every track in load order
// The slice is shared; callers must not modify it.
func (s *Store) GetAllTracks() []*Track {
	return s.tracks
}

// GetTrack returns the track with the given id, or nil
func (s *Store) GetTrack(id string) *Track {
	return s.byID[id]
}

// Len returns the number of tracks
func (s *Store) Len() int {
	return len(s.tracks)
}

// Version changes every time the track set is replaced
func (s *Store) Version() uint64 {
	return s.version
}

// GetFilterCategories returns the sorted distinct values of every category
func (s *Store) GetFilterCategories() map[string][]string {
	out := make(map[string][]string, len(registry))

	for _, c := range deriveCategories(s.tracks) {
		values := make([]string, len(c.Values))
		for i, v := range c.Values {
			values[i] = v.Value
		}

		out[c.Name] = values
	}

	return out
}

// Categories returns every category in display order with per-value counts
func (s *Store) Categories() []Category {
	return deriveCategories(s.tracks)
}

// ToggleFavorite flips the favorite flag
// Returns the new flag and whether the track exists
func (s *Store) ToggleFavorite(id string) (bool, bool) {
	t, ok := s.byID[id]
	if !ok {
		return false, false
	}

	t.Favorite = !t.Favorite

	return t.Favorite, true
}

// IncrementPlayCount records a play at the given time
// Returns false if the track does not exist
func (s *Store) IncrementPlayCount(id string, at time.Time) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}

	t.PlayCount++
	played := at.Format(DateLayout)
	t.LastPlayed = &played

	return true
}
