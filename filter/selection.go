// ABOUTME: Active filter selection: an ordered mapping from category name to a set of values
// ABOUTME: Categories whose set becomes empty are removed at every mutation site

package filter

import "sort"

// selection holds the selected values per category
// A category is present only while it has at least one value.
type selection struct {
	order []string // categories in first-activation order
	sets  map[string]map[string]struct{}
}

func newSelection() *selection {
	return &selection{sets: make(map[string]map[string]struct{})}
}

// add inserts value into category, reporting whether anything changed
func (s *selection) add(category, value string) bool {
	set, ok := s.sets[category]
	if !ok {
		set = make(map[string]struct{})
		s.sets[category] = set
		s.order = append(s.order, category)
	}

	if _, exists := set[value]; exists {
		return false
	}

	set[value] = struct{}{}

	return true
}

// remove deletes value from category, dropping the category once empty
func (s *selection) remove(category, value string) bool {
	set, ok := s.sets[category]
	if !ok {
		return false
	}

	if _, exists := set[value]; !exists {
		return false
	}

	delete(set, value)

	if len(set) == 0 {
		s.clear(category)
	}

	return true
}

// clear drops category entirely
func (s *selection) clear(category string) bool {
	if _, ok := s.sets[category]; !ok {
		return false
	}

	delete(s.sets, category)

	for i, c := range s.order {
		if c == category {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}

	return true
}

func (s *selection) has(category, value string) bool {
	_, ok := s.sets[category][value]

	return ok
}

func (s *selection) count(category string) int {
	return len(s.sets[category])
}

func (s *selection) total() int {
	n := 0
	for _, set := range s.sets {
		n += len(set)
	}

	return n
}

func (s *selection) empty() bool {
	return len(s.sets) == 0
}

// categories returns active categories in activation order
func (s *selection) categories() []string {
	return append([]string(nil), s.order...)
}

// values returns the sorted values selected in category
func (s *selection) values(category string) []string {
	set := s.sets[category]
	out := make([]string, 0, len(set))

	for v := range set {
		out = append(out, v)
	}

	sort.Strings(out)

	return out
}

// toMap returns a copy suitable for persistence
func (s *selection) toMap() map[string][]string {
	out := make(map[string][]string, len(s.sets))
	for _, c := range s.order {
		out[c] = s.values(c)
	}

	return out
}
