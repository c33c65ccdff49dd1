// ABOUTME: Registry of filter categories and the typed extraction rule for each
// ABOUTME: Derives sorted distinct values with per-value track counts

package library

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrUnknownCategory is returned when a category name has no extraction rule
var ErrUnknownCategory = errors.New("unknown filter category")

// Kind describes the shape of a category's track field
type Kind int

// Field shapes. Matching dispatches on these.
const (
	KindList   Kind = iota // Multi-valued field (genre, mood, tags, instruments)
	KindText               // Single string field (artist, album, key, tuning)
	KindNumber             // Numeric field compared as a string (year)
)

// Field is one registered category
type Field struct {
	Name    string
	Kind    Kind
	extract func(t *Track) []string
}

// Values returns the string-encoded values the track carries for this field
// Absent fields yield nil
func (f Field) Values(t *Track) []string {
	if t == nil {
		return nil
	}

	return f.extract(t)
}

func listField(name string, get func(t *Track) []string) Field {
	return Field{Name: name, Kind: KindList, extract: get}
}

func textField(name string, get func(t *Track) string) Field {
	return Field{Name: name, Kind: KindText, extract: func(t *Track) []string {
		if v := get(t); v != "" {
			return []string{v}
		}

		return nil
	}}
}

func numberField(name string, get func(t *Track) int) Field {
	return Field{Name: name, Kind: KindNumber, extract: func(t *Track) []string {
		if v := get(t); v > 0 {
			return []string{strconv.Itoa(v)}
		}

		return nil
	}}
}

// registry lists every filterable category in display order
var registry = []Field{
	listField("genre", func(t *Track) []string { return t.Genre }),
	listField("mood", func(t *Track) []string { return t.Mood }),
	listField("tags", func(t *Track) []string { return t.Tags }),
	listField("instruments", func(t *Track) []string { return t.Instruments }),
	textField("tuning", func(t *Track) string { return t.Tuning }),
	textField("key", func(t *Track) string { return t.Key }),
	textField("artist", func(t *Track) string { return t.Artist }),
	textField("album", func(t *Track) string { return t.Album }),
	numberField("year", func(t *Track) int { return t.Year }),
}

var registryIndex = func() map[string]int {
	idx := make(map[string]int, len(registry))
	for i, f := range registry {
		idx[f.Name] = i
	}

	return idx
}()

// CategoryNames returns every registered category name in display order
func CategoryNames() []string {
	names := make([]string, len(registry))
	for i, f := range registry {
		names[i] = f.Name
	}

	return names
}

// LookupCategory returns the field registered under name
func LookupCategory(name string) (Field, error) {
	i, ok := registryIndex[name]
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}

	return registry[i], nil
}

// IsCategory reports whether name is a registered category
func IsCategory(name string) bool {
	_, ok := registryIndex[name]

	return ok
}

// Category is a filter dimension with its distinct values
type Category struct {
	Name   string
	Values []CategoryValue
}

// CategoryValue is one distinct value and the number of tracks carrying it
type CategoryValue struct {
	Value string
	Count int
}

// deriveCategories builds every category from tracks
// Values sort ascending, except numeric categories which sort newest first
func deriveCategories(tracks []*Track) []Category {
	categories := make([]Category, 0, len(registry))

	for _, field := range registry {
		counts := make(map[string]int)

		for _, t := range tracks {
			seen := make(map[string]bool)
			for _, v := range field.Values(t) {
				if seen[v] {
					continue
				}

				seen[v] = true
				counts[v]++
			}
		}

		values := make([]CategoryValue, 0, len(counts))
		for v, n := range counts {
			values = append(values, CategoryValue{Value: v, Count: n})
		}

		if field.Kind == KindNumber {
			sort.Slice(values, func(i, j int) bool {
				a, _ := strconv.Atoi(values[i].Value)
				b, _ := strconv.Atoi(values[j].Value)

				return a > b
			})
		} else {
			sort.Slice(values, func(i, j int) bool {
				return values[i].Value < values[j].Value
			})
		}

		categories = append(categories, Category{Name: field.Name, Values: values})
	}

	return categories
}
