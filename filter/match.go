// ABOUTME: Per-category track matching and tolerant value comparison
// ABOUTME: Dispatches on the registered field shape of each category

package filter

import (
	"regexp"
	"strings"

	"playlist-browser/library"
)

// tuningNotation captures "<n>-EDO" / "<n>-tone" style tuning names (lowercased input)
var tuningNotation = regexp.MustCompile(`^(\d+)\s*-?\s*(edo|tone)`)

// SmartCompare reports whether a selected value and a track value name the same thing
//
// Values match exactly, case-insensitively, or when both are tuning notations with
// the same step count written with different units ("16-EDO" and "16-tone").
// Two notations with the same unit but different spacing ("31edo", "31-EDO") do
// not match.
func SmartCompare(selected, value string) bool {
	if selected == value {
		return true
	}

	if strings.EqualFold(selected, value) {
		return true
	}

	a := tuningNotation.FindStringSubmatch(strings.ToLower(selected))
	b := tuningNotation.FindStringSubmatch(strings.ToLower(value))

	if a == nil || b == nil {
		return false
	}

	return a[1] == b[1] && a[2] != b[2]
}

// trackMatchesCategory reports whether track carries any of the selected values
func trackMatchesCategory(track *library.Track, field library.Field, selected []string) bool {
	values := field.Values(track)
	if len(values) == 0 {
		return false
	}

	for _, want := range selected {
		for _, have := range values {
			if field.Kind == library.KindNumber {
				if want == have {
					return true
				}

				continue
			}

			if SmartCompare(want, have) {
				return true
			}
		}
	}

	return false
}

// matchesSearch reports whether the title or artist contains the lowercased query
func matchesSearch(track *library.Track, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(track.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(track.Artist), lowerQuery)
}
