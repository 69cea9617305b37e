package store

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// maxSuggestions caps how many names a lookup miss reports.
const maxSuggestions = 3

// suggest returns the candidates within edit distance of name, closest first.
// The distance budget is a third of the longer string, at least 2, so short
// names tolerate a typo and long names tolerate proportionally more. Names
// are compared case-folded.
func suggest(name string, candidates []string) []string {
	type scored struct {
		name     string
		distance int
	}

	caser := cases.Fold()
	target := caser.String(name)
	var matches []scored
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(target, caser.String(c))
		budget := max(2, max(len([]rune(target)), len([]rune(c)))/3)
		if d <= budget {
			matches = append(matches, scored{name: c, distance: d})
		}
	}

	slices.SortFunc(matches, func(a, b scored) int {
		if a.distance != b.distance {
			return a.distance - b.distance
		}
		return strings.Compare(a.name, b.name)
	})

	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}
