package grouping

import (
	"strings"

	"golang.org/x/text/cases"
)

// FilterByName keeps entries whose name contains query, ignoring case.
// Only an empty query returns the input unchanged; whitespace is matched
// literally like any other text.
func FilterByName(entries []Entry, query string) []Entry {
	if query == "" {
		return entries
	}

	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(fold.String(e.Name()), needle) {
			out = append(out, e)
		}
	}
	return out
}
