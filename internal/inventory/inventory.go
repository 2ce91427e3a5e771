package inventory

import (
	"sort"
	"strings"
)

// NormalizeName maps an ingredient name to its canonical form: lower case,
// trimmed, with internal whitespace collapsed to single spaces. Two names
// refer to the same ingredient iff their normalized forms are equal, and the
// same raw string always normalizes identically within a run.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Set is the set of ingredient names the user currently owns. It is an
// immutable input to one planning run; membership checks normalize on the
// way in, so callers can pass raw names.
type Set struct {
	owned map[string]struct{}
}

// NewSet builds a Set from raw ingredient names. Empty names are dropped.
func NewSet(names []string) Set {
	owned := make(map[string]struct{}, len(names))
	for _, n := range names {
		if norm := NormalizeName(n); norm != "" {
			owned[norm] = struct{}{}
		}
	}
	return Set{owned: owned}
}

// FromCategories flattens a category -> ingredients mapping into a Set.
// The grouping is cosmetic and discarded; only the names matter.
func FromCategories(categories map[string][]string) Set {
	var names []string
	for _, ingredients := range categories {
		names = append(names, ingredients...)
	}
	return NewSet(names)
}

// Has reports whether the set owns the given (raw) ingredient name.
func (s Set) Has(name string) bool {
	_, ok := s.owned[NormalizeName(name)]
	return ok
}

// Len is the number of distinct owned ingredients.
func (s Set) Len() int {
	return len(s.owned)
}

// Names returns the normalized owned names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s.owned))
	for n := range s.owned {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
