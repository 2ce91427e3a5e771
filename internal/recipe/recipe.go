package recipe

import (
	"fmt"
)

// Record is one recipe row from the corpus. Records are immutable for the
// duration of a planning run; callers must not mutate a slice of Records
// while a plan is being computed.
type Record struct {
	Title              string   `json:"title"`
	Ingredients        []string `json:"key_ingredients"`
	PrepMinutes        int      `json:"prep_minutes"`
	CookMinutes        int      `json:"cook_minutes"`
	ContainsMeatOrFish bool     `json:"contains_meat_or_fish"`
	SourceURL          string   `json:"source_url,omitempty"`
}

// TotalMinutes is the combined prep and cook time.
func (r Record) TotalMinutes() int {
	return r.PrepMinutes + r.CookMinutes
}

// MalformedError reports a corpus row that fails structural validation.
// It carries the offending record's title so the caller can point at the row.
type MalformedError struct {
	Title  string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed recipe %q: %s", e.Title, e.Reason)
}

// Validate checks the structural invariants of a Record: a non-empty
// ingredient list and non-negative time values.
func (r Record) Validate() error {
	if len(r.Ingredients) == 0 {
		return &MalformedError{Title: r.Title, Reason: "empty ingredient list"}
	}
	if r.PrepMinutes < 0 || r.CookMinutes < 0 {
		return &MalformedError{Title: r.Title, Reason: "negative time value"}
	}
	return nil
}
