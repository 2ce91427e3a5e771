package planner

import (
	"sort"

	"menu-planner/internal/inventory"
	"menu-planner/internal/recipe"
)

// ScoredRecipe pairs a corpus record with the ingredients the user lacks for
// it. Recipe is a read-only view into the caller's slice, never a copy.
type ScoredRecipe struct {
	Recipe  *recipe.Record `json:"recipe"`
	Missing []string       `json:"missing_ingredients"`
}

// MissingCount is the recipe's missing-ingredient score. It can never exceed
// the number of required ingredients.
func (s ScoredRecipe) MissingCount() int {
	return len(s.Missing)
}

// Score computes the missing-ingredient set for every record against the
// inventory, one output per input, order preserved. Required and owned names
// are compared under the same normalization rule (inventory.NormalizeName).
// The missing set is kept sorted so identical inputs always produce
// value-identical output.
//
// A record with an empty ingredient list is malformed and fails the whole
// call; scoring it as zero-missing would silently promote it to the top of
// every plan.
func Score(records []recipe.Record, inv inventory.Set) ([]ScoredRecipe, error) {
	scored := make([]ScoredRecipe, 0, len(records))
	for i := range records {
		rec := &records[i]
		if err := rec.Validate(); err != nil {
			return nil, err
		}

		seen := make(map[string]struct{}, len(rec.Ingredients))
		var missing []string
		for _, ing := range rec.Ingredients {
			norm := inventory.NormalizeName(ing)
			if norm == "" {
				continue
			}
			if _, dup := seen[norm]; dup {
				continue
			}
			seen[norm] = struct{}{}
			if !inv.Has(norm) {
				missing = append(missing, norm)
			}
		}
		sort.Strings(missing)
		scored = append(scored, ScoredRecipe{Recipe: rec, Missing: missing})
	}
	return scored, nil
}
