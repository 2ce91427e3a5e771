package planner

import (
	"sort"
	"time"
)

// NarrationDay is the per-day payload handed to the narration service.
type NarrationDay struct {
	Day                int      `json:"day"`
	Title              string   `json:"title"`
	MissingIngredients []string `json:"missing_ingredients"`
	PrepMinutes        int      `json:"prep_minutes"`
	CookMinutes        int      `json:"cook_minutes"`
	ContainsMeatOrFish bool     `json:"contains_meat_or_fish"`
	SourceURL          string   `json:"source_url,omitempty"`
}

// NarrationRequest is the structured, already-decided candidate set sent to
// the narration service. The service describes it; it never re-ranks or
// re-selects.
type NarrationRequest struct {
	Days         []NarrationDay `json:"days"`
	ShoppingList []string       `json:"shopping_list"`
}

// PlanArtifact pairs the structured plan with the narration prose, stored
// verbatim for traceability. When narration failed the artifact is flagged
// incomplete but keeps the request, so narration can be retried without
// recomputing selection.
type PlanArtifact struct {
	Request           NarrationRequest `json:"plan"`
	Narration         string           `json:"narration"`
	NarrationComplete bool             `json:"narration_complete"`
	NarrationError    string           `json:"narration_error,omitempty"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// Assemble packages a plan into a narration request: one entry per day plus
// the aggregated shopping list (the union of missing ingredients across the
// plan, deduplicated and sorted).
func Assemble(plan *MenuPlan) NarrationRequest {
	days := make([]NarrationDay, 0, len(plan.Days))
	missing := make(map[string]struct{})
	for _, slot := range plan.Days {
		rec := slot.Recipe.Recipe
		days = append(days, NarrationDay{
			Day:                slot.Day,
			Title:              rec.Title,
			MissingIngredients: slot.Recipe.Missing,
			PrepMinutes:        rec.PrepMinutes,
			CookMinutes:        rec.CookMinutes,
			ContainsMeatOrFish: rec.ContainsMeatOrFish,
			SourceURL:          rec.SourceURL,
		})
		for _, ing := range slot.Recipe.Missing {
			missing[ing] = struct{}{}
		}
	}

	shopping := make([]string, 0, len(missing))
	for ing := range missing {
		shopping = append(shopping, ing)
	}
	sort.Strings(shopping)

	return NarrationRequest{Days: days, ShoppingList: shopping}
}

// Finalize pairs the plan with the narration service's response. The prose is
// opaque and stored verbatim. A narration failure does not discard the plan:
// the artifact comes back flagged incomplete with the error message attached.
func Finalize(plan *MenuPlan, narration string, narrationErr error) PlanArtifact {
	artifact := PlanArtifact{
		Request:     Assemble(plan),
		GeneratedAt: time.Now().UTC(),
	}
	if narrationErr != nil {
		artifact.NarrationError = narrationErr.Error()
		return artifact
	}
	artifact.Narration = narration
	artifact.NarrationComplete = true
	return artifact
}
