package planner

import (
	"sort"
)

// DaySlot assigns one scored recipe to one day of the plan. Day is 1-based.
type DaySlot struct {
	Day    int          `json:"day"`
	Recipe ScoredRecipe `json:"recipe"`
}

// MenuPlan is an ordered sequence of day slots, one per day of the requested
// horizon. Slots reference recipes, they never copy them.
type MenuPlan struct {
	Days []DaySlot `json:"days"`
}

// Select picks and orders recipes into a plan of exactly `days` slots.
//
// Candidates are ranked by missing-ingredient count ascending, then total
// prep+cook time ascending, then title ascending, so the same input always
// produces the same plan. Slots are filled from a rotating eligibility pool:
// a placed recipe moves to the back of a secondary queue and becomes eligible
// again only once every other recipe has been used at least as many times.
// With fewer distinct recipes than days this degrades to round-robin
// repetition instead of failing.
//
// After the greedy fill a best-effort dietary-mix pass runs: a plan that is
// all meat/fish or all vegetarian gets one opposite-flag recipe swapped in
// when a suitable candidate exists. Finding none is not an error.
func Select(scored []ScoredRecipe, days int) (*MenuPlan, error) {
	if days <= 0 {
		return nil, ErrInvalidHorizon
	}
	if len(scored) == 0 {
		return nil, ErrEmptyCorpus
	}

	ranked := make([]ScoredRecipe, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.MissingCount() != b.MissingCount() {
			return a.MissingCount() < b.MissingCount()
		}
		if a.Recipe.TotalMinutes() != b.Recipe.TotalMinutes() {
			return a.Recipe.TotalMinutes() < b.Recipe.TotalMinutes()
		}
		return a.Recipe.Title < b.Recipe.Title
	})

	// Rotating eligibility pool: pop the primary queue, park in the used
	// queue, and only start drawing from the used queue (in the same order)
	// once the primary is exhausted.
	primary := ranked
	var used []ScoredRecipe
	slots := make([]DaySlot, 0, days)
	for day := 1; day <= days; day++ {
		if len(primary) == 0 {
			primary, used = used, nil
		}
		next := primary[0]
		primary = primary[1:]
		used = append(used, next)
		slots = append(slots, DaySlot{Day: day, Recipe: next})
	}

	plan := &MenuPlan{Days: slots}
	rebalanceDietaryMix(plan, ranked)
	return plan, nil
}

// rebalanceDietaryMix swaps one opposite-flag recipe into a plan that is
// monotonic on the meat/fish flag. The candidate must sit within the top
// ceil(N/2) of the ranked order, must not already be in the plan, and must
// not be worse (by missing count) than the slot it replaces, which is the
// slot whose recipe has the highest missing count.
func rebalanceDietaryMix(plan *MenuPlan, ranked []ScoredRecipe) {
	if len(plan.Days) < 2 {
		return
	}

	flag := plan.Days[0].Recipe.Recipe.ContainsMeatOrFish
	for _, slot := range plan.Days[1:] {
		if slot.Recipe.Recipe.ContainsMeatOrFish != flag {
			return
		}
	}

	window := (len(plan.Days) + 1) / 2
	if window > len(ranked) {
		window = len(ranked)
	}

	placed := make(map[string]struct{}, len(plan.Days))
	for _, slot := range plan.Days {
		placed[slot.Recipe.Recipe.Title] = struct{}{}
	}

	worst := 0
	for i, slot := range plan.Days {
		if slot.Recipe.MissingCount() >= plan.Days[worst].Recipe.MissingCount() {
			worst = i
		}
	}

	for _, cand := range ranked[:window] {
		if cand.Recipe.ContainsMeatOrFish == flag {
			continue
		}
		if _, already := placed[cand.Recipe.Title]; already {
			continue
		}
		if cand.MissingCount() > plan.Days[worst].Recipe.MissingCount() {
			continue
		}
		plan.Days[worst].Recipe = cand
		return
	}
}
