package planner

import (
	"errors"
	"reflect"
	"testing"

	"menu-planner/internal/recipe"
)

func TestAssembleBuildsShoppingList(t *testing.T) {
	plan := &MenuPlan{Days: []DaySlot{
		{Day: 1, Recipe: score(recipe.Record{Title: "Curry", Ingredients: []string{"x"}, PrepMinutes: 10, CookMinutes: 20}, "coconut milk", "rice")},
		{Day: 2, Recipe: score(recipe.Record{Title: "Stir Fry", Ingredients: []string{"x"}}, "rice", "soy sauce")},
		{Day: 3, Recipe: score(recipe.Record{Title: "Salad", Ingredients: []string{"x"}})},
	}}

	req := Assemble(plan)

	if len(req.Days) != 3 {
		t.Fatalf("Expected 3 days, got %d", len(req.Days))
	}
	if req.Days[0].Title != "Curry" || req.Days[0].PrepMinutes != 10 || req.Days[0].CookMinutes != 20 {
		t.Errorf("Day 1 payload wrong: %+v", req.Days[0])
	}

	// Union of missing ingredients, deduplicated and sorted.
	want := []string{"coconut milk", "rice", "soy sauce"}
	if !reflect.DeepEqual(req.ShoppingList, want) {
		t.Errorf("ShoppingList = %v, want %v", req.ShoppingList, want)
	}
}

func TestAssembleEmptyShoppingListWhenFullyCovered(t *testing.T) {
	plan := &MenuPlan{Days: []DaySlot{
		{Day: 1, Recipe: score(recipe.Record{Title: "Salad", Ingredients: []string{"x"}})},
	}}

	req := Assemble(plan)
	if len(req.ShoppingList) != 0 {
		t.Errorf("Expected empty shopping list, got %v", req.ShoppingList)
	}
}

func TestFinalizeCompleteNarration(t *testing.T) {
	plan := &MenuPlan{Days: []DaySlot{
		{Day: 1, Recipe: score(recipe.Record{Title: "Salad", Ingredients: []string{"x"}})},
	}}

	artifact := Finalize(plan, "Enjoy your salad week!", nil)

	if !artifact.NarrationComplete {
		t.Error("Expected a complete artifact")
	}
	if artifact.Narration != "Enjoy your salad week!" {
		t.Errorf("Narration must be stored verbatim, got %q", artifact.Narration)
	}
	if artifact.NarrationError != "" {
		t.Errorf("Unexpected narration error: %s", artifact.NarrationError)
	}
	if artifact.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestFinalizeKeepsPlanOnNarrationFailure(t *testing.T) {
	plan := &MenuPlan{Days: []DaySlot{
		{Day: 1, Recipe: score(recipe.Record{Title: "Curry", Ingredients: []string{"x"}}, "rice")},
	}}
	narrErr := &NarrationError{Err: errors.New("model overloaded")}

	artifact := Finalize(plan, "", narrErr)

	if artifact.NarrationComplete {
		t.Error("Artifact must be flagged incomplete on narration failure")
	}
	if artifact.NarrationError == "" {
		t.Error("Expected the narration error to be recorded")
	}
	// The structured plan survives so narration can be retried later.
	if len(artifact.Request.Days) != 1 || artifact.Request.Days[0].Title != "Curry" {
		t.Errorf("Structured plan lost on narration failure: %+v", artifact.Request)
	}
	if got, want := artifact.Request.ShoppingList, []string{"rice"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ShoppingList = %v, want %v", got, want)
	}
}

func TestNarrationErrorUnwraps(t *testing.T) {
	inner := errors.New("timeout")
	err := &NarrationError{Err: inner}

	if !errors.Is(err, inner) {
		t.Error("NarrationError must unwrap to its cause")
	}
}
