package planner

import (
	"errors"
	"reflect"
	"testing"

	"menu-planner/internal/inventory"
	"menu-planner/internal/recipe"
)

func TestScoreComputesMissingSet(t *testing.T) {
	records := []recipe.Record{
		{Title: "Omelette", Ingredients: []string{"Eggs", "Butter", "Chives"}},
		{Title: "Salad", Ingredients: []string{"Lettuce", "Tomato"}},
	}
	inv := inventory.NewSet([]string{"eggs", "lettuce", "tomato"})

	scored, err := Score(records, inv)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("Expected 2 scored recipes, got %d", len(scored))
	}

	if got, want := scored[0].Missing, []string{"butter", "chives"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Omelette missing = %v, want %v", got, want)
	}
	if scored[1].MissingCount() != 0 {
		t.Errorf("Salad should be fully covered, missing %v", scored[1].Missing)
	}
}

func TestScoreNormalizesBothSides(t *testing.T) {
	// "  Tomato " in the recipe and "tomato" in the inventory are the same
	// ingredient once case, edges and internal runs of whitespace are gone.
	records := []recipe.Record{
		{Title: "Soup", Ingredients: []string{"  Tomato ", "Red   Onion"}},
	}
	inv := inventory.NewSet([]string{"tomato", "RED ONION"})

	scored, err := Score(records, inv)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if scored[0].MissingCount() != 0 {
		t.Errorf("Expected no missing ingredients, got %v", scored[0].Missing)
	}
}

func TestScoreMissingNeverExceedsRequired(t *testing.T) {
	records := []recipe.Record{
		{Title: "Stew", Ingredients: []string{"Beef", "Carrot", "Carrot", "Potato"}},
	}

	scored, err := Score(records, inventory.NewSet(nil))
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	// Duplicate requirements count once; an empty inventory misses exactly the
	// distinct required set.
	if got, want := scored[0].Missing, []string{"beef", "carrot", "potato"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Missing = %v, want %v", got, want)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	records := []recipe.Record{
		{Title: "Curry", Ingredients: []string{"Rice", "Chicken", "Curry Paste"}},
		{Title: "Toast", Ingredients: []string{"Bread", "Butter"}},
	}
	inv := inventory.NewSet([]string{"rice", "bread"})

	first, err := Score(records, inv)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	second, err := Score(records, inv)
	if err != nil {
		t.Fatalf("Score failed on second run: %v", err)
	}

	for i := range first {
		if first[i].Recipe.Title != second[i].Recipe.Title {
			t.Errorf("Order changed between runs at index %d", i)
		}
		if !reflect.DeepEqual(first[i].Missing, second[i].Missing) {
			t.Errorf("Missing set changed between runs for %s: %v vs %v",
				first[i].Recipe.Title, first[i].Missing, second[i].Missing)
		}
	}
}

func TestScorePreservesInputOrder(t *testing.T) {
	records := []recipe.Record{
		{Title: "Zebra Cake", Ingredients: []string{"Flour"}},
		{Title: "Apple Pie", Ingredients: []string{"Apples"}},
	}

	scored, err := Score(records, inventory.NewSet(nil))
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if scored[0].Recipe.Title != "Zebra Cake" || scored[1].Recipe.Title != "Apple Pie" {
		t.Errorf("Score reordered its input: %s, %s", scored[0].Recipe.Title, scored[1].Recipe.Title)
	}
}

func TestScoreRejectsMalformedRecord(t *testing.T) {
	records := []recipe.Record{
		{Title: "Fine", Ingredients: []string{"Salt"}},
		{Title: "Broken", Ingredients: nil},
	}

	_, err := Score(records, inventory.NewSet(nil))
	if err == nil {
		t.Fatal("Expected an error for the empty ingredient list")
	}
	var malformed *recipe.MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected a MalformedError, got %T: %v", err, err)
	}
	if malformed.Title != "Broken" {
		t.Errorf("Error should name the broken record, got %q", malformed.Title)
	}
}
