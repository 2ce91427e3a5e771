package acceptance_tests

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"menu-planner/internal/app"
	"menu-planner/internal/cache"
	"menu-planner/internal/categorizer"
	"menu-planner/internal/clipper"
	"menu-planner/internal/config"
	"menu-planner/internal/database"
	"menu-planner/internal/llm"
	"menu-planner/internal/metrics"
	"menu-planner/internal/narrator"
	"menu-planner/internal/planner"
	"menu-planner/internal/recipe"
	"menu-planner/internal/shared"
	"menu-planner/internal/storage"
)

// --- Mock LLM Client ---
type mockLLMClient struct {
	generateContentCalls int
	failNarration        bool
}

func (m *mockLLMClient) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.generateContentCalls++
	usage := shared.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, Model: "mock"}

	// Dispatch on the prompt header to play all three model roles.
	switch {
	case strings.Contains(prompt, "# Menu Narrator"):
		if m.failNarration {
			return llm.ContentResponse{}, fmt.Errorf("mock narration outage")
		}
		return llm.ContentResponse{Content: "# Your Week\nA fine plan awaits.", Usage: usage}, nil
	case strings.Contains(prompt, "# Ingredient Categorizer"):
		return llm.ContentResponse{
			Content: `{"categories": [{"category_name": "Vegetables & Starches", "ingredients": ["Eggplant", "Zucchini", "Tomato", "Rice"]}]}`,
			Usage:   usage,
		}, nil
	default: // recipe extraction
		return llm.ContentResponse{
			Content: `{"title": "Clipped Curry", "key_ingredients": "Rice, Curry Paste", "prep_minutes": 10, "cook_minutes": 20, "contains_meat_or_fish": "Non"}`,
			Usage:   usage,
		}, nil
	}
}

func newTestApp(t *testing.T, gen llm.TextGenerator) (*app.App, *config.Config) {
	t.Helper()
	filesDir := t.TempDir()

	cfg := &config.Config{
		GeminiAPIKey:         "test-key",
		GeminiModel:          "mock",
		FilesDir:             filesDir,
		RecipesCSVPath:       filepath.Join(filesDir, "recipes.csv"),
		InventoryCSVPath:     filepath.Join(filesDir, "available_ingredients.csv"),
		InventoryJSONPath:    filepath.Join(filesDir, "categorized_available_ingredients.json"),
		DatabasePath:         filepath.Join(filesDir, "menu-planner.db"),
		CategorizerCachePath: filepath.Join(filesDir, "categorized_ingredients_cache.json"),
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cacheStore, err := cache.Open(cfg.CategorizerCachePath)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	planStore, err := storage.NewPlanStore(cfg.FilesDir)
	if err != nil {
		t.Fatalf("Failed to create plan store: %v", err)
	}

	corpus := recipe.NewCSVStore(cfg.RecipesCSVPath)
	application := app.NewApp(
		cfg,
		corpus,
		planStore,
		narrator.NewNarrator(gen),
		categorizer.NewCategorizer(gen, cacheStore),
		clipper.NewClipper(corpus, gen),
		metrics.NewStore(db.SQL),
		recipe.NewRepository(db.SQL),
		planner.NewPlanRepository(db.SQL),
	)
	return application, cfg
}

func seedCorpus(t *testing.T, path string) {
	t.Helper()
	corpus := `Title,Key Ingredients,Prep Time (min),Cook Time (min),Contains meat/fish?,URL
Ratatouille,"Eggplant, Zucchini, Tomato",20,45,Non,https://example.com/rata
Fish Tacos,"Cod, Tortillas, Lime",15,10,Oui,
Fried Rice,"Rice, Eggs, Soy Sauce",10,15,Non,
`
	if err := os.WriteFile(path, []byte(corpus), 0644); err != nil {
		t.Fatalf("Failed to seed corpus: %v", err)
	}
}

// --- Acceptance Test ---
func TestFullPlanningWorkflow(t *testing.T) {
	ctx := context.Background()
	llmClient := &mockLLMClient{}
	application, cfg := newTestApp(t, llmClient)
	seedCorpus(t, cfg.RecipesCSVPath)

	// --- Step 1: Save the inventory ---
	t.Log("--- Step 1: Saving Inventory ---")
	set, err := application.SaveInventory(ctx, []string{"Eggplant", "Zucchini", "Rice", "Eggs"})
	if err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}
	if set.Len() != 4 {
		t.Fatalf("Expected 4 owned ingredients, got %d", set.Len())
	}

	// --- Step 2: Plan the week ---
	t.Log("--- Step 2: Planning 3 Days ---")
	artifact, err := application.PlanMenu(ctx, 3)
	if err != nil {
		t.Fatalf("PlanMenu failed: %v", err)
	}
	if !artifact.NarrationComplete {
		t.Fatalf("Expected a complete narration, got error %q", artifact.NarrationError)
	}
	if len(artifact.Request.Days) != 3 {
		t.Fatalf("Expected 3 planned days, got %d", len(artifact.Request.Days))
	}

	// Fried Rice misses the least (soy sauce only), then Ratatouille
	// (tomato), then Fish Tacos (cod, lime, tortillas).
	wantOrder := []string{"Fried Rice", "Ratatouille", "Fish Tacos"}
	for i, want := range wantOrder {
		if got := artifact.Request.Days[i].Title; got != want {
			t.Errorf("Day %d = %q, want %q", i+1, got, want)
		}
	}

	// The shopping list is the union of everything still missing.
	wantShopping := []string{"cod", "lime", "soy sauce", "tomato", "tortillas"}
	if len(artifact.Request.ShoppingList) != len(wantShopping) {
		t.Fatalf("ShoppingList = %v, want %v", artifact.Request.ShoppingList, wantShopping)
	}
	for i, want := range wantShopping {
		if artifact.Request.ShoppingList[i] != want {
			t.Errorf("ShoppingList[%d] = %q, want %q", i, artifact.Request.ShoppingList[i], want)
		}
	}

	// Artifact files landed on disk.
	for _, name := range []string{"weekly_meal_plan.md", "weekly_shopping_list.md", "weekly_meal_plan.json"} {
		if _, err := os.Stat(filepath.Join(cfg.FilesDir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}

	// --- Step 3: Clip a new recipe ---
	t.Log("--- Step 3: Clipping a Recipe ---")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><h1>Clipped Curry</h1></body></html>"))
	}))
	defer ts.Close()

	rec, err := application.ClipRecipe(ctx, ts.URL)
	if err != nil {
		t.Fatalf("ClipRecipe failed: %v", err)
	}
	if rec.Title != "Clipped Curry" {
		t.Errorf("Clipped title = %q", rec.Title)
	}

	records, err := recipe.NewCSVStore(cfg.RecipesCSVPath).Load()
	if err != nil {
		t.Fatalf("Load after clip failed: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("Expected 4 corpus recipes after clipping, got %d", len(records))
	}
}

func TestPlanningSurvivesNarrationOutage(t *testing.T) {
	ctx := context.Background()
	llmClient := &mockLLMClient{failNarration: true}
	application, cfg := newTestApp(t, llmClient)
	seedCorpus(t, cfg.RecipesCSVPath)

	if _, err := application.SaveInventory(ctx, []string{"Rice"}); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	// Narration fails, but the structured plan must come back anyway.
	artifact, err := application.PlanMenu(ctx, 2)
	if err != nil {
		t.Fatalf("PlanMenu must not fail on a narration outage: %v", err)
	}
	if artifact.NarrationComplete {
		t.Error("Artifact must be flagged incomplete")
	}
	if len(artifact.Request.Days) != 2 {
		t.Errorf("Structured plan lost: %+v", artifact.Request)
	}

	// The narration outage ends; a retry completes the stored artifact.
	llmClient.failNarration = false
	renarrated, err := application.RenarratePlan(ctx)
	if err != nil {
		t.Fatalf("RenarratePlan failed: %v", err)
	}
	if !renarrated.NarrationComplete {
		t.Error("Expected a complete artifact after renarration")
	}
	if renarrated.Narration == "" {
		t.Error("Narration is empty after renarration")
	}
}

func TestIngredientChoicesUsesCategorizerCache(t *testing.T) {
	ctx := context.Background()
	llmClient := &mockLLMClient{}
	application, cfg := newTestApp(t, llmClient)
	seedCorpus(t, cfg.RecipesCSVPath)

	if _, err := application.IngredientChoices(ctx); err != nil {
		t.Fatalf("IngredientChoices failed: %v", err)
	}
	callsAfterFirst := llmClient.generateContentCalls

	if _, err := application.IngredientChoices(ctx); err != nil {
		t.Fatalf("Second IngredientChoices failed: %v", err)
	}
	if llmClient.generateContentCalls != callsAfterFirst {
		t.Errorf("Second call must be served from the cache, model calls went %d -> %d",
			callsAfterFirst, llmClient.generateContentCalls)
	}
}
