package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"menu-planner/internal/categorizer"
	"menu-planner/internal/clipper"
	"menu-planner/internal/config"
	"menu-planner/internal/inventory"
	"menu-planner/internal/metrics"
	"menu-planner/internal/narrator"
	"menu-planner/internal/planner"
	"menu-planner/internal/recipe"
	"menu-planner/internal/storage"
)

// DefaultUserID keys plan history until real multi-user support exists.
const DefaultUserID = "default_user"

// App holds the application's dependencies and drives the planning workflow.
type App struct {
	cfg          *config.Config
	corpus       *recipe.CSVStore
	planStore    *storage.PlanStore
	menuNarrator *narrator.Narrator
	categorizer  *categorizer.Categorizer
	recipeClip   *clipper.Clipper
	metricsStore *metrics.Store
	recipeRepo   *recipe.Repository
	planRepo     *planner.PlanRepository
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	corpus *recipe.CSVStore,
	planStore *storage.PlanStore,
	menuNarrator *narrator.Narrator,
	ingredientCategorizer *categorizer.Categorizer,
	recipeClip *clipper.Clipper,
	metricsStore *metrics.Store,
	recipeRepo *recipe.Repository,
	planRepo *planner.PlanRepository,
) *App {
	return &App{
		cfg:          cfg,
		corpus:       corpus,
		planStore:    planStore,
		menuNarrator: menuNarrator,
		categorizer:  ingredientCategorizer,
		recipeClip:   recipeClip,
		metricsStore: metricsStore,
		recipeRepo:   recipeRepo,
		planRepo:     planRepo,
	}
}

// PlanMenu runs the full workflow for an N-day horizon: load corpus and
// inventory, score, select, narrate, and persist the artifact.
//
// A narration failure is downgraded to an incomplete artifact; the
// structured plan survives and can be re-narrated later. Scoring and
// selection failures are fatal to the run.
func (a *App) PlanMenu(ctx context.Context, days int) (*planner.PlanArtifact, error) {
	records, err := a.corpus.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe corpus: %w", err)
	}

	inv, err := inventory.LoadCSV(a.cfg.InventoryCSVPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory (save your inventory first): %w", err)
	}

	a.mirrorCorpus(ctx, records)

	scored, err := planner.Score(records, inv)
	if err != nil {
		return nil, err
	}

	plan, err := planner.Select(scored, days)
	if err != nil {
		return nil, err
	}

	req := planner.Assemble(plan)
	narration, meta, narrErr := a.menuNarrator.Narrate(ctx, req)
	if err := a.metricsStore.RecordMeta(ctx, meta); err != nil {
		log.Printf("Warning: failed to record narration metrics: %v", err)
	}
	if narrErr != nil {
		log.Printf("Narration failed, keeping structured plan: %v", narrErr)
	}

	artifact := planner.Finalize(plan, narration, narrErr)
	if err := a.persistArtifact(ctx, artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// RenarratePlan retries narration for the last saved plan without
// recomputing selection. It fails if no stored plan exists.
func (a *App) RenarratePlan(ctx context.Context) (*planner.PlanArtifact, error) {
	artifact, err := a.planStore.LoadArtifact()
	if err != nil {
		return nil, fmt.Errorf("no stored plan to renarrate: %w", err)
	}

	narration, meta, narrErr := a.menuNarrator.Narrate(ctx, artifact.Request)
	if err := a.metricsStore.RecordMeta(ctx, meta); err != nil {
		log.Printf("Warning: failed to record narration metrics: %v", err)
	}
	if narrErr != nil {
		return nil, narrErr
	}

	artifact.Narration = narration
	artifact.NarrationComplete = true
	artifact.NarrationError = ""
	if err := a.persistArtifact(ctx, *artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

// ClipRecipe adds a recipe from a URL to the corpus.
func (a *App) ClipRecipe(ctx context.Context, url string) (*recipe.Record, error) {
	rec, meta, err := a.recipeClip.ClipURL(ctx, url)
	if recErr := a.metricsStore.RecordMeta(ctx, meta); recErr != nil {
		log.Printf("Warning: failed to record clipper metrics: %v", recErr)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// IngredientChoices returns every distinct corpus ingredient grouped into
// categories, for the selection surface to offer as checkboxes. The
// categorization call is cached per unique ingredient set.
func (a *App) IngredientChoices(ctx context.Context) (map[string][]string, error) {
	records, err := a.corpus.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe corpus: %w", err)
	}

	all := recipe.UniqueIngredients(records)
	categories, meta, err := a.categorizer.Categorize(ctx, all)
	if err != nil {
		// Categorization is cosmetic; fall back to a single group.
		log.Printf("Warning: categorization failed, using flat list: %v", err)
		return map[string][]string{"All Ingredients": all}, nil
	}
	if recErr := a.metricsStore.RecordMeta(ctx, meta); recErr != nil {
		log.Printf("Warning: failed to record categorizer metrics: %v", recErr)
	}
	return categories, nil
}

// SaveInventory records the user's owned ingredients: the flat CSV the
// planner reads plus the categorized JSON snapshot for the surface.
func (a *App) SaveInventory(ctx context.Context, names []string) (inventory.Set, error) {
	set := inventory.NewSet(names)
	if set.Len() == 0 {
		return set, errors.New("no ingredients selected")
	}

	if err := inventory.SaveCSV(a.cfg.InventoryCSVPath, set); err != nil {
		return set, err
	}

	categories, _, err := a.categorizer.Categorize(ctx, set.Names())
	if err != nil {
		log.Printf("Warning: skipping categorized snapshot: %v", err)
		return set, nil
	}
	if err := inventory.SaveCategorizedJSON(a.cfg.InventoryJSONPath, categories); err != nil {
		return set, err
	}
	return set, nil
}

// persistArtifact writes the artifact files and appends to plan history.
func (a *App) persistArtifact(ctx context.Context, artifact planner.PlanArtifact) error {
	if err := a.planStore.SaveArtifact(artifact); err != nil {
		return fmt.Errorf("failed to save plan artifact: %w", err)
	}

	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal plan artifact: %w", err)
	}
	if _, err := a.planRepo.Save(ctx, DefaultUserID, data); err != nil {
		log.Printf("Warning: failed to save plan history: %v", err)
	}
	return nil
}

// mirrorCorpus refreshes the SQLite mirror of the corpus. Best effort; the
// CSV stays authoritative.
func (a *App) mirrorCorpus(ctx context.Context, records []recipe.Record) {
	for _, rec := range records {
		if err := a.recipeRepo.Save(ctx, rec); err != nil {
			log.Printf("Warning: failed to mirror recipe %q: %v", rec.Title, err)
			return
		}
	}
}
