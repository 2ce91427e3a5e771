package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"menu-planner/internal/planner"
)

// File names inside the artifact directory. Each save overwrites the
// previous run's files; last write wins.
const (
	planMarkdownFile = "weekly_meal_plan.md"
	shoppingListFile = "weekly_shopping_list.md"
	planJSONFile     = "weekly_meal_plan.json"
)

// PlanStore writes the final plan artifact to flat files: the narration
// markdown, the shopping list, and a structured JSON snapshot that lets a
// later run retry narration without recomputing selection.
type PlanStore struct {
	basePath string
}

// NewPlanStore creates a PlanStore and ensures the base directory exists.
func NewPlanStore(basePath string) (*PlanStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory %s: %w", basePath, err)
	}
	return &PlanStore{basePath: basePath}, nil
}

// SaveArtifact writes all artifact files for the given plan.
func (s *PlanStore) SaveArtifact(artifact planner.PlanArtifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan artifact: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.basePath, planJSONFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write plan snapshot: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.basePath, planMarkdownFile), []byte(planMarkdown(artifact)), 0644); err != nil {
		return fmt.Errorf("failed to write plan markdown: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.basePath, shoppingListFile), []byte(shoppingMarkdown(artifact)), 0644); err != nil {
		return fmt.Errorf("failed to write shopping list: %w", err)
	}
	return nil
}

// LoadArtifact reads back the structured snapshot of the last saved plan.
func (s *PlanStore) LoadArtifact() (*planner.PlanArtifact, error) {
	data, err := os.ReadFile(filepath.Join(s.basePath, planJSONFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read plan snapshot: %w", err)
	}

	var artifact planner.PlanArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan snapshot: %w", err)
	}
	return &artifact, nil
}

// planMarkdown renders the plan document. A complete narration is stored
// verbatim; an incomplete one falls back to a plain table built from the
// structured request, with the failure noted.
func planMarkdown(artifact planner.PlanArtifact) string {
	if artifact.NarrationComplete {
		return artifact.Narration
	}

	var sb strings.Builder
	sb.WriteString("# Weekly Meal Plan\n\n")
	sb.WriteString(fmt.Sprintf("_Narration unavailable (%s); raw plan below._\n\n", artifact.NarrationError))
	sb.WriteString("| Day | Recipe | Prep (min) | Cook (min) | Missing ingredients |\n")
	sb.WriteString("| :-- | :-- | --: | --: | :-- |\n")
	for _, day := range artifact.Request.Days {
		title := day.Title
		if day.SourceURL != "" {
			title = fmt.Sprintf("[%s](%s)", day.Title, day.SourceURL)
		}
		missing := "none"
		if len(day.MissingIngredients) > 0 {
			missing = strings.Join(day.MissingIngredients, ", ")
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %d | %d | %s |\n",
			day.Day, title, day.PrepMinutes, day.CookMinutes, missing))
	}
	return sb.String()
}

func shoppingMarkdown(artifact planner.PlanArtifact) string {
	var sb strings.Builder
	sb.WriteString("# Shopping List\n\n")
	if len(artifact.Request.ShoppingList) == 0 {
		sb.WriteString("Nothing to buy, the pantry covers the whole plan.\n")
		return sb.String()
	}
	for _, item := range artifact.Request.ShoppingList {
		sb.WriteString(fmt.Sprintf("- %s\n", item))
	}
	return sb.String()
}
