package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"menu-planner/internal/llm"
	"menu-planner/internal/recipe"
	"menu-planner/internal/shared"

	"github.com/PuerkitoBio/goquery"
)

// Clipper fetches a recipe page, extracts a corpus row from it with the LLM,
// and appends the row to the recipe CSV store.
type Clipper struct {
	store      *recipe.CSVStore
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// extractedRecipe mirrors the JSON shape the extraction prompt asks for.
type extractedRecipe struct {
	Title              string `json:"title"`
	KeyIngredients     string `json:"key_ingredients"`
	PrepMinutes        int    `json:"prep_minutes"`
	CookMinutes        int    `json:"cook_minutes"`
	ContainsMeatOrFish string `json:"contains_meat_or_fish"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(store *recipe.CSVStore, textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		store:      store,
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ClipURL fetches the URL, extracts the recipe using the LLM, and appends it
// to the corpus.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*recipe.Record, shared.CallMeta, error) {
	start := time.Now()
	meta := shared.CallMeta{Caller: "Clipper"}

	content, err := c.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe details from the following page content.
"key_ingredients" must be a comma-separated list of the main, most generic ingredients.
"prep_minutes" and "cook_minutes" must be integers (minutes).
"contains_meat_or_fish" must be "Oui" if the recipe contains any meat or fish, otherwise "Non".
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "key_ingredients": "item 1, item 2",
  "prep_minutes": 10,
  "cook_minutes": 25,
  "contains_meat_or_fish": "Non"
}

Page content:
%s
`, content)

	resp, err := c.textGen.GenerateContent(ctx, prompt)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return nil, meta, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return nil, meta, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}

	rec := recipe.Record{
		Title:              strings.TrimSpace(extracted.Title),
		Ingredients:        recipe.SplitIngredients(extracted.KeyIngredients),
		PrepMinutes:        extracted.PrepMinutes,
		CookMinutes:        extracted.CookMinutes,
		ContainsMeatOrFish: recipe.ParseMeatFlag(extracted.ContainsMeatOrFish),
		SourceURL:          url,
	}

	if err := c.store.Append(rec); err != nil {
		return nil, meta, fmt.Errorf("failed to append recipe to corpus: %w", err)
	}

	return &rec, meta, nil
}

func (c *Clipper) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
