package categorizer

import (
	"bytes"
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"menu-planner/internal/cache"
	"menu-planner/internal/llm"
	"menu-planner/internal/shared"
)

//go:embed categorizer_prompt.md
var categorizerPrompt string

// Categorizer groups raw ingredient names into shopping categories via the
// LLM. Results are memoized through the injected cache, so the model is
// called at most once per unique ingredient set.
type Categorizer struct {
	textGen llm.TextGenerator
	cache   *cache.Store
}

// NewCategorizer creates a Categorizer.
func NewCategorizer(textGen llm.TextGenerator, cacheStore *cache.Store) *Categorizer {
	return &Categorizer{textGen: textGen, cache: cacheStore}
}

type promptData struct {
	Ingredients string
}

// rawResult mirrors the JSON shape the prompt asks for.
type rawResult struct {
	Categories []struct {
		CategoryName string   `json:"category_name"`
		Ingredients  []string `json:"ingredients"`
	} `json:"categories"`
}

// Categorize returns a mapping from category name to ingredient names. Every
// input ingredient appears in exactly one category. On a cache hit the
// returned CallMeta carries zero usage.
func (c *Categorizer) Categorize(ctx context.Context, ingredients []string) (map[string][]string, shared.CallMeta, error) {
	meta := shared.CallMeta{Caller: "Categorizer"}
	if len(ingredients) == 0 {
		return map[string][]string{}, meta, nil
	}

	sorted := make([]string, len(ingredients))
	copy(sorted, ingredients)
	sort.Strings(sorted)
	key := cacheKey(sorted)

	start := time.Now()
	value, hit, err := c.cache.GetOrCompute(key, func() ([]byte, error) {
		prompt, err := buildPrompt(promptData{Ingredients: strings.Join(sorted, ", ")})
		if err != nil {
			return nil, err
		}

		resp, err := c.textGen.GenerateContent(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("failed to categorize ingredients: %w", err)
		}
		meta.Usage = resp.Usage

		var raw rawResult
		if err := json.Unmarshal([]byte(resp.Content), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse categorizer JSON: %w. Response: %s", err, resp.Content)
		}

		categories := make(map[string][]string, len(raw.Categories))
		for _, cat := range raw.Categories {
			categories[cat.CategoryName] = cat.Ingredients
		}
		return json.Marshal(categories)
	})
	if err != nil {
		return nil, meta, err
	}
	if !hit {
		meta.Latency = time.Since(start)
	}

	var categories map[string][]string
	if err := json.Unmarshal(value, &categories); err != nil {
		return nil, meta, fmt.Errorf("failed to unmarshal cached categories: %w", err)
	}
	return categories, meta, nil
}

func cacheKey(sortedIngredients []string) string {
	sum := sha256.Sum256([]byte(strings.Join(sortedIngredients, "\x00")))
	return hex.EncodeToString(sum[:])
}

func buildPrompt(data promptData) (string, error) {
	tmpl, err := template.New("Categorizer").Parse(categorizerPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
