package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

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
	"menu-planner/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer geminiClient.Close()
	textGen := llm.WithRetry(geminiClient, 5, time.Second)

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheStore, err := cache.Open(cfg.CategorizerCachePath)
	if err != nil {
		log.Fatalf("Failed to open categorizer cache: %v", err)
	}

	planStore, err := storage.NewPlanStore(cfg.FilesDir)
	if err != nil {
		log.Fatalf("Failed to initialize plan store: %v", err)
	}

	corpus := recipe.NewCSVStore(cfg.RecipesCSVPath)
	application := app.NewApp(
		cfg,
		corpus,
		planStore,
		narrator.NewNarrator(textGen),
		categorizer.NewCategorizer(textGen, cacheStore),
		clipper.NewClipper(corpus, textGen),
		metrics.NewStore(db.SQL),
		recipe.NewRepository(db.SQL),
		planner.NewPlanRepository(db.SQL),
	)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		days := planCmd.Int("days", 7, "Number of days to plan")
		planCmd.Parse(os.Args[2:])

		artifact, err := application.PlanMenu(ctx, *days)
		if err != nil {
			log.Fatalf("Planning failed: %v", err)
		}
		if artifact.NarrationComplete {
			fmt.Println(artifact.Narration)
		} else {
			fmt.Printf("Plan generated, but narration failed: %s\n", artifact.NarrationError)
			fmt.Println("The structured plan was saved; run 'renarrate' to retry.")
		}
	case "renarrate":
		artifact, err := application.RenarratePlan(ctx)
		if err != nil {
			log.Fatalf("Renarration failed: %v", err)
		}
		fmt.Println(artifact.Narration)
	case "clip":
		if len(os.Args) < 3 {
			log.Fatal("Usage: menu-planner clip <url>")
		}
		rec, err := application.ClipRecipe(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Clipping failed: %v", err)
		}
		fmt.Printf("Added %q (%d ingredients) to the corpus.\n", rec.Title, len(rec.Ingredients))
	case "ingredients":
		categories, err := application.IngredientChoices(ctx)
		if err != nil {
			log.Fatalf("Failed to list ingredients: %v", err)
		}
		for category, ingredients := range categories {
			fmt.Printf("\n[%s]\n", category)
			for _, ing := range ingredients {
				fmt.Printf("  - %s\n", ing)
			}
		}
	case "inventory":
		if len(os.Args) < 3 {
			log.Fatal("Usage: menu-planner inventory \"ingredient, ingredient, ...\"")
		}
		set, err := application.SaveInventory(ctx, splitList(os.Args[2]))
		if err != nil {
			log.Fatalf("Saving inventory failed: %v", err)
		}
		fmt.Printf("Saved %d ingredients.\n", set.Len())
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metrics.NewStore(db.SQL).Cleanup(ctx, *days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func printUsage() {
	fmt.Println("Usage: menu-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan -days N       Generate an N-day menu plan")
	fmt.Println("  renarrate          Retry narration for the last saved plan")
	fmt.Println("  clip <url>         Extract a recipe from a URL into the corpus")
	fmt.Println("  ingredients        Show corpus ingredients grouped by category")
	fmt.Println("  inventory <list>   Save the comma-separated available ingredients")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
