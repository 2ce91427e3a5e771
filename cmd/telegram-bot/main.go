package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
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
	"menu-planner/internal/telegram"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable not set")
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

	bot, err := telegram.NewBot(cfg, application)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram bot: %v", err)
	}

	log.Println("Telegram bot is running. Press Ctrl+C to stop.")
	if err := bot.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot stopped: %v", err)
	}
	log.Println("Shutting down.")
}
