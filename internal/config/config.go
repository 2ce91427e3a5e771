package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the configuration for the application. All knobs come from
// the environment; the planning core itself takes no configuration.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	FilesDir             string
	RecipesCSVPath       string
	InventoryCSVPath     string
	InventoryJSONPath    string
	DatabasePath         string
	CategorizerCachePath string

	// Telegram Config (optional for CLI, required for the bot)
	TelegramBotToken    string
	TelegramAllowUserID int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.5-flash"
	}

	filesDir := os.Getenv("FILES_DIR")
	if filesDir == "" {
		filesDir = "files"
	}

	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	var telegramAllowUserID int64
	if v := os.Getenv("TELEGRAM_ALLOW_USER_ID"); v != "" {
		fmt.Sscanf(v, "%d", &telegramAllowUserID)
	}

	return &Config{
		GeminiAPIKey:         geminiAPIKey,
		GeminiModel:          geminiModel,
		FilesDir:             filesDir,
		RecipesCSVPath:       filepath.Join(filesDir, "recipes.csv"),
		InventoryCSVPath:     filepath.Join(filesDir, "available_ingredients.csv"),
		InventoryJSONPath:    filepath.Join(filesDir, "categorized_available_ingredients.json"),
		DatabasePath:         filepath.Join(filesDir, "menu-planner.db"),
		CategorizerCachePath: filepath.Join(filesDir, "categorized_ingredients_cache.json"),
		TelegramBotToken:     telegramBotToken,
		TelegramAllowUserID:  telegramAllowUserID,
	}, nil
}
