package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"menu-planner/internal/app"
	"menu-planner/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the planning application.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	cfg *config.Config
}

// NewBot initializes the Telegram Bot.
func NewBot(cfg *config.Config, application *app.App) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{api: api, app: application, cfg: cfg}, nil
}

// Run starts long polling and dispatches updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			if b.cfg.TelegramAllowUserID != 0 && update.Message.From.ID != b.cfg.TelegramAllowUserID {
				log.Printf("Ignoring message from unauthorized user %d", update.Message.From.ID)
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	switch {
	case text == "/start":
		b.reply(msg.Chat.ID, "Hi! I plan menus from your recipe corpus.\n"+
			"/plan <days> — generate a plan\n"+
			"/clip <url> — add a recipe from a URL\n"+
			"/inventory <a, b, c> — save your available ingredients\n"+
			"/renarrate — retry narration for the last plan")
	case strings.HasPrefix(text, "/plan"):
		b.handlePlan(ctx, msg, strings.TrimSpace(strings.TrimPrefix(text, "/plan")))
	case strings.HasPrefix(text, "/clip "):
		b.handleClip(ctx, msg, strings.TrimSpace(strings.TrimPrefix(text, "/clip ")))
	case strings.HasPrefix(text, "/inventory "):
		b.handleInventory(ctx, msg, strings.TrimPrefix(text, "/inventory "))
	case text == "/renarrate":
		b.handleRenarrate(ctx, msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Try /start.")
	}
}

func (b *Bot) handlePlan(ctx context.Context, msg *tgbotapi.Message, arg string) {
	days := 7
	if arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil {
			b.reply(msg.Chat.ID, "Usage: /plan <days>")
			return
		}
		days = parsed
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Planning %d days, give me a moment...", days))
	artifact, err := b.app.PlanMenu(ctx, days)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("Planning failed: %v", err))
		return
	}

	if artifact.NarrationComplete {
		b.replyMarkdown(msg.Chat.ID, artifact.Narration)
	} else {
		b.reply(msg.Chat.ID, fmt.Sprintf(
			"Plan is ready but narration failed (%s). Use /renarrate to retry.",
			artifact.NarrationError))
	}
}

func (b *Bot) handleClip(ctx context.Context, msg *tgbotapi.Message, url string) {
	rec, err := b.app.ClipRecipe(ctx, url)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("Clipping failed: %v", err))
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Added %q (%d ingredients) to the corpus.", rec.Title, len(rec.Ingredients)))
}

func (b *Bot) handleInventory(ctx context.Context, msg *tgbotapi.Message, list string) {
	set, err := b.app.SaveInventory(ctx, strings.Split(list, ","))
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("Saving inventory failed: %v", err))
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Saved %d ingredients.", set.Len()))
}

func (b *Bot) handleRenarrate(ctx context.Context, msg *tgbotapi.Message) {
	artifact, err := b.app.RenarratePlan(ctx)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("Renarration failed: %v", err))
		return
	}
	b.replyMarkdown(msg.Chat.ID, artifact.Narration)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (b *Bot) replyMarkdown(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(m); err != nil {
		// Markdown from the narrator can trip Telegram's parser; fall back to plain text.
		log.Printf("Markdown send failed, retrying as plain text: %v", err)
		b.reply(chatID, text)
	}
}
