package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/chatexport/internal/config"
	tg "github.com/set-night/chatexport/internal/telegram"
)

func (h *Handler) handleFormat(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != models.ChatTypePrivate || update.Message.From == nil {
		return
	}
	st := h.currentSettings(ctx, update.Message.From.ID)
	if st == nil {
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "📄 Choose the export format:",
		ReplyMarkup: tg.FormatKeyboard(st.Format),
	})
}

func (h *Handler) handleFormatSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	cq := update.CallbackQuery
	raw := strings.TrimPrefix(cq.Data, tg.CallbackFormat)

	f, err := h.settings.SetFormat(ctx, cq.From.ID, raw)
	if err != nil {
		slog.Error("set format", "error", err, "user_id", cq.From.ID)
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID, Text: "Could not save the format"})
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: cq.ID,
		Text:            fmt.Sprintf("Format: %s", strings.ToUpper(f.Extension())),
	})

	chatID, messageID := callbackChat(update)
	if chatID != 0 {
		tg.EditMessage(ctx, b, chatID, messageID, "📄 Choose the export format:", tg.FormatKeyboard(f))
	}
}

func (h *Handler) handleTheme(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != models.ChatTypePrivate || update.Message.From == nil {
		return
	}
	st := h.currentSettings(ctx, update.Message.From.ID)
	if st == nil {
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "🎨 Pick an accent color for HTML exports:",
		ReplyMarkup: tg.ThemeKeyboard(config.ThemeColors, st.ThemeColor),
	})
}

func (h *Handler) handleThemeSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	cq := update.CallbackQuery
	color := "#" + strings.TrimPrefix(cq.Data, tg.CallbackTheme)

	if err := h.settings.SetThemeColor(ctx, cq.From.ID, color); err != nil {
		slog.Error("set theme", "error", err, "user_id", cq.From.ID)
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID, Text: "Could not save the color"})
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID, Text: "Theme: " + color})

	chatID, messageID := callbackChat(update)
	if chatID != 0 {
		tg.EditMessage(ctx, b, chatID, messageID, "🎨 Pick an accent color for HTML exports:", tg.ThemeKeyboard(config.ThemeColors, color))
	}
}

func (h *Handler) handleDrive(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != models.ChatTypePrivate || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if !h.cfg.DriveEnabled() {
		h.sendText(ctx, b, chatID, "☁️ Google Drive upload is not available on this bot.")
		return
	}
	st := h.currentSettings(ctx, update.Message.From.ID)
	if st == nil {
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "☁️ When enabled, every export is also saved to Google Drive as Markdown.",
		ReplyMarkup: tg.DriveKeyboard(st.DriveUpload),
	})
}

func (h *Handler) handleDriveToggle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	cq := update.CallbackQuery

	enabled, err := h.settings.ToggleDrive(ctx, cq.From.ID)
	if err != nil {
		slog.Error("toggle drive", "error", err, "user_id", cq.From.ID)
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID, Text: "Could not save the setting"})
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})

	chatID, messageID := callbackChat(update)
	if chatID != 0 {
		tg.EditMessage(ctx, b, chatID, messageID, "☁️ When enabled, every export is also saved to Google Drive as Markdown.", tg.DriveKeyboard(enabled))
	}
}
