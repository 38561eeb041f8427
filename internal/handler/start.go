package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/chatexport/internal/domain"
	"github.com/set-night/chatexport/internal/middleware"
	tg "github.com/set-night/chatexport/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != models.ChatTypePrivate || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	st := h.currentSettings(ctx, update.Message.From.ID)
	if st == nil {
		h.sendText(ctx, b, chatID, "⚠️ Settings are unavailable right now. Please try again later.")
		return
	}

	name := update.Message.From.FirstName
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi, *%s*!\n\n"+
			"I turn saved chat pages into tidy transcripts.\n\n"+
			"📎 Send me a saved page (`.html`) or a link to a shared conversation and I will reply with the export.\n\n"+
			"📋 *Commands:*\n"+
			"/format - Choose the export format\n"+
			"/theme - Accent color for HTML exports\n"+
			"/drive - Also save exports to Google Drive\n"+
			"/usage - Free exports left\n"+
			"/license - Activate a license key\n"+
			"/history - Your recent exports\n\n"+
			"%s",
		tg.EscapeMarkdown(name),
		settingsSummary(st, h.license.FreeLimit()),
	)

	tg.SendLongMessage(ctx, b, chatID, text, nil)
}

func (h *Handler) handleUsage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != models.ChatTypePrivate || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	st := h.currentSettings(ctx, update.Message.From.ID)
	if st == nil {
		h.sendText(ctx, b, chatID, "⚠️ Settings are unavailable right now. Please try again later.")
		return
	}
	h.sendText(ctx, b, chatID, usageLine(st, h.license.FreeLimit()))
}

func settingsSummary(st *domain.UserSettings, freeLimit int64) string {
	drive := "off"
	if st.DriveUpload {
		drive = "on"
	}
	var sb strings.Builder
	sb.WriteString("⚙️ *Current settings*\n")
	fmt.Fprintf(&sb, "Format: *%s*\n", strings.ToUpper(st.Format.Extension()))
	fmt.Fprintf(&sb, "Theme: `%s`\n", st.ThemeColor)
	fmt.Fprintf(&sb, "Drive upload: *%s*\n", drive)
	sb.WriteString(usageLine(st, freeLimit))
	return sb.String()
}

func usageLine(st *domain.UserSettings, freeLimit int64) string {
	if st.Licensed {
		return fmt.Sprintf("🔑 Licensed: unlimited exports (%d so far)", st.UsageCount)
	}
	left := freeLimit - st.UsageCount
	if left < 0 {
		left = 0
	}
	return fmt.Sprintf("🆓 Free exports left: %d of %d", left, freeLimit)
}

// currentSettings returns the settings loaded by middleware, loading them
// directly when middleware could not.
func (h *Handler) currentSettings(ctx context.Context, userID int64) *domain.UserSettings {
	if st := middleware.GetSettings(ctx); st != nil {
		return st
	}
	st, err := h.settings.Load(ctx, userID)
	if err != nil {
		slog.Error("load settings", "error", err, "user_id", userID)
		return nil
	}
	return st
}

func (h *Handler) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if err := tg.SendLongMessage(ctx, b, chatID, text, nil); err != nil {
		slog.Error("send message", "error", err, "chat_id", chatID)
	}
}
