package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/chatexport/internal/domain"
	tg "github.com/set-night/chatexport/internal/telegram"
)

const licensingUnavailable = "🔑 Licensing is not available on this bot."

// commandArg returns the text after the command word.
func commandArg(text string) string {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (h *Handler) handleLicense(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.Chat.Type != models.ChatTypePrivate || msg.From == nil {
		return
	}

	if !h.cfg.LicensingEnabled() {
		h.sendText(ctx, b, msg.Chat.ID, licensingUnavailable)
		return
	}

	key := commandArg(msg.Text)
	if key == "" {
		h.sendText(ctx, b, msg.Chat.ID, "🔑 Usage: /license <key>")
		return
	}

	err := h.license.Activate(ctx, msg.From.ID, key)
	switch {
	case err == nil:
		h.sendText(ctx, b, msg.Chat.ID, "✅ License activated. Exports are now unlimited.")
		h.tgLogger.LogLicenseActivated(msg.From.ID, msg.From.Username)
	case errors.Is(err, domain.ErrInvalidLicense):
		slog.Info("license rejected", "user_id", msg.From.ID, "error", err)
		h.sendText(ctx, b, msg.Chat.ID, "❌ This license key is not valid for your account.")
	default:
		slog.Error("activate license", "error", err, "user_id", msg.From.ID)
		h.tgLogger.LogError(err, "activate license")
		h.sendText(ctx, b, msg.Chat.ID, "❌ Could not activate the license. Please try again later.")
	}
}

// handleIssue lets admins mint a license key for a Telegram user id.
func (h *Handler) handleIssue(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || !h.cfg.IsAdmin(msg.From.ID) {
		return
	}
	if !h.cfg.LicensingEnabled() {
		h.sendText(ctx, b, msg.Chat.ID, licensingUnavailable)
		return
	}

	userID, err := strconv.ParseInt(commandArg(msg.Text), 10, 64)
	if err != nil || userID <= 0 {
		h.sendText(ctx, b, msg.Chat.ID, "Usage: /issue <telegram id>")
		return
	}

	key, err := h.license.IssueKey(userID)
	if err != nil {
		h.sendText(ctx, b, msg.Chat.ID, fmt.Sprintf("❌ %s", err))
		return
	}
	h.sendText(ctx, b, msg.Chat.ID, issuedKeyText(userID, key, h.botUsername))
}

func issuedKeyText(userID int64, key, botUsername string) string {
	return fmt.Sprintf("🔑 License for `%d`:\n\n`%s`\n\nThe user activates it by sending `/license <key>` to @%s.",
		userID, key, tg.EscapeMarkdown(botUsername))
}
