package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/chatexport/internal/config"
	"github.com/set-night/chatexport/internal/domain"
	"github.com/set-night/chatexport/internal/service"
	tg "github.com/set-night/chatexport/internal/telegram"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// extractURL returns the first http(s) link in text, or "".
func extractURL(text string) string {
	return strings.TrimRight(urlPattern.FindString(text), ".,;:!?)]}'")
}

func (h *Handler) handleDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.Chat.Type != models.ChatTypePrivate || msg.From == nil {
		return
	}
	if !tg.IsHTMLDocument(msg.Document) {
		h.sendText(ctx, b, msg.Chat.ID, "📎 Please send the page saved as `.html` (in the browser: Save Page As, Webpage HTML only).")
		return
	}

	stop := tg.StartChatAction(ctx, b, msg.Chat.ID, models.ChatActionUploadDocument)
	defer stop()

	data, err := tg.DownloadFile(ctx, b, msg.Document.FileID, config.MaxTelegramFileSize)
	if err != nil {
		h.replyExportError(ctx, b, msg, err)
		return
	}

	res, err := h.exports.Export(ctx, service.ExportRequest{
		UserID: msg.From.ID,
		HTML:   bytes.NewReader(data),
		Title:  strings.TrimSpace(msg.Caption),
	})
	h.deliver(ctx, b, msg, res, err)
}

func (h *Handler) handleLink(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.Chat.Type != models.ChatTypePrivate || msg.From == nil {
		return
	}

	stop := tg.StartChatAction(ctx, b, msg.Chat.ID, models.ChatActionUploadDocument)
	defer stop()

	res, err := h.exports.ExportURL(ctx, service.ExportRequest{UserID: msg.From.ID}, extractURL(msg.Text))
	h.deliver(ctx, b, msg, res, err)
}

func (h *Handler) deliver(ctx context.Context, b *bot.Bot, msg *models.Message, res *service.ExportResult, err error) {
	if err != nil {
		h.replyExportError(ctx, b, msg, err)
		return
	}

	replyTo := msg.ID
	if err := tg.SendDocument(ctx, b, msg.Chat.ID, res.File.Name, res.File.Data, exportCaption(res), &replyTo); err != nil {
		slog.Error("send export", "error", err, "user_id", msg.From.ID)
		h.tgLogger.LogError(err, "send export document")
		h.sendText(ctx, b, msg.Chat.ID, "❌ The export is ready but Telegram refused the file. Try another format with /format.")
		return
	}
	h.tgLogger.LogExport(res.Record)
}

func (h *Handler) replyExportError(ctx context.Context, b *bot.Bot, msg *models.Message, err error) {
	text, unexpected := exportErrorText(err)
	if unexpected {
		slog.Error("export failed", "error", err, "user_id", msg.From.ID)
		h.tgLogger.LogError(err, fmt.Sprintf("export for %d", msg.From.ID))
	}
	h.sendText(ctx, b, msg.Chat.ID, text)
}

// exportErrorText maps an export failure to a user-facing message. The
// second return value is true for failures that are not the user's doing.
func exportErrorText(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrNoElementsFound):
		return "🤷 This page is not supported: no conversation was found on it. Make sure the chat is fully loaded before saving the page.", false
	case errors.Is(err, domain.ErrNoMessagesExtracted):
		return "🤷 I found the conversation but no readable messages in it. The page may still be loading or the messages are images.", false
	case errors.Is(err, domain.ErrInvalidPage):
		return "🤷 I could not read this file as a web page. Save the chat again with Save Page As (Webpage HTML only) and resend it.", false
	case errors.Is(err, domain.ErrFreeLimitReached):
		return "🔒 You have used all free exports. Activate a license with /license <key> to keep exporting.", false
	case errors.Is(err, domain.ErrPageTooLarge):
		return "📦 The page is too large to export.", false
	case errors.Is(err, domain.ErrFetchFailed):
		return "🌐 I could not download that link. Shared conversations must be public; otherwise save the page and send the file.", false
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "❓ That export format is not supported. Pick one with /format.", false
	default:
		return "❌ Something went wrong while exporting. Please try again later.", true
	}
}

func exportCaption(res *service.ExportResult) string {
	conv := res.Conversation
	caption := fmt.Sprintf("✅ *%s*\n💬 %d messages (👤 %d, 🤖 %d)",
		tg.EscapeMarkdown(conv.Title),
		len(conv.Messages),
		conv.CountByRole(domain.RoleUser),
		conv.CountByRole(domain.RoleAssistant),
	)
	switch {
	case res.Record.DriveFileID != nil:
		caption += "\n☁️ Saved to Google Drive"
	case res.DriveErr != nil:
		caption += "\n⚠️ Google Drive upload failed"
	}
	return caption
}
