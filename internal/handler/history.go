package handler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/chatexport/internal/config"
	"github.com/set-night/chatexport/internal/domain"
	tg "github.com/set-night/chatexport/internal/telegram"
)

func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.Chat.Type != models.ChatTypePrivate || msg.From == nil {
		return
	}
	h.sendHistoryPage(ctx, b, msg.Chat.ID, msg.From.ID, 0, 0)
}

func (h *Handler) handleHistoryPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	cq := update.CallbackQuery
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})

	page, err := strconv.Atoi(strings.TrimPrefix(cq.Data, tg.CallbackHistory+"_"))
	if err != nil {
		return
	}
	chatID, messageID := callbackChat(update)
	if chatID == 0 {
		return
	}
	h.sendHistoryPage(ctx, b, chatID, cq.From.ID, page, messageID)
}

// sendHistoryPage sends a page of exports, editing messageID when it is set.
func (h *Handler) sendHistoryPage(ctx context.Context, b *bot.Bot, chatID, userID int64, page, messageID int) {
	recs, total, err := h.exports.History(ctx, userID, page, config.HistoryPerPage)
	if err != nil {
		slog.Error("list exports", "error", err, "user_id", userID)
		h.sendText(ctx, b, chatID, "❌ Could not load your history. Please try again later.")
		return
	}
	if total == 0 {
		h.sendText(ctx, b, chatID, "🗂 No exports yet. Send me a saved chat page to start.")
		return
	}

	totalPages := int(math.Ceil(float64(total) / float64(config.HistoryPerPage)))
	text := historyText(recs, total, page*config.HistoryPerPage, h.cfg.Location())
	markup := tg.InlineKeyboard(tg.PaginationRow(page, totalPages, tg.CallbackHistory))

	if messageID != 0 {
		tg.EditMessage(ctx, b, chatID, messageID, text, markup)
		return
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: markup,
	})
}

func historyText(recs []domain.ExportRecord, total, offset int, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗂 *Your exports* (%d)\n\n", total)
	for i, r := range recs {
		fmt.Fprintf(&sb, "%d. *%s*\n", offset+i+1, tg.EscapeMarkdown(r.Title))
		fmt.Fprintf(&sb, "    %s · %d messages · %s",
			strings.ToUpper(r.Format.Extension()),
			r.MessageCount,
			r.CreatedAt.In(loc).Format("02.01.2006 15:04"),
		)
		if r.DriveFileID != nil {
			sb.WriteString(" · ☁️")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
