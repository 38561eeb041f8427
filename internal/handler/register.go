package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	tg "github.com/set-night/chatexport/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/format", bot.MatchTypePrefix, h.handleFormat)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/theme", bot.MatchTypePrefix, h.handleTheme)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/drive", bot.MatchTypePrefix, h.handleDrive)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/usage", bot.MatchTypePrefix, h.handleUsage)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/license", bot.MatchTypePrefix, h.handleLicense)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/issue", bot.MatchTypePrefix, h.handleIssue)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)

	// Settings callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackFormat, bot.MatchTypePrefix, h.handleFormatSelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackTheme, bot.MatchTypePrefix, h.handleThemeSelect)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackDrive, bot.MatchTypeExact, h.handleDriveToggle)

	// History callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackHistory+"_", bot.MatchTypePrefix, h.handleHistoryPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackNoop, bot.MatchTypeExact, h.handleNoop)

	// Export triggers
	h.bot.RegisterHandlerMatchFunc(isPageDocument, h.handleDocument)
	h.bot.RegisterHandlerMatchFunc(isPageLink, h.handleLink)
}

func isPageDocument(update *models.Update) bool {
	return update.Message != nil && update.Message.Document != nil
}

func isPageLink(update *models.Update) bool {
	if update.Message == nil || update.Message.Document != nil {
		return false
	}
	text := update.Message.Text
	if len(text) > 0 && text[0] == '/' {
		return false
	}
	return extractURL(text) != ""
}

// handleNoop is a no-op callback handler used for pagination indicators and other
// non-interactive inline buttons. It simply acknowledges the callback query.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}

// callbackChat returns the chat and message a callback button belongs to.
func callbackChat(update *models.Update) (chatID int64, messageID int) {
	if msg := update.CallbackQuery.Message.Message; msg != nil {
		return msg.Chat.ID, msg.ID
	}
	return 0, 0
}

// HandleUnknown answers private messages no other handler matched.
func (h *Handler) HandleUnknown(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.sendText(ctx, b, update.Message.Chat.ID, "📎 Send me a saved chat page (`.html`) or a link to a shared conversation. See /help for commands.")
}
