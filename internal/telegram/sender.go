package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/chatexport/internal/config"
)

// SendLongMessage sends a potentially long message, splitting it into parts if needed.
// Falls back to plain text if Markdown parsing fails.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, replyToID *int) error {
	text = FixMarkdown(text)
	parts := SplitMessage(text, config.MaxTelegramMessageLen)

	for _, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: models.ParseModeMarkdownV1,
		}
		if replyToID != nil {
			params.ReplyParameters = &models.ReplyParameters{
				MessageID: *replyToID,
			}
			replyToID = nil // only reply to first part
		}

		_, err := b.SendMessage(ctx, params)
		if err != nil {
			slog.Warn("markdown send failed, falling back to plain text", "error", err)
			params.ParseMode = ""
			_, err = b.SendMessage(ctx, params)
			if err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}

	return nil
}

// EditMessage replaces the text and keyboard of a sent message.
func EditMessage(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, markup models.ReplyMarkup) error {
	text = FixMarkdown(text)
	if len([]rune(text)) > config.MaxTelegramMessageLen {
		text = string([]rune(text)[:config.MaxTelegramMessageLen-3]) + "..."
	}

	params := &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: markup,
	}
	_, err := b.EditMessageText(ctx, params)
	if err != nil {
		params.ParseMode = ""
		_, err = b.EditMessageText(ctx, params)
	}
	return err
}

// StartChatAction repeats action every 4 seconds until the returned cancel
// function is called.
func StartChatAction(ctx context.Context, b *bot.Bot, chatID int64, action models.ChatAction) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	send := func() {
		b.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: action,
		})
	}
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		send()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				send()
			}
		}
	}()
	return cancel
}

// SendDocument uploads data as a file named name.
func SendDocument(ctx context.Context, b *bot.Bot, chatID int64, name string, data []byte, caption string, replyToID *int) error {
	params := &bot.SendDocumentParams{
		ChatID:    chatID,
		Document:  &models.InputFileUpload{Filename: name, Data: bytes.NewReader(data)},
		Caption:   FixMarkdown(caption),
		ParseMode: models.ParseModeMarkdownV1,
	}
	if replyToID != nil {
		params.ReplyParameters = &models.ReplyParameters{MessageID: *replyToID}
	}

	if _, err := b.SendDocument(ctx, params); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}
