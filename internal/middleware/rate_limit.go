package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Allower decides whether a chat may be served right now.
type Allower interface {
	Allow(ctx context.Context, id int64) (bool, error)
}

// RateLimit returns middleware that enforces a per-chat request limit on
// messages. Limiter errors let the update through.
func RateLimit(limiter Allower) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil || limiter == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID

			ok, err := limiter.Allow(ctx, chatID)
			if err != nil {
				slog.Error("rate limit check failed", "error", err, "chat_id", chatID)
				next(ctx, b, update)
				return
			}
			if !ok {
				slog.Debug("rate limited", "chat_id", chatID)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Too many requests. Please wait a minute.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
