package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/chatexport/internal/domain"
)

type ctxKey string

const SettingsKey ctxKey = "settings"

// SettingsSource loads a user's settings.
type SettingsSource interface {
	Load(ctx context.Context, userID int64) (*domain.UserSettings, error)
}

// GetSettings extracts the sender's settings from context.
func GetSettings(ctx context.Context) *domain.UserSettings {
	s, ok := ctx.Value(SettingsKey).(*domain.UserSettings)
	if !ok {
		return nil
	}
	return s
}

// WithSettings stores settings in ctx.
func WithSettings(ctx context.Context, s *domain.UserSettings) context.Context {
	return context.WithValue(ctx, SettingsKey, s)
}

// SettingsLoader returns middleware that loads the sender's settings into
// context. Private chats only; other updates pass through untouched.
func SettingsLoader(settings SettingsSource) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			src := sourceOf(update)
			if src.from == nil || src.chatType != models.ChatTypePrivate {
				next(ctx, b, update)
				return
			}

			st, err := settings.Load(ctx, src.from.ID)
			if err != nil {
				slog.Error("load settings", "error", err, "user_id", src.from.ID)
			} else {
				ctx = WithSettings(ctx, st)
			}

			next(ctx, b, update)
		}
	}
}
