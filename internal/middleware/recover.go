package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrorReporter receives recovered panics.
type ErrorReporter interface {
	LogError(err error, context string)
}

// Recover returns middleware that recovers from panics and reports them.
func Recover(reporter ErrorReporter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					src := sourceOf(update)
					slog.Error("panic recovered in handler",
						"panic", r,
						"update_type", src.kind,
						"user_id", src.userID(),
						"stack", string(debug.Stack()),
					)
					if reporter != nil {
						reporter.LogError(fmt.Errorf("panic: %v", r), fmt.Sprintf("%s from %d", src.kind, src.userID()))
					}
				}
			}()
			next(ctx, b, update)
		}
	}
}
