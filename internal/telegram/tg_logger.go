package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"

	"github.com/set-night/chatexport/internal/config"
	"github.com/set-night/chatexport/internal/domain"
)

// TelegramLogger mirrors operational events to topics of a log chat.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError   LogType = "error"
	LogTypeExport  LogType = "export"
	LogTypeLicense LogType = "license"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		EscapeMarkdown(context), err.Error(), time.Now().UTC().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogExport(rec *domain.ExportRecord) {
	msg := fmt.Sprintf("📄 *Export*\n\n*User:* `%d`\n*Title:* %s\n*Format:* %s\n*Messages:* %d",
		rec.UserID, EscapeMarkdown(rec.Title), rec.Format, rec.MessageCount)
	if rec.DriveFileID != nil {
		msg += "\n*Drive:* uploaded"
	}
	l.Log(LogTypeExport, msg)
}

func (l *TelegramLogger) LogLicenseActivated(telegramID int64, username string) {
	msg := fmt.Sprintf("🔑 *License Activated*\n\n*User:* `%d`", telegramID)
	if username != "" {
		msg += "\n*Username:* @" + EscapeMarkdown(username)
	}
	l.Log(LogTypeLicense, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeExport:
		return l.cfg.LogTopicExport
	case LogTypeLicense:
		return l.cfg.LogTopicLicense
	default:
		return 0
	}
}
