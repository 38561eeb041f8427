package handler

import (
	"github.com/go-telegram/bot"

	"github.com/set-night/chatexport/internal/config"
	"github.com/set-night/chatexport/internal/service"
	"github.com/set-night/chatexport/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot         *bot.Bot
	cfg         *config.Config
	settings    *service.SettingsService
	license     *service.LicenseService
	exports     *service.ExportService
	tgLogger    *telegram.TelegramLogger
	botUsername string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot         *bot.Bot
	Cfg         *config.Config
	Settings    *service.SettingsService
	License     *service.LicenseService
	Exports     *service.ExportService
	TgLogger    *telegram.TelegramLogger
	BotUsername string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:         deps.Bot,
		cfg:         deps.Cfg,
		settings:    deps.Settings,
		license:     deps.License,
		exports:     deps.Exports,
		tgLogger:    deps.TgLogger,
		botUsername: deps.BotUsername,
	}
}
