package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	chatexport "github.com/set-night/chatexport"
	"github.com/set-night/chatexport/internal/api"
	"github.com/set-night/chatexport/internal/config"
	"github.com/set-night/chatexport/internal/events"
	"github.com/set-night/chatexport/internal/extractor"
	"github.com/set-night/chatexport/internal/handler"
	"github.com/set-night/chatexport/internal/middleware"
	"github.com/set-night/chatexport/internal/ratelimit"
	"github.com/set-night/chatexport/internal/repository"
	"github.com/set-night/chatexport/internal/service"
	"github.com/set-night/chatexport/internal/storage"
	"github.com/set-night/chatexport/internal/telegram"
)

// reporterFunc adapts a function to middleware.ErrorReporter.
type reporterFunc func(err error, where string)

func (f reporterFunc) LogError(err error, where string) { f(err, where) }

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL, repository.PoolOptions{})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(chatexport.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	settingsRepo := repository.NewSettingsRepo(pool)
	exportRepo := repository.NewExportRepo(pool)

	// Optional infrastructure
	var limiter middleware.Allower
	if cfg.RedisURL != "" {
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		limiter = ratelimit.New(rdb, cfg.RateLimitPerMinute, config.RateLimitWindow)
	} else {
		slog.Warn("REDIS_URL not set, rate limiting disabled")
	}

	var publisher service.Publisher
	if cfg.NatsURL != "" {
		nc, err := events.NewClient(cfg.NatsURL, slog.Default())
		if err != nil {
			slog.Error("failed to connect to nats", "error", err)
			os.Exit(1)
		}
		defer nc.Close()
		publisher = nc
	}

	var uploader service.Uploader
	if cfg.DriveEnabled() {
		du, err := storage.NewDriveUploader(ctx, cfg.DriveCredentialsFile, cfg.DriveFolderID)
		if err != nil {
			slog.Error("failed to init google drive", "error", err)
			os.Exit(1)
		}
		uploader = du
	}

	// Initialize services
	ext := extractor.New()
	settingsService := service.NewSettingsService(settingsRepo)
	licenseService := service.NewLicenseService(settingsRepo, cfg.LicenseSecret, cfg.FreeExportLimit)
	exportService := service.NewExportService(service.ExportDeps{
		Extractor: ext,
		Settings:  settingsService,
		License:   licenseService,
		Exports:   exportRepo,
		Uploader:  uploader,
		Publisher: publisher,
		Location:  cfg.Location(),
	})

	// Handler and logger pointers for use in closures created before the bot
	var (
		h        *handler.Handler
		tgLogger *telegram.TelegramLogger
	)

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(reporterFunc(func(err error, where string) {
				tgLogger.LogError(err, where)
			})),
			middleware.Logging(),
			middleware.RateLimit(limiter),
			middleware.SettingsLoader(settingsService),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil || update.Message.Chat.Type != models.ChatTypePrivate {
				return
			}
			h.HandleUnknown(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	// Initialize telegram logger
	tgLogger = telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:         b,
		Cfg:         cfg,
		Settings:    settingsService,
		License:     licenseService,
		Exports:     exportService,
		TgLogger:    tgLogger,
		BotUsername: me.Username,
	})

	// Register all handlers
	h.Register()

	// Start HTTP API
	if cfg.APIEnabled {
		srv := api.NewServer(cfg.Port, ext, cfg.Location())
		go func() {
			if err := srv.Start(ctx); err != nil {
				slog.Error("api server stopped", "error", err)
			}
		}()
	}

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
