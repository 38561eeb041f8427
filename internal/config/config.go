package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required,notEmpty"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Timezone    string `env:"TIMEZONE" envDefault:"UTC"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// HTTP API
	APIEnabled bool `env:"API_ENABLED" envDefault:"true"`
	Port       int  `env:"PORT" envDefault:"3000"`

	// Licensing
	LicenseSecret   string `env:"LICENSE_SECRET"`
	FreeExportLimit int64  `env:"FREE_EXPORT_LIMIT" envDefault:"5"`

	// Rate limiting; disabled without Redis
	RedisURL           string `env:"REDIS_URL"`
	RateLimitPerMinute int64  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`

	// Export events; disabled without NATS
	NatsURL string `env:"NATS_URL"`

	// Google Drive upload; disabled without credentials
	DriveCredentialsFile string `env:"GOOGLE_DRIVE_CREDENTIALS_FILE"`
	DriveFolderID        string `env:"GOOGLE_DRIVE_FOLDER_ID"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicExport    int   `env:"LOG_TOPIC_EXPORT"`
	LogTopicLicense   int   `env:"LOG_TOPIC_LICENSE"`
}

// Load reads .env (if present) and then the process environment. Variables
// already set in the environment win over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.FreeExportLimit < 0 {
		return nil, fmt.Errorf("parse config: FREE_EXPORT_LIMIT must not be negative")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("parse config: TIMEZONE: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// Location returns the zone used to print export times.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) DriveEnabled() bool     { return c.DriveCredentialsFile != "" }
func (c *Config) LicensingEnabled() bool { return c.LicenseSecret != "" }
