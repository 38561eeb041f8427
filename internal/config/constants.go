package config

import "time"

const (
	// Page fetching
	FetchTimeout = 30 * time.Second
	MaxPageSize  = 10 << 20

	// Google Drive upload retries
	DriveRetryAttempts = 3
	DriveRetryDelay    = 2 * time.Second

	// Licensing
	LicenseTTL  = 365 * 24 * time.Hour
	LicensePlan = "pro"

	// Rate limit window
	RateLimitWindow = time.Minute

	// Telegram limits
	MaxTelegramMessageLen = 4096
	MaxTelegramFileSize   = 20 << 20

	// Exports per /history page
	HistoryPerPage = 5

	// HTTP server
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// ThemeColors offered by the /theme picker.
var ThemeColors = []string{"#2196F3", "#4CAF50", "#FF5722", "#9C27B0", "#607D8B", "#E91E63"}
