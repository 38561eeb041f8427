package domain

import "errors"

var (
	ErrNoElementsFound     = errors.New("no conversation found on this page")
	ErrNoMessagesExtracted = errors.New("no readable messages found on this page")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrInvalidThemeColor   = errors.New("invalid theme color")
	ErrFreeLimitReached    = errors.New("free export limit reached")
	ErrInvalidLicense      = errors.New("invalid license key")
	ErrPageTooLarge        = errors.New("page too large")
	ErrLicensingDisabled   = errors.New("licensing is not configured")
	ErrFetchFailed         = errors.New("page could not be downloaded")
	ErrInvalidPage         = errors.New("page markup could not be parsed")
)
