package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/set-night/chatexport/internal/domain"
)

// Setting keys persisted per user.
const (
	KeyExportFormat  = "export_format"
	KeyThemeColor    = "theme_color"
	KeyDriveUpload   = "drive_upload"
	KeyLicenseStatus = "license_status"
	KeyUsageCount    = "usage_count"
)

const licenseActive = "active"

// KVStore is a per-user key-value store.
type KVStore interface {
	Get(ctx context.Context, userID int64, key string) (string, bool, error)
	GetAll(ctx context.Context, userID int64) (map[string]string, error)
	Set(ctx context.Context, userID int64, key, value string) error
	Increment(ctx context.Context, userID int64, key string, delta int64) (int64, error)
}

type SettingsService struct {
	store KVStore
}

func NewSettingsService(store KVStore) *SettingsService {
	return &SettingsService{store: store}
}

// Load returns the user's settings with defaults for anything unset or
// unreadable.
func (s *SettingsService) Load(ctx context.Context, userID int64) (*domain.UserSettings, error) {
	kv, err := s.store.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	st := &domain.UserSettings{
		UserID:     userID,
		Format:     domain.FormatMarkdown,
		ThemeColor: domain.DefaultThemeColor,
	}
	if f, err := domain.ParseFormat(kv[KeyExportFormat]); err == nil {
		st.Format = f
	}
	if c := kv[KeyThemeColor]; domain.ValidThemeColor(c) {
		st.ThemeColor = strings.ToUpper(c)
	}
	st.DriveUpload, _ = strconv.ParseBool(kv[KeyDriveUpload])
	st.Licensed = kv[KeyLicenseStatus] == licenseActive
	st.UsageCount, _ = strconv.ParseInt(kv[KeyUsageCount], 10, 64)
	return st, nil
}

func (s *SettingsService) SetFormat(ctx context.Context, userID int64, raw string) (domain.Format, error) {
	f, err := domain.ParseFormat(raw)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, userID, KeyExportFormat, string(f)); err != nil {
		return "", err
	}
	return f, nil
}

func (s *SettingsService) SetThemeColor(ctx context.Context, userID int64, color string) error {
	if !domain.ValidThemeColor(color) {
		return domain.ErrInvalidThemeColor
	}
	return s.store.Set(ctx, userID, KeyThemeColor, strings.ToUpper(color))
}

// ToggleDrive flips the Drive upload flag and returns the new value.
func (s *SettingsService) ToggleDrive(ctx context.Context, userID int64) (bool, error) {
	raw, _, err := s.store.Get(ctx, userID, KeyDriveUpload)
	if err != nil {
		return false, err
	}
	cur, _ := strconv.ParseBool(raw)
	next := !cur
	if err := s.store.Set(ctx, userID, KeyDriveUpload, strconv.FormatBool(next)); err != nil {
		return false, err
	}
	return next, nil
}
