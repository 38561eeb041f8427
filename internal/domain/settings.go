package domain

import "regexp"

// DefaultThemeColor is the accent used until the user picks another one.
const DefaultThemeColor = "#2196F3"

var themeColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidThemeColor reports whether s is a #RRGGBB hex color.
func ValidThemeColor(s string) bool {
	return themeColorPattern.MatchString(s)
}

type UserSettings struct {
	UserID      int64
	Format      Format
	ThemeColor  string
	DriveUpload bool
	Licensed    bool
	UsageCount  int64
}
