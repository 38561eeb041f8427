package telegram

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/set-night/chatexport/internal/domain"
)

// Callback data prefixes.
const (
	CallbackFormat  = "fmt_"
	CallbackTheme   = "theme_"
	CallbackDrive   = "drive_toggle"
	CallbackHistory = "hist"
	CallbackNoop    = "cur"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// PaginationRow creates a pagination row with prev/next buttons.
func PaginationRow(currentPage, totalPages int, callbackPrefix string) []models.InlineKeyboardButton {
	var row []models.InlineKeyboardButton

	if currentPage > 0 {
		row = append(row, InlineButton("⬅️", fmt.Sprintf("%s_%d", callbackPrefix, currentPage-1)))
	}

	row = append(row, InlineButton(
		fmt.Sprintf("%d/%d", currentPage+1, totalPages),
		CallbackNoop,
	))

	if currentPage < totalPages-1 {
		row = append(row, InlineButton("➡️", fmt.Sprintf("%s_%d", callbackPrefix, currentPage+1)))
	}

	return row
}

func selected(label string, on bool) string {
	if on {
		return "✅ " + label
	}
	return label
}

// FormatKeyboard lists every export format, two per row, marking current.
func FormatKeyboard(current domain.Format) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, f := range domain.Formats {
		label := selected(strings.ToUpper(f.Extension()), f == current)
		row = append(row, InlineButton(label, CallbackFormat+string(f)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return InlineKeyboard(rows...)
}

// ThemeKeyboard offers colors, three per row, marking current.
func ThemeKeyboard(colors []string, current string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, c := range colors {
		label := selected(c, strings.EqualFold(c, current))
		row = append(row, InlineButton(label, CallbackTheme+strings.TrimPrefix(c, "#")))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return InlineKeyboard(rows...)
}

// DriveKeyboard is a single toggle button for the Drive upload setting.
func DriveKeyboard(enabled bool) *models.InlineKeyboardMarkup {
	label := "☁️ Drive upload: off"
	if enabled {
		label = "☁️ Drive upload: on"
	}
	return InlineKeyboard(ButtonRow(InlineButton(label, CallbackDrive)))
}
