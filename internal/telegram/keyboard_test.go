package telegram

import (
	"testing"

	"github.com/set-night/chatexport/internal/domain"
)

func TestFormatKeyboard(t *testing.T) {
	kb := FormatKeyboard(domain.FormatPDF)

	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(kb.InlineKeyboard))
	}
	var marked []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.Text[0] != 'M' && btn.Text[0] != 'H' && btn.Text[0] != 'J' && btn.Text[0] != 'P' {
				marked = append(marked, btn.CallbackData)
			}
		}
	}
	if len(marked) != 1 || marked[0] != "fmt_pdf" {
		t.Errorf("marked buttons = %v", marked)
	}
}

func TestThemeKeyboard(t *testing.T) {
	kb := ThemeKeyboard([]string{"#2196F3", "#4CAF50", "#FF5722", "#9C27B0"}, "#4caf50")

	if len(kb.InlineKeyboard) != 2 || len(kb.InlineKeyboard[0]) != 3 {
		t.Fatalf("unexpected layout: %+v", kb.InlineKeyboard)
	}
	btn := kb.InlineKeyboard[0][1]
	if btn.CallbackData != "theme_4CAF50" {
		t.Errorf("callback = %q", btn.CallbackData)
	}
	if btn.Text != "✅ #4CAF50" {
		t.Errorf("current color not marked: %q", btn.Text)
	}
}

func TestPaginationRow(t *testing.T) {
	row := PaginationRow(0, 3, "hist")
	if len(row) != 2 || row[1].CallbackData != "hist_1" {
		t.Errorf("first page row = %+v", row)
	}
	row = PaginationRow(2, 3, "hist")
	if len(row) != 2 || row[0].CallbackData != "hist_1" {
		t.Errorf("last page row = %+v", row)
	}
	row = PaginationRow(1, 3, "hist")
	if len(row) != 3 || row[1].Text != "2/3" {
		t.Errorf("middle page row = %+v", row)
	}
}
