package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/chatexport/internal/domain"
	"github.com/set-night/chatexport/internal/render"
	"github.com/set-night/chatexport/internal/service"
)

func TestExtractURL(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"https://chat.example.com/share/abc", "https://chat.example.com/share/abc"},
		{"look at this (https://example.com/c/1).", "https://example.com/c/1"},
		{"two: http://a.example/x and https://b.example/y", "http://a.example/x"},
		{"no link here", ""},
		{"ftp://example.com/file", ""},
	}
	for _, tt := range tests {
		if got := extractURL(tt.text); got != tt.want {
			t.Errorf("extractURL(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestIsPageLink(t *testing.T) {
	msg := func(text string) *models.Update {
		return &models.Update{Message: &models.Message{Text: text}}
	}
	if !isPageLink(msg("https://example.com/c/1")) {
		t.Error("plain link not matched")
	}
	if isPageLink(msg("/license https://example.com")) {
		t.Error("command matched as a link")
	}
	if isPageLink(msg("hello")) {
		t.Error("text without a link matched")
	}
	if !isPageDocument(&models.Update{Message: &models.Message{Document: &models.Document{}}}) {
		t.Error("document not matched")
	}
}

func TestExportErrorText(t *testing.T) {
	tests := []struct {
		err        error
		contains   string
		unexpected bool
	}{
		{domain.ErrNoElementsFound, "not supported", false},
		{domain.ErrNoMessagesExtracted, "no readable messages", false},
		{fmt.Errorf("wrap: %w", domain.ErrFreeLimitReached), "/license", false},
		{fmt.Errorf("%w: html: open stack of elements exceeds 512 nodes", domain.ErrInvalidPage), "could not read this file", false},
		{domain.ErrPageTooLarge, "too large", false},
		{fmt.Errorf("%w: status 403", domain.ErrFetchFailed), "could not download", false},
		{errors.New("db down"), "Something went wrong", true},
	}
	for _, tt := range tests {
		text, unexpected := exportErrorText(tt.err)
		if !strings.Contains(text, tt.contains) {
			t.Errorf("%v: text %q does not mention %q", tt.err, text, tt.contains)
		}
		if unexpected != tt.unexpected {
			t.Errorf("%v: unexpected = %v", tt.err, unexpected)
		}
	}
}

func TestCommandArg(t *testing.T) {
	if got := commandArg("/license   abc.def.ghi  "); got != "abc.def.ghi" {
		t.Errorf("got %q", got)
	}
	if got := commandArg("/license"); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestExportCaption(t *testing.T) {
	id := "drive-1"
	res := &service.ExportResult{
		Conversation: &domain.Conversation{
			Title: "my_chat",
			Messages: []domain.Message{
				{Role: domain.RoleUser, Content: "a"},
				{Role: domain.RoleAssistant, Content: "b"},
				{Role: domain.RoleAssistant, Content: "c"},
			},
		},
		File:   &render.File{Name: "my-chat.md"},
		Record: &domain.ExportRecord{DriveFileID: &id},
	}

	got := exportCaption(res)
	for _, want := range []string{"my\\_chat", "3 messages (👤 1, 🤖 2)", "Saved to Google Drive"} {
		if !strings.Contains(got, want) {
			t.Errorf("caption %q missing %q", got, want)
		}
	}

	res.Record.DriveFileID = nil
	res.DriveErr = errors.New("quota")
	if !strings.Contains(exportCaption(res), "upload failed") {
		t.Error("drive failure not mentioned")
	}
}

func TestUsageLine(t *testing.T) {
	if got := usageLine(&domain.UserSettings{UsageCount: 2}, 5); got != "🆓 Free exports left: 3 of 5" {
		t.Errorf("got %q", got)
	}
	if got := usageLine(&domain.UserSettings{UsageCount: 9}, 5); got != "🆓 Free exports left: 0 of 5" {
		t.Errorf("got %q", got)
	}
	if got := usageLine(&domain.UserSettings{Licensed: true, UsageCount: 9}, 5); !strings.Contains(got, "unlimited") {
		t.Errorf("got %q", got)
	}
}

func TestHistoryText(t *testing.T) {
	drive := "x"
	recs := []domain.ExportRecord{
		{Title: "First", Format: domain.FormatPDF, MessageCount: 4, CreatedAt: time.Date(2025, 2, 14, 9, 30, 0, 0, time.UTC), DriveFileID: &drive},
		{Title: "Second", Format: domain.FormatMarkdown, MessageCount: 2, CreatedAt: time.Date(2025, 2, 13, 8, 0, 0, 0, time.UTC)},
	}

	got := historyText(recs, 7, 5, time.UTC)
	for _, want := range []string{"(7)", "6. *First*", "PDF · 4 messages · 14.02.2025 09:30 · ☁️", "7. *Second*", "MD · 2 messages"} {
		if !strings.Contains(got, want) {
			t.Errorf("history missing %q:\n%s", want, got)
		}
	}
}

func TestIssuedKeyText(t *testing.T) {
	got := issuedKeyText(42, "abc.def.ghi", "chat_export_bot")
	for _, want := range []string{"`42`", "`abc.def.ghi`", "@chat\\_export\\_bot"} {
		if !strings.Contains(got, want) {
			t.Errorf("text %q missing %q", got, want)
		}
	}
}

func TestCommandsIgnoreMessagesWithoutSender(t *testing.T) {
	h := New(Deps{})
	update := &models.Update{Message: &models.Message{
		Text: "/start",
		Chat: models.Chat{ID: 1, Type: models.ChatTypePrivate},
	}}

	handlers := map[string]func(context.Context, *bot.Bot, *models.Update){
		"start":   h.handleStart,
		"usage":   h.handleUsage,
		"format":  h.handleFormat,
		"theme":   h.handleTheme,
		"drive":   h.handleDrive,
		"license": h.handleLicense,
		"issue":   h.handleIssue,
		"history": h.handleHistory,
	}
	for name, handle := range handlers {
		t.Run(name, func(t *testing.T) {
			// A nil bot and empty dependencies panic if the handler goes
			// past the sender check.
			handle(context.Background(), nil, update)
		})
	}
}
