package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/set-night/chatexport/internal/domain"
)

const chatPage = `<html><head><title>Trip planning</title></head><body>
	<div class="user-message">Where should I go in March?</div>
	<div class="assistant-message">Lisbon is mild and sunny.</div>
</body></html>`

func writePage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chat.html")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExtract_DefaultName(t *testing.T) {
	path := writePage(t, chatPage)
	var stdout, status bytes.Buffer

	err := runExtract(&stdout, &status, path, &extractOptions{format: "md", theme: domain.DefaultThemeColor})
	if err != nil {
		t.Fatalf("runExtract: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(path), "trip-planning.md"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Trip planning") {
		t.Errorf("unexpected markdown:\n%s", data)
	}
	if !strings.Contains(status.String(), "Exporting") || !strings.Contains(status.String(), "Export complete!") {
		t.Errorf("status = %q", status.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
}

func TestRunExtract_Stdout(t *testing.T) {
	path := writePage(t, chatPage)
	var stdout, status bytes.Buffer

	err := runExtract(&stdout, &status, path, &extractOptions{format: "json", out: "-", title: "Lisbon", theme: domain.DefaultThemeColor})
	if err != nil {
		t.Fatalf("runExtract: %v", err)
	}

	var conv domain.Conversation
	if err := json.Unmarshal(stdout.Bytes(), &conv); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if conv.Title != "Lisbon" || len(conv.Messages) != 2 {
		t.Errorf("got title %q with %d messages", conv.Title, len(conv.Messages))
	}
}

func TestRunExtract_Errors(t *testing.T) {
	tests := []struct {
		name string
		page string
		opts extractOptions
		want error
	}{
		{"bad format", chatPage, extractOptions{format: "docx", theme: domain.DefaultThemeColor}, domain.ErrUnsupportedFormat},
		{"bad theme", chatPage, extractOptions{format: "html", theme: "blue"}, domain.ErrInvalidThemeColor},
		{"empty page", "<html><body></body></html>", extractOptions{format: "md", theme: domain.DefaultThemeColor}, domain.ErrNoElementsFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePage(t, tt.page)
			var stdout, status bytes.Buffer
			err := runExtract(&stdout, &status, path, &tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if describeError(err) == err.Error() {
				t.Errorf("no friendly message for %v", err)
			}
		})
	}
}

func TestRunExtract_MissingFile(t *testing.T) {
	var stdout, status bytes.Buffer
	err := runExtract(&stdout, &status, filepath.Join(t.TempDir(), "nope.html"), &extractOptions{format: "md", theme: domain.DefaultThemeColor})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not exist", err)
	}
}
