package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/set-night/chatexport/internal/domain"
	"github.com/set-night/chatexport/internal/extractor"
)

const chatPage = `<html><head><title>Trip planning</title></head><body>
	<div class="user-message">Where should I go in March?</div>
	<div class="assistant-message">Lisbon is mild and sunny.</div>
</body></html>`

func newTestServer() *Server {
	now := time.Date(2025, 2, 14, 9, 30, 0, 0, time.UTC)
	return NewServer(8080, extractor.New(extractor.WithClock(func() time.Time { return now })), nil)
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestHealthEndpoint(t *testing.T) {
	w := do(t, newTestServer(), "GET", "/health", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestExtract_DefaultJSON(t *testing.T) {
	w := do(t, newTestServer(), "POST", "/api/v1/extract?title=Lisbon", chatPage)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var conv domain.Conversation
	if err := json.NewDecoder(w.Body).Decode(&conv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if conv.Title != "Lisbon" {
		t.Errorf("title = %q", conv.Title)
	}
	if len(conv.Messages) != 2 || conv.Messages[0].Role != domain.RoleUser {
		t.Errorf("messages = %+v", conv.Messages)
	}
}

func TestExtract_RenderedFormats(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		filename    string
	}{
		{"md", "text/markdown", "trip-planning.md"},
		{"html", "text/html", "trip-planning.html"},
		{"pdf", "application/pdf", "trip-planning.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w := do(t, newTestServer(), "POST", "/api/v1/extract?format="+tt.format, chatPage)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("content type = %q", ct)
			}
			want := `attachment; filename=` + tt.filename
			if cd := w.Header().Get("Content-Disposition"); cd != want {
				t.Errorf("content disposition = %q, want %q", cd, want)
			}
			if w.Body.Len() == 0 {
				t.Error("empty body")
			}
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
		msg    string
	}{
		{"unsupported format", "/api/v1/extract?format=docx", chatPage, http.StatusBadRequest, "UNSUPPORTED_FORMAT", ""},
		{"empty body", "/api/v1/extract", "   ", http.StatusBadRequest, "INVALID_BODY", ""},
		{"unparseable markup", "/api/v1/extract", "<html><body>" + strings.Repeat("<div>", 1000) + "</body></html>", http.StatusBadRequest, "INVALID_BODY", "The page markup could not be parsed"},
		{"no elements", "/api/v1/extract", `<html><body><p>hello</p></body></html>`, http.StatusUnprocessableEntity, "NO_ELEMENTS_FOUND", domain.ErrNoElementsFound.Error()},
		{"no messages", "/api/v1/extract", `<html><body><div class="user-message"></div></body></html>`, http.StatusUnprocessableEntity, "NO_MESSAGES_EXTRACTED", domain.ErrNoMessagesExtracted.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestServer(), "POST", tt.target, tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			var body errorBody
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
			if tt.msg != "" && body.Error.Message != tt.msg {
				t.Errorf("message = %q, want %q", body.Error.Message, tt.msg)
			}
		})
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	w := do(t, newTestServer(), "GET", "/nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestExtract_MethodNotAllowed(t *testing.T) {
	w := do(t, newTestServer(), "GET", "/api/v1/extract", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
