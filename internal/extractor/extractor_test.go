package extractor

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/set-night/chatexport/internal/domain"
)

var fixedNow = time.Date(2025, 2, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

const alternatingPage = `<html><head><title>Trip planning</title></head><body>
	<main class="chat">
		<div class="user-message">  Where should I go in March?  </div>
		<div class="assistant-message">Lisbon is mild and sunny that time of year.</div>
		<div class="user-message">Book it.</div>
	</main>
</body></html>`

func TestExtract_AlternatingRoles(t *testing.T) {
	conv, err := New(WithClock(fixedClock)).ExtractHTML(strings.NewReader(alternatingPage))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conv.Title != "Trip planning" {
		t.Errorf("title = %q", conv.Title)
	}
	if !conv.Timestamp.Equal(fixedNow) {
		t.Errorf("timestamp = %v", conv.Timestamp)
	}
	if len(conv.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(conv.Messages))
	}

	wantRoles := []domain.Role{domain.RoleUser, domain.RoleAssistant, domain.RoleUser}
	wantContent := []string{
		"Where should I go in March?",
		"Lisbon is mild and sunny that time of year.",
		"Book it.",
	}
	for i, m := range conv.Messages {
		if m.Role != wantRoles[i] {
			t.Errorf("msg[%d] role = %q, want %q", i, m.Role, wantRoles[i])
		}
		if m.Content != wantContent[i] {
			t.Errorf("msg[%d] content = %q, want %q", i, m.Content, wantContent[i])
		}
		want := fixedNow.Add(-time.Duration(3-i) * time.Second)
		if !m.Timestamp.Equal(want) {
			t.Errorf("msg[%d] timestamp = %v, want %v", i, m.Timestamp, want)
		}
	}
}

func TestExtract_NoElementsFound(t *testing.T) {
	page := `<html><body><div class="header"><h1>Welcome</h1><p>Nothing to export on this page at all.</p></div></body></html>`

	conv, err := New().ExtractHTML(strings.NewReader(page))
	if !errors.Is(err, domain.ErrNoElementsFound) {
		t.Fatalf("expected ErrNoElementsFound, got %v", err)
	}
	if conv != nil {
		t.Error("expected no conversation")
	}
}

func TestExtract_NoMessagesExtracted(t *testing.T) {
	page := `<html><body>
		<div class="user-message"><img src="avatar.png"></div>
		<div class="assistant-message">   </div>
	</body></html>`

	conv, err := New().ExtractHTML(strings.NewReader(page))
	if !errors.Is(err, domain.ErrNoMessagesExtracted) {
		t.Fatalf("expected ErrNoMessagesExtracted, got %v", err)
	}
	if conv != nil {
		t.Error("expected no conversation")
	}
}

func TestExtract_SkipsEmptyCandidatesKeepsOrder(t *testing.T) {
	page := `<html><body>
		<div class="user-message" data-timestamp="2024-01-01T10:05:00Z">second by time, first on page</div>
		<div class="assistant-message"></div>
		<div class="assistant-message" data-timestamp="2024-01-01T10:00:00Z">first by time, second on page</div>
	</body></html>`

	conv, err := New(WithClock(fixedClock)).ExtractHTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Content != "second by time, first on page" {
		t.Errorf("messages were reordered: %q first", conv.Messages[0].Content)
	}
	if !conv.Messages[0].Timestamp.Equal(time.Date(2024, 1, 1, 10, 5, 0, 0, time.UTC)) {
		t.Errorf("msg[0] timestamp = %v", conv.Messages[0].Timestamp)
	}
}

func TestExtract_TitleFallback(t *testing.T) {
	page := `<html><head><title>   </title></head><body><div class="user-message">Hello there</div></body></html>`

	conv, err := New().ExtractHTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.Title != domain.FallbackTitle {
		t.Errorf("title = %q, want %q", conv.Title, domain.FallbackTitle)
	}
}

func TestExtract_MultilineTitle(t *testing.T) {
	page := "<html><head><title>\n  Trip\n\tplanning  \n</title></head><body><div class=\"user-message\">Hello there</div></body></html>"

	conv, err := New().ExtractHTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.Title != "Trip planning" {
		t.Errorf("title = %q, want %q", conv.Title, "Trip planning")
	}
}

func TestExtractHTML_UnparseableMarkup(t *testing.T) {
	page := "<html><body>" + strings.Repeat("<div>", 1000) + "deep</body></html>"

	_, err := New().ExtractHTML(strings.NewReader(page))
	if !errors.Is(err, domain.ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	ext := New(WithClock(fixedClock))

	first, err := ext.ExtractHTML(strings.NewReader(alternatingPage))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := parse(t, alternatingPage)
	second, err := ext.Extract(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	third, err := ext.Extract(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(second, third) {
		t.Error("repeated extraction produced different conversations")
	}
}

func TestExtract_SyntheticDocument(t *testing.T) {
	user := &fakeElement{class: "turn", attrs: map[string]string{"data-role": "user"}, text: "ping"}
	bot := &fakeElement{class: "turn", attrs: map[string]string{}, text: "pong"}
	empty := &fakeElement{class: "turn", attrs: map[string]string{}, text: "   "}

	doc := &fakeDocument{
		title:   "Synthetic",
		queries: map[string][]Element{".turn": {user, empty, bot}},
	}
	l := &Locator{Strategies: []Strategy{NewStrategy(".turn")}}

	conv, err := New(WithClock(fixedClock), WithLocator(l)).Extract(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[0].Role != domain.RoleUser || conv.Messages[1].Role != domain.RoleAssistant {
		t.Errorf("roles = %q, %q", conv.Messages[0].Role, conv.Messages[1].Role)
	}
	// The skipped candidate still counts towards the synthesized offsets.
	if want := fixedNow.Add(-1 * time.Second); !conv.Messages[1].Timestamp.Equal(want) {
		t.Errorf("msg[1] timestamp = %v, want %v", conv.Messages[1].Timestamp, want)
	}
}
