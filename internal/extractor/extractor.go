package extractor

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/set-night/chatexport/internal/domain"
)

// Extractor composes the Locator and the Classifier.
type Extractor struct {
	locator *Locator
	now     func() time.Time
}

type Option func(*Extractor)

// WithClock replaces the wall clock used for the export time and for
// synthesized timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithLocator replaces the default selector cascade.
func WithLocator(l *Locator) Option {
	return func(e *Extractor) { e.locator = l }
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		locator: NewLocator(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds a conversation from doc. It fails with
// domain.ErrNoElementsFound or domain.ErrNoMessagesExtracted and never
// returns a conversation without messages.
func (e *Extractor) Extract(doc Document) (*domain.Conversation, error) {
	now := e.now().UTC()

	candidates, err := e.locator.Locate(doc)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(candidates))
	for i, el := range candidates {
		msg, ok := Classify(el, i, len(candidates), now)
		if !ok {
			continue
		}
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		return nil, domain.ErrNoMessagesExtracted
	}

	slog.Debug("conversation extracted",
		"candidates", len(candidates),
		"messages", len(messages),
	)

	title := strings.TrimSpace(doc.Title())
	if title == "" {
		title = domain.FallbackTitle
	}

	return &domain.Conversation{
		Title:     title,
		Timestamp: now,
		Messages:  messages,
	}, nil
}

// ExtractHTML parses a serialized page and extracts from it.
func (e *Extractor) ExtractHTML(r io.Reader) (*domain.Conversation, error) {
	doc, err := ParseHTML(r)
	if err != nil {
		return nil, err
	}
	return e.Extract(doc)
}
