package extractor

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/set-night/chatexport/internal/domain"
)

const (
	// MinRoleTextLen is the shortest trimmed text kept by the structural-role pass.
	MinRoleTextLen = 10
	// MinHeuristicTextLen is exclusive: heuristic candidates need more text than this.
	MinHeuristicTextLen = 20
	// MaxHeuristicChildren is exclusive: heuristic candidates have fewer children.
	MaxHeuristicChildren = 5
)

// roleHooks mark a selector as targeting one speaker's messages.
var roleHooks = []string{"user-", "assistant-", "bot-"}

// Strategy is one step of the specific-selector cascade. An authoritative
// strategy ends the cascade as soon as it matches anything.
type Strategy struct {
	Pattern       string
	Authoritative bool
}

// NewStrategy derives Authoritative from the pattern text.
func NewStrategy(pattern string) Strategy {
	authoritative := false
	for _, hook := range roleHooks {
		if strings.Contains(pattern, hook) {
			authoritative = true
			break
		}
	}
	return Strategy{Pattern: pattern, Authoritative: authoritative}
}

// DefaultStrategies run from generic substring patterns to site-specific
// container classes.
var DefaultStrategies = []Strategy{
	NewStrategy(`[class*="message"]`),
	NewStrategy(`[data-testid*="message"]`),
	NewStrategy(`.user-message, .assistant-message, .bot-message`),
	NewStrategy(`[data-message-author-role]`),
	NewStrategy(`[data-testid^="conversation-turn"]`),
	NewStrategy(`.chat-message`),
	NewStrategy(`.conversation-turn`),
	NewStrategy(`.font-user-message, .font-claude-message`),
}

// DefaultRoleSelectors target accessibility structures chat logs are often
// built from.
var DefaultRoleSelectors = []string{
	`[role="log"] > *`,
	`[aria-live] > *`,
	`[role="list"] > [role="listitem"]`,
	`[role="listitem"]`,
	`[role="article"]`,
}

var messageClassPattern = regexp.MustCompile(`(?i)message|msg|chat|conversation|dialogue|text|content|bubble`)

const interactiveSelector = `button, input, textarea, select`

var interactiveTags = map[string]bool{
	"button":   true,
	"input":    true,
	"textarea": true,
	"select":   true,
}

// Locator finds candidate message containers.
type Locator struct {
	Strategies    []Strategy
	RoleSelectors []string
}

func NewLocator() *Locator {
	return &Locator{
		Strategies:    DefaultStrategies,
		RoleSelectors: DefaultRoleSelectors,
	}
}

// Locate returns candidate containers in document order, or
// domain.ErrNoElementsFound when every pass comes up empty.
func (l *Locator) Locate(doc Document) ([]Element, error) {
	if found := l.specificPass(doc); len(found) > 0 {
		return found, nil
	}
	if found := l.rolePass(doc); len(found) > 0 {
		slog.Debug("locator fell back to structural roles", "candidates", len(found))
		return found, nil
	}
	if found := heuristicPass(doc); len(found) > 0 {
		slog.Debug("locator fell back to class heuristics", "candidates", len(found))
		return found, nil
	}
	return nil, domain.ErrNoElementsFound
}

func (l *Locator) specificPass(doc Document) []Element {
	var last []Element
	for _, s := range l.Strategies {
		found := doc.QueryAll(s.Pattern)
		if len(found) == 0 {
			continue
		}
		last = found
		if s.Authoritative {
			slog.Debug("locator stopped at role-specific selector", "pattern", s.Pattern, "candidates", len(found))
			break
		}
	}
	return last
}

func (l *Locator) rolePass(doc Document) []Element {
	for _, pattern := range l.RoleSelectors {
		var kept []Element
		for _, el := range doc.QueryAll(pattern) {
			if textLen(el) >= MinRoleTextLen {
				kept = append(kept, el)
			}
		}
		if len(kept) > 0 {
			return kept
		}
	}
	return nil
}

func heuristicPass(doc Document) []Element {
	var kept []Element
	for _, el := range doc.Elements() {
		if looksLikeMessage(el) {
			kept = append(kept, el)
		}
	}
	return kept
}

func looksLikeMessage(el Element) bool {
	if !messageClassPattern.MatchString(el.ClassName()) {
		return false
	}
	if textLen(el) <= MinHeuristicTextLen {
		return false
	}
	if len(el.Children()) >= MaxHeuristicChildren {
		return false
	}
	if interactiveTags[strings.ToLower(el.TagName())] {
		return false
	}
	return el.Query(interactiveSelector) == nil
}

func textLen(el Element) int {
	return utf8.RuneCountInString(el.VisibleText())
}
