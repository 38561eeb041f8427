package extractor

import (
	"strings"
	"time"

	"github.com/set-night/chatexport/internal/domain"
)

// AncestorDepth bounds how far role inference looks up the tree.
const AncestorDepth = 3

var roleAttributes = []string{"data-role", "data-author", "data-message-author-role"}

const (
	contentSelector  = `[data-testid="message-content"], [class*="message-text"], [class*="message-body"], [class*="content"]`
	markdownSelector = `.markdown, [class*="markdown"], .prose`
)

// Classify turns one candidate into a message. The second return value is
// false when the candidate holds no readable content and must be skipped.
func Classify(el Element, index, total int, now time.Time) (domain.Message, bool) {
	content := ExtractContent(el)
	if content == "" {
		return domain.Message{}, false
	}
	return domain.Message{
		Role:      InferRole(el),
		Content:   content,
		Timestamp: DeriveTimestamp(el, index, total, now),
	}, true
}

// InferRole checks, in order: role data attributes, the element's own class,
// up to AncestorDepth ancestor classes. Without evidence the speaker is the
// assistant.
func InferRole(el Element) domain.Role {
	if role, ok := roleFromAttributes(el); ok {
		return role
	}
	if role, ok := roleFromClass(el.ClassName(), true); ok {
		return role
	}
	p := el.Parent()
	for depth := 0; depth < AncestorDepth && p != nil; depth++ {
		if role, ok := roleFromClass(p.ClassName(), false); ok {
			return role
		}
		p = p.Parent()
	}
	return domain.RoleAssistant
}

func roleFromAttributes(el Element) (domain.Role, bool) {
	for _, name := range roleAttributes {
		v, ok := el.Attr(name)
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "user":
			return domain.RoleUser, true
		case "assistant", "bot":
			return domain.RoleAssistant, true
		}
	}
	return "", false
}

// roleFromClass reads speaker hints from a class attribute. The element
// itself also answers to sent/received; ancestors only to role names.
func roleFromClass(class string, self bool) (domain.Role, bool) {
	class = strings.ToLower(class)
	if class == "" {
		return "", false
	}
	if strings.Contains(class, "user") || (self && strings.Contains(class, "sent")) {
		return domain.RoleUser, true
	}
	if strings.Contains(class, "assistant") || strings.Contains(class, "bot") ||
		(self && strings.Contains(class, "received")) {
		return domain.RoleAssistant, true
	}
	return "", false
}

// ExtractContent returns the candidate's trimmed text, or "" when nothing
// readable is found.
func ExtractContent(el Element) string {
	if holder := el.Query(contentSelector); holder != nil {
		if text := strings.TrimSpace(holder.VisibleText()); text != "" {
			return text
		}
	}
	if text := strings.TrimSpace(el.VisibleText()); text != "" {
		return text
	}
	if md := el.Query(markdownSelector); md != nil {
		return normalizeText(md.TextContent())
	}
	return ""
}
