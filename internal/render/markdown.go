package render

import (
	"fmt"
	"strings"

	"github.com/set-night/chatexport/internal/domain"
)

func roleBadge(r domain.Role) string {
	if r == domain.RoleUser {
		return "👤 " + r.Label()
	}
	return "🤖 " + r.Label()
}

// Markdown renders a details block, a table of contents and one quoted
// section per message.
func Markdown(conv *domain.Conversation, opts Options) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", conv.Title)
	b.WriteString("## Conversation Details\n\n")
	fmt.Fprintf(&b, "- **Exported on:** %s\n", opts.formatTime(conv.Timestamp))
	fmt.Fprintf(&b, "- **Total Messages:** %d\n\n", len(conv.Messages))
	b.WriteString("---\n\n")

	b.WriteString("## Table of Contents\n\n")
	b.WriteString("1. [Conversation Details](#conversation-details)\n")
	for i := range conv.Messages {
		fmt.Fprintf(&b, "%d. [Message #%d](#message-%d)\n", i+2, i+1, i+1)
	}
	b.WriteString("\n---\n\n")

	for i, m := range conv.Messages {
		fmt.Fprintf(&b, "<a id=\"message-%d\"></a>\n\n", i+1)
		fmt.Fprintf(&b, "### Message #%d (%s)\n\n", i+1, roleBadge(m.Role))
		for _, line := range strings.Split(m.Content, "\n") {
			b.WriteString("> ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteString("\n---\n\n")
	}

	return []byte(b.String())
}
