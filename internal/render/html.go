package render

import (
	"bytes"
	"html/template"

	"github.com/set-night/chatexport/internal/domain"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
:root {
	--theme-color: {{.ThemeColor}};
	--user-color: #e3f2fd;
	--assistant-color: #f5f5f5;
	--border-radius: 12px;
	--spacing: 20px;
}
body { font-family: system-ui, -apple-system, sans-serif; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: var(--spacing); color: #212121; }
h1 { color: var(--theme-color); border-bottom: 2px solid var(--theme-color); padding-bottom: 8px; }
.details { color: #666; font-size: 0.9em; margin-bottom: var(--spacing); }
.message { margin-bottom: var(--spacing); padding: 15px; border-radius: var(--border-radius); }
.message.user { background: var(--user-color); margin-left: 10%; border-left: 4px solid var(--theme-color); }
.message.assistant { background: var(--assistant-color); margin-right: 10%; }
.role { font-weight: bold; margin-bottom: 5px; }
.message.user .role { color: var(--theme-color); }
.time { color: #999; font-size: 0.8em; font-weight: normal; margin-left: 8px; }
.content { white-space: pre-wrap; word-wrap: break-word; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="details">Exported on {{.ExportedOn}} &middot; {{.Count}} messages</div>
{{range .Messages}}<div class="message {{.Role}}" id="message-{{.Number}}">
<div class="role">{{.Label}}<span class="time">{{.Time}}</span></div>
<div class="content">{{.Content}}</div>
</div>
{{end}}</body>
</html>
`))

type pageData struct {
	Title      string
	ThemeColor template.CSS
	ExportedOn string
	Count      int
	Messages   []pageMessage
}

type pageMessage struct {
	Number  int
	Role    string
	Label   string
	Time    string
	Content string
}

// HTML renders a standalone page. All conversation text is escaped.
func HTML(conv *domain.Conversation, opts Options) ([]byte, error) {
	data := pageData{
		Title:      conv.Title,
		ThemeColor: template.CSS(opts.themeColor()),
		ExportedOn: opts.formatTime(conv.Timestamp),
		Count:      len(conv.Messages),
		Messages:   make([]pageMessage, len(conv.Messages)),
	}
	for i, m := range conv.Messages {
		data.Messages[i] = pageMessage{
			Number:  i + 1,
			Role:    string(m.Role),
			Label:   m.Role.Label(),
			Time:    opts.formatTime(m.Timestamp),
			Content: m.Content,
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
