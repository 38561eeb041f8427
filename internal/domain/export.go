package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
)

// Formats lists every supported export format in menu order.
var Formats = []Format{FormatMarkdown, FormatHTML, FormatJSON, FormatPDF}

// ParseFormat accepts a format name case-insensitively; "md" is an alias for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	case FormatPDF:
		return "pdf"
	default:
		return ""
	}
}

func (f Format) MIMEType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown"
	case FormatHTML:
		return "text/html"
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ExportRecord is one row of a user's export history.
type ExportRecord struct {
	ID           uuid.UUID
	UserID       int64
	Title        string
	Format       Format
	MessageCount int
	DriveFileID  *string
	CreatedAt    time.Time
}
