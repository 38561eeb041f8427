// Package render turns an extracted conversation into a downloadable file.
// Renderers only read the conversation; they never modify it.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/set-night/chatexport/internal/domain"
)

const (
	maxSlugLen      = 80
	defaultBaseName = "conversation"
	timeLayout      = "2006-01-02 15:04:05 MST"
)

// File is a rendered export ready to be sent or written to disk.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Options tune presentation; the zero value is usable.
type Options struct {
	// ThemeColor is a #RRGGBB accent for the HTML page. Invalid or empty
	// values fall back to domain.DefaultThemeColor.
	ThemeColor string
	// Location is used to print times. Nil means UTC.
	Location *time.Location
}

func (o Options) themeColor() string {
	if domain.ValidThemeColor(o.ThemeColor) {
		return o.ThemeColor
	}
	return domain.DefaultThemeColor
}

func (o Options) formatTime(t time.Time) string {
	loc := o.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timeLayout)
}

// Render produces conv in the requested format.
func Render(conv *domain.Conversation, format domain.Format, opts Options) (*File, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case domain.FormatMarkdown:
		data = Markdown(conv, opts)
	case domain.FormatHTML:
		data, err = HTML(conv, opts)
	case domain.FormatJSON:
		data, err = JSON(conv)
	case domain.FormatPDF:
		data, err = PDF(conv, opts)
	default:
		return nil, domain.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	return &File{
		Name: FileName(conv.Title, format),
		MIME: format.MIMEType(),
		Data: data,
	}, nil
}

// FileName builds "<slug>.<ext>" from a conversation title.
func FileName(title string, format domain.Format) string {
	base := Slug(title)
	if base == "" {
		base = defaultBaseName
	}
	return base + "." + format.Extension()
}

// Slug lowercases title and joins its letter and digit runs with dashes.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	n := 0
	for _, r := range strings.ToLower(title) {
		if n >= maxSlugLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
				n++
			}
			b.WriteRune(r)
			n++
			dash = false
			continue
		}
		dash = true
	}
	return strings.TrimRight(b.String(), "-")
}
