package render

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"github.com/set-night/chatexport/internal/domain"
)

const (
	pdfMargin     = 20.0
	pdfFont       = "Helvetica"
	pdfLineHeight = 6.0
)

type rgb struct{ r, g, b int }

var (
	labelColors = map[domain.Role]rgb{
		domain.RoleUser:      {33, 150, 243},
		domain.RoleAssistant: {76, 175, 80},
	}
	bubbleColors = map[domain.Role]rgb{
		domain.RoleUser:      {230, 242, 255},
		domain.RoleAssistant: {245, 245, 245},
	}
	textColor  = rgb{33, 33, 33}
	mutedColor = rgb{128, 128, 128}
)

// PDF lays the conversation out on A4 pages using the core Helvetica font.
// Text is translated to cp1252; runes outside it are replaced with '?'.
func PDF(conv *domain.Conversation, opts Options) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(conv.Title, true)
	pdf.SetSubject("Chat Conversation Export", true)
	pdf.SetCreator("Chat Conversation Exporter", true)
	pdf.SetCreationDate(conv.Timestamp)
	pdf.SetModificationDate(conv.Timestamp)

	tr := cp1252(pdf)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 24)
	setText(pdf, textColor)
	pdf.MultiCell(0, 10, tr(conv.Title), "", "L", false)

	pdf.SetFont(pdfFont, "", 10)
	setText(pdf, mutedColor)
	pdf.CellFormat(0, pdfLineHeight, tr("Exported on: "+opts.formatTime(conv.Timestamp)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	for _, m := range conv.Messages {
		pdf.SetFont(pdfFont, "B", 12)
		setText(pdf, labelColors[m.Role])
		pdf.CellFormat(0, 8, tr(m.Role.Label()), "", 1, "L", false, 0, "")

		pdf.SetFont(pdfFont, "", 11)
		setText(pdf, textColor)
		fill := bubbleColors[m.Role]
		pdf.SetFillColor(fill.r, fill.g, fill.b)
		pdf.MultiCell(0, pdfLineHeight, tr(m.Content), "", "L", true)

		pdf.SetFont(pdfFont, "", 8)
		setText(pdf, mutedColor)
		pdf.CellFormat(0, 5, tr(opts.formatTime(m.Timestamp)), "", 1, "R", false, 0, "")
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setText(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

// cp1252 wraps the document's cp1252 translator so that characters the
// core fonts cannot show become '?' instead of raw UTF-8 bytes.
func cp1252(pdf *fpdf.Fpdf) func(string) string {
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	return func(s string) string {
		return translate(replaceUnencodable(s))
	}
}

func replaceUnencodable(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r > 0xFF && !cp1252Extra[r] {
			out[i] = '?'
		}
	}
	return string(out)
}

// cp1252Extra lists the runes above U+00FF that cp1252 encodes in 0x80-0x9F.
var cp1252Extra = map[rune]bool{
	'€': true, '‚': true, 'ƒ': true, '„': true, '…': true, '†': true, '‡': true,
	'ˆ': true, '‰': true, 'Š': true, '‹': true, 'Œ': true, 'Ž': true, '‘': true,
	'’': true, '“': true, '”': true, '•': true, '–': true, '—': true, '˜': true,
	'™': true, 'š': true, '›': true, 'œ': true, 'ž': true, 'Ÿ': true,
}
