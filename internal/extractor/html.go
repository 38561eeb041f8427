package extractor

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/set-night/chatexport/internal/domain"
)

// HTMLDocument adapts a goquery document to Document.
type HTMLDocument struct {
	doc *goquery.Document
}

// ParseHTML parses a serialized page. Markup the parser rejects fails with
// domain.ErrInvalidPage.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPage, err)
	}
	return NewHTMLDocument(doc), nil
}

// NewHTMLDocument wraps an already parsed goquery document.
func NewHTMLDocument(doc *goquery.Document) *HTMLDocument {
	return &HTMLDocument{doc: doc}
}

func (d *HTMLDocument) Title() string {
	return strings.Join(strings.Fields(d.doc.Find("title").First().Text()), " ")
}

func (d *HTMLDocument) QueryAll(pattern string) []Element {
	m := compileMatcher(pattern)
	if m == nil {
		return nil
	}
	return wrapSelection(d.doc.FindMatcher(m))
}

func (d *HTMLDocument) Elements() []Element {
	return wrapSelection(d.doc.Find("*"))
}

// htmlElement wraps a single-node selection.
type htmlElement struct {
	sel *goquery.Selection
}

func newHTMLElement(sel *goquery.Selection) Element {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return &htmlElement{sel: sel.First()}
}

func (e *htmlElement) TagName() string {
	return goquery.NodeName(e.sel)
}

func (e *htmlElement) ClassName() string {
	return e.sel.AttrOr("class", "")
}

func (e *htmlElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *htmlElement) Parent() Element {
	return newHTMLElement(e.sel.Parent())
}

func (e *htmlElement) Children() []Element {
	return wrapSelection(e.sel.Children())
}

func (e *htmlElement) VisibleText() string {
	return visibleText(e.sel.Get(0))
}

func (e *htmlElement) TextContent() string {
	return e.sel.Text()
}

func (e *htmlElement) QueryAll(pattern string) []Element {
	m := compileMatcher(pattern)
	if m == nil {
		return nil
	}
	return wrapSelection(e.sel.FindMatcher(m))
}

func (e *htmlElement) Query(pattern string) Element {
	m := compileMatcher(pattern)
	if m == nil {
		return nil
	}
	return newHTMLElement(e.sel.FindMatcher(m).First())
}

func wrapSelection(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &htmlElement{sel: s})
	})
	return out
}

type compiled struct {
	sel cascadia.Selector
	ok  bool
}

// matchers caches compiled selectors; the cascade reuses a small fixed set.
var matchers sync.Map

// compileMatcher returns nil for patterns cascadia cannot parse.
func compileMatcher(pattern string) goquery.Matcher {
	if v, ok := matchers.Load(pattern); ok {
		c := v.(compiled)
		if !c.ok {
			return nil
		}
		return c.sel
	}
	sel, err := cascadia.Compile(pattern)
	matchers.Store(pattern, compiled{sel: sel, ok: err == nil})
	if err != nil {
		return nil
	}
	return sel
}
