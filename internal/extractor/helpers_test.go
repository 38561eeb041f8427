package extractor

import (
	"strings"
	"testing"
)

func parse(t *testing.T, src string) *HTMLDocument {
	t.Helper()
	doc, err := ParseHTML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

// target returns the element with id="target".
func target(t *testing.T, src string) Element {
	t.Helper()
	found := parse(t, src).QueryAll("#target")
	if len(found) != 1 {
		t.Fatalf("expected one #target, got %d", len(found))
	}
	return found[0]
}

// fakeElement is a synthetic tree node; queries are answered from a
// pattern-keyed table instead of a selector engine.
type fakeElement struct {
	tag      string
	class    string
	attrs    map[string]string
	parent   *fakeElement
	children []*fakeElement
	text     string
	queries  map[string][]Element
}

func (f *fakeElement) TagName() string   { return f.tag }
func (f *fakeElement) ClassName() string { return f.class }

func (f *fakeElement) Attr(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}

func (f *fakeElement) Parent() Element {
	if f.parent == nil {
		return nil
	}
	return f.parent
}

func (f *fakeElement) Children() []Element {
	out := make([]Element, len(f.children))
	for i, c := range f.children {
		out[i] = c
	}
	return out
}

func (f *fakeElement) VisibleText() string { return strings.TrimSpace(f.text) }
func (f *fakeElement) TextContent() string { return f.text }

func (f *fakeElement) QueryAll(pattern string) []Element { return f.queries[pattern] }

func (f *fakeElement) Query(pattern string) Element {
	if found := f.queries[pattern]; len(found) > 0 {
		return found[0]
	}
	return nil
}

type fakeDocument struct {
	title    string
	queries  map[string][]Element
	elements []Element
}

func (d *fakeDocument) Title() string                     { return d.title }
func (d *fakeDocument) QueryAll(pattern string) []Element { return d.queries[pattern] }
func (d *fakeDocument) Elements() []Element               { return d.elements }
