// Package extractor reconstructs a chat transcript from the markup of an
// arbitrary chat page.
//
// Extraction runs in two stages. The Locator finds candidate message
// containers through a cascade of progressively looser strategies, and the
// Classifier turns each candidate into a typed message. Both work against the
// Element and Document interfaces, so they can be exercised on synthetic
// trees as well as on parsed HTML.
package extractor

// Element is a read-only handle on one node of a page's element tree.
type Element interface {
	TagName() string
	// ClassName returns the raw class attribute.
	ClassName() string
	Attr(name string) (string, bool)
	// Parent returns nil for the root element.
	Parent() Element
	Children() []Element
	// VisibleText returns the rendered text of the subtree, trimmed.
	VisibleText() string
	// TextContent returns all descendant text, hidden nodes included.
	TextContent() string
	// QueryAll returns descendants matching a CSS selector in document order.
	QueryAll(pattern string) []Element
	// Query returns the first descendant matching pattern, or nil.
	Query(pattern string) Element
}

// Document is a loaded page snapshot.
type Document interface {
	Title() string
	QueryAll(pattern string) []Element
	// Elements returns every element of the page in document order.
	Elements() []Element
}
