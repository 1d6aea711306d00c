package scanner

import (
	"fmt"
	"strings"

	"sjsage522/upworkscanner/internal/normalize"

	"github.com/PuerkitoBio/goquery"
)

// Extractor reads fields below a root selection. Every accessor is total:
// a selector that matches nothing yields nil, an empty list or false.
type Extractor struct {
	root *goquery.Selection
}

// NewExtractor creates an extractor over root
func NewExtractor(root *goquery.Selection) Extractor {
	return Extractor{root: root}
}

// Text returns the trimmed text of the first match
func (e Extractor) Text(selector string) *string {
	sel := e.root.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return normalize.String(strings.TrimSpace(sel.Text()))
}

// Texts returns the raw text of every match in document order
func (e Extractor) Texts(selector string) []string {
	sel := e.root.Find(selector)
	texts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts
}

// Attr returns an attribute of the first match
func (e Extractor) Attr(selector, name string) *string {
	value, ok := e.root.Find(selector).First().Attr(name)
	if !ok {
		return nil
	}
	return normalize.String(value)
}

// Exists reports whether selector matches anything
func (e Extractor) Exists(selector string) bool {
	return e.root.Find(selector).Length() > 0
}

// parseDocument creates a goquery document from page source
func parseDocument(source string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %w", err)
	}
	return doc, nil
}
