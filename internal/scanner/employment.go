package scanner

import (
	"strings"

	"sjsage522/upworkscanner/internal/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// employmentHistory finds the first heading mentioning the employment
// section, in any case and with any surrounding text, climbs to the div that
// encloses the whole section and reads every entry below it. A missing
// heading or a too shallow tree yields an empty history.
func employmentHistory(doc *goquery.Document, sel ProfileSelectors) []models.Employment {
	history := []models.Employment{}

	want := strings.ToLower(sel.EmploymentHeadingText)
	heading := doc.Find(sel.EmploymentHeading).FilterFunction(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(strings.Join(strings.Fields(s.Text()), " "))
		return strings.Contains(text, want)
	}).First()
	if heading.Length() == 0 {
		return history
	}

	container := ancestorDiv(heading.Get(0), sel.EmploymentAncestors)
	if container == nil {
		return history
	}

	goquery.NewDocumentFromNode(container).Find(sel.EmploymentEntry).Each(func(_ int, s *goquery.Selection) {
		e := NewExtractor(s)
		history = append(history, models.Employment{
			Title:  e.Text(sel.EmploymentTitle),
			Period: e.Text(sel.EmploymentPeriod),
		})
	})
	return history
}

// ancestorDiv returns the levels-th enclosing div of n, or nil
func ancestorDiv(n *html.Node, levels int) *html.Node {
	if levels < 1 {
		return n
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Div {
			levels--
			if levels == 0 {
				return p
			}
		}
	}
	return nil
}
