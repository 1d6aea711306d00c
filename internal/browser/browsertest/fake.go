// Package browsertest provides an in-memory browser.Driver for tests.
//
// Pages are plain HTML keyed by URL. ID and CSS locators are evaluated against
// the current page with goquery; XPath locators are looked up in XPathPresent.
package browsertest

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"sjsage522/upworkscanner/internal/browser"

	"github.com/PuerkitoBio/goquery"
)

// FilledValue records one Fill call
type FilledValue struct {
	Locator browser.Locator
	Text    string
}

// Fake is a scripted browser.Driver. It is safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	// Pages maps a URL to the HTML served for it
	Pages map[string]string
	// Redirects maps a requested URL to the URL actually landed on
	Redirects map[string]string
	// OnClick maps an element id to the URLs loaded by successive clicks.
	// The last URL is reused once the queue is down to one entry. Redirects
	// do not apply to them.
	OnClick map[string][]string
	// XPathPresent lists XPath expressions reported as present
	XPathPresent map[string]bool
	// Settle is the URL a redirect still in flight lands on. The next
	// WaitForURL makes it current before matching.
	Settle string

	NavigateErr error
	SourceErr   error
	FillErr     map[string]error
	ClickErr    map[string]error
	// Forkable enables Fork; ForkErr makes it fail
	Forkable bool
	ForkErr  error

	current     string
	navigations []string
	fills       []FilledValue
	clicks      []string
	urlWaits    int
	closed      bool
	forks       []*Fake
}

var _ browser.Driver = (*Fake)(nil)
var _ browser.Forker = (*Fake)(nil)

// New creates a fake serving pages
func New(pages map[string]string) *Fake {
	return &Fake{
		Pages:        pages,
		Redirects:    map[string]string{},
		OnClick:      map[string][]string{},
		XPathPresent: map[string]bool{},
		FillErr:      map[string]error{},
		ClickErr:     map[string]error{},
	}
}

// Navigate records url and makes it (or its redirect) the current page
func (f *Fake) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.navigations = append(f.navigations, url)
	if f.NavigateErr != nil {
		return f.NavigateErr
	}
	f.load(url)
	return nil
}

func (f *Fake) load(url string) {
	if target, ok := f.Redirects[url]; ok {
		url = target
	}
	f.current = url
}

func (f *Fake) document() *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(f.Pages[f.current]))
	if err != nil {
		return nil
	}
	return doc
}

func (f *Fake) present(loc browser.Locator) bool {
	if loc.By == browser.ByXPath {
		return f.XPathPresent[loc.Value]
	}
	doc := f.document()
	if doc == nil {
		return false
	}
	return doc.Find(cssFor(loc)).Length() > 0
}

func cssFor(loc browser.Locator) string {
	if loc.By == browser.ByID {
		return fmt.Sprintf("[id=%q]", loc.Value)
	}
	return loc.Value
}

// WaitFor reports whether loc exists on the current page. It never sleeps.
func (f *Fake) WaitFor(ctx context.Context, loc browser.Locator, state browser.WaitState, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.present(loc)
}

// WaitForURL reports whether the current URL matches pattern
func (f *Fake) WaitForURL(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urlWaits++
	if f.Settle != "" {
		f.current = f.Settle
		f.Settle = ""
	}
	return pattern.MatchString(f.current)
}

// Fill records text for loc
func (f *Fake) Fill(ctx context.Context, loc browser.Locator, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.FillErr[loc.Value]; err != nil {
		return err
	}
	if !f.present(loc) {
		return fmt.Errorf("element %s not found on %s", loc, f.current)
	}
	f.fills = append(f.fills, FilledValue{Locator: loc, Text: text})
	return nil
}

// Click records the click and follows OnClick
func (f *Fake) Click(ctx context.Context, loc browser.Locator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ClickErr[loc.Value]; err != nil {
		return err
	}
	if !f.present(loc) {
		return fmt.Errorf("element %s not found on %s", loc, f.current)
	}
	f.clicks = append(f.clicks, loc.Value)

	if queue := f.OnClick[loc.Value]; len(queue) > 0 {
		f.current = queue[0]
		if len(queue) > 1 {
			f.OnClick[loc.Value] = queue[1:]
		}
	}
	return nil
}

// PageSource returns the HTML of the current page
func (f *Fake) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SourceErr != nil {
		return "", f.SourceErr
	}
	return f.Pages[f.current], nil
}

// Attribute reads an attribute of the first element matching loc
func (f *Fake) Attribute(ctx context.Context, loc browser.Locator, name string) (string, bool) {
	if ctx.Err() != nil || loc.By == browser.ByXPath {
		return "", false
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.document()
	if doc == nil {
		return "", false
	}
	return doc.Find(cssFor(loc)).First().Attr(name)
}

// CurrentURL returns the current page URL
func (f *Fake) CurrentURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Screenshot writes a placeholder file to path
func (f *Fake) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("fake screenshot of "+f.CurrentURL()), 0644)
}

// Fork returns a new fake sharing the pages and current URL
func (f *Fake) Fork(ctx context.Context) (browser.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.Forkable {
		return nil, fmt.Errorf("fork not supported")
	}
	if f.ForkErr != nil {
		return nil, f.ForkErr
	}

	forked := New(f.Pages)
	for k, v := range f.Redirects {
		forked.Redirects[k] = v
	}
	for k, v := range f.XPathPresent {
		forked.XPathPresent[k] = v
	}
	forked.current = f.current
	f.forks = append(f.forks, forked)
	return forked, nil
}

// Close marks the fake closed
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// SetCurrent makes url the current page without recording a navigation
func (f *Fake) SetCurrent(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = url
}

// Navigations returns every URL passed to Navigate
func (f *Fake) Navigations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.navigations...)
}

// Fills returns every recorded Fill
func (f *Fake) Fills() []FilledValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FilledValue(nil), f.fills...)
}

// Clicks returns the ids of every clicked element
func (f *Fake) Clicks() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.clicks...)
}

// URLWaits returns the number of WaitForURL calls
func (f *Fake) URLWaits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.urlWaits
}

// Closed reports whether Close was called
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Forks returns every driver created by Fork
func (f *Fake) Forks() []*Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Fake(nil), f.forks...)
}
