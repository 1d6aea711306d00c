// Package browser wraps the browser automation engine behind a small driver
// contract and builds the page-state predicates used by the login flow and the
// scanners on top of it.
package browser

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// By selects how a Locator value is interpreted
type By int

const (
	ByID By = iota
	ByXPath
	ByCSS
)

// Locator identifies a single element on the current page
type Locator struct {
	By    By
	Value string
}

// ID locates an element by its id attribute
func ID(id string) Locator { return Locator{By: ByID, Value: id} }

// XPath locates an element by an XPath expression
func XPath(expr string) Locator { return Locator{By: ByXPath, Value: expr} }

// CSS locates an element by a CSS selector
func CSS(selector string) Locator { return Locator{By: ByCSS, Value: selector} }

func (l Locator) String() string {
	switch l.By {
	case ByID:
		return fmt.Sprintf("id=%s", l.Value)
	case ByXPath:
		return fmt.Sprintf("xpath=%s", l.Value)
	default:
		return fmt.Sprintf("css=%s", l.Value)
	}
}

// WaitState is the element condition a wait blocks on
type WaitState int

const (
	// Present means the element is attached to the DOM
	Present WaitState = iota
	// Clickable means the element is attached and visible
	Clickable
)

// Driver is the contract the rest of the scanner relies on. Waits return
// false on timeout instead of an error.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, loc Locator, state WaitState, timeout time.Duration) bool
	WaitForURL(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) bool
	Fill(ctx context.Context, loc Locator, text string) error
	Click(ctx context.Context, loc Locator) error
	PageSource(ctx context.Context) (string, error)
	Attribute(ctx context.Context, loc Locator, name string) (string, bool)
	CurrentURL() string
	Screenshot(ctx context.Context, path string) error
	Close() error
}

// Forker is implemented by drivers that can open an independent browsing
// context sharing the current login state.
type Forker interface {
	Fork(ctx context.Context) (Driver, error)
}
