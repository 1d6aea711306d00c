package browser

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"sjsage522/upworkscanner/config"
	"sjsage522/upworkscanner/logger"
	scanerrors "sjsage522/upworkscanner/pkg/errors"
)

const (
	loggedInMarker    = "nav-notifications-label"
	homepageMarker    = "[data-test='announcements']"
	contactInfoMarker = "[data-test='settings-nav']"
	profileURLMarker  = "www.upwork.com/freelancers/~"
)

var profileURLPattern = regexp.MustCompile(regexp.QuoteMeta(profileURLMarker))

// Timeouts bounds the two kinds of element waits
type Timeouts struct {
	// Standard applies to interactive waits
	Standard time.Duration
	// Presence applies to quick probes for optional elements
	Presence time.Duration
}

// DefaultTimeouts returns the 10s/3s wait bounds
func DefaultTimeouts() Timeouts {
	return Timeouts{Standard: 10 * time.Second, Presence: 3 * time.Second}
}

// Session couples a driver with the account it logs into and the site it
// browses. A session is owned by one goroutine at a time.
type Session struct {
	Driver      Driver
	Credentials config.Credentials
	Site        config.Site
	Timeouts    Timeouts

	log *logger.Logger
}

// NewSession creates a session over driver
func NewSession(driver Driver, creds config.Credentials, site config.Site, timeouts Timeouts) *Session {
	return &Session{
		Driver:      driver,
		Credentials: creds,
		Site:        site,
		Timeouts:    timeouts,
		log:         logger.ForBrowser(),
	}
}

// IsLogged reports whether the logged-in navigation marker shows up
func (s *Session) IsLogged(ctx context.Context) bool {
	return s.Driver.WaitFor(ctx, ID(loggedInMarker), Present, s.Timeouts.Standard)
}

// IsAtHomepage reports whether the job feed is the current page, waiting
// for a pending redirect to settle
func (s *Session) IsAtHomepage(ctx context.Context) bool {
	if !s.waitForURL(ctx, exactURL(s.Site.HomepageURL)) {
		return false
	}
	return s.Driver.WaitFor(ctx, CSS(homepageMarker), Present, s.Timeouts.Standard)
}

// IsAtContactInfoPage reports whether the contact-info settings page is current
func (s *Session) IsAtContactInfoPage(ctx context.Context) bool {
	if !s.waitForURL(ctx, exactURL(s.Site.ContactInfoURL)) {
		return false
	}
	return s.Driver.WaitFor(ctx, CSS(contactInfoMarker), Present, s.Timeouts.Standard)
}

// IsAtProfilePage reports whether a freelancer profile page is current
func (s *Session) IsAtProfilePage(ctx context.Context) bool {
	return s.waitForURL(ctx, profileURLPattern)
}

// IsElementPresent probes for an element id using the short presence timeout
func (s *Session) IsElementPresent(ctx context.Context, id string) bool {
	return s.Driver.WaitFor(ctx, ID(id), Present, s.Timeouts.Presence)
}

func (s *Session) waitForURL(ctx context.Context, pattern *regexp.Regexp) bool {
	return s.Driver.WaitForURL(ctx, pattern, s.Timeouts.Standard)
}

// exactURL matches target and nothing else
func exactURL(target string) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(target) + "$")
}

// EnterTextWhenLoaded waits for the element to become clickable and types text
// into it. A wait timeout is only logged; the fill is still attempted.
func (s *Session) EnterTextWhenLoaded(ctx context.Context, id, text string) error {
	loc := ID(id)
	if !s.Driver.WaitFor(ctx, loc, Clickable, s.Timeouts.Standard) {
		s.log.Warn().Str("element", id).Msg("Timed out waiting for input")
	}
	if err := s.Driver.Fill(ctx, loc, text); err != nil {
		return scanerrors.NewBrowser(id, "failed to enter text", err)
	}
	return nil
}

// ClickElement waits for the element to become clickable and clicks it
func (s *Session) ClickElement(ctx context.Context, id string) error {
	loc := ID(id)
	if !s.Driver.WaitFor(ctx, loc, Clickable, s.Timeouts.Standard) {
		s.log.Warn().Str("element", id).Msg("Timed out waiting for clickable element")
	}
	if err := s.Driver.Click(ctx, loc); err != nil {
		return scanerrors.NewBrowser(id, "failed to click", err)
	}
	return nil
}

// Navigate loads target in the session's driver
func (s *Session) Navigate(ctx context.Context, target string) error {
	if err := s.Driver.Navigate(ctx, target); err != nil {
		return scanerrors.NewBrowser("navigate", fmt.Sprintf("failed to open %s", target), err)
	}
	return nil
}

// ProfileLink returns the href of the first link on the current page that
// contains pattern, made absolute against the site. The configured profile
// URL is returned when no such link exists.
func (s *Session) ProfileLink(ctx context.Context, pattern string) string {
	loc := CSS(fmt.Sprintf("a[href*=%q]", pattern))
	if !s.Driver.WaitFor(ctx, loc, Present, s.Timeouts.Presence) {
		return s.Site.ProfileURL
	}
	href, ok := s.Driver.Attribute(ctx, loc, "href")
	if !ok || strings.TrimSpace(href) == "" {
		return s.Site.ProfileURL
	}
	return s.resolve(strings.TrimSpace(href))
}

func (s *Session) resolve(href string) string {
	base, err := url.Parse(s.Site.HomepageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// Fork returns a new session on an independent browsing context that shares
// the current login state. It fails when the driver cannot fork.
func (s *Session) Fork(ctx context.Context) (*Session, error) {
	forker, ok := s.Driver.(Forker)
	if !ok {
		return nil, scanerrors.NewBrowser("fork", "driver does not support forking", nil)
	}
	driver, err := forker.Fork(ctx)
	if err != nil {
		return nil, scanerrors.NewBrowser("fork", "failed to fork browser context", err)
	}
	return NewSession(driver, s.Credentials, s.Site, s.Timeouts), nil
}

// Close releases the underlying driver
func (s *Session) Close() error {
	return s.Driver.Close()
}
