package browser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"sjsage522/upworkscanner/helpers"
	"sjsage522/upworkscanner/logger"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/time/rate"
)

const (
	windowWidth  = 1920
	windowHeight = 1080
)

// PlaywrightOptions configures the Chromium instance
type PlaywrightOptions struct {
	Headless bool
	// Proxy is an optional proxy server such as http://host:3128
	Proxy string
	// UserAgent overrides the random desktop user agent
	UserAgent string
	// ActionTimeout bounds fills, clicks and attribute reads
	ActionTimeout time.Duration
	// NavigationInterval is the minimum gap between two navigations
	NavigationInterval time.Duration
}

// PlaywrightDriver drives one page of a Chromium browser context
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	limiter *rate.Limiter
	opts    PlaywrightOptions
	// root drivers own the browser process
	root bool
	log  *logger.Logger
}

var _ Driver = (*PlaywrightDriver)(nil)
var _ Forker = (*PlaywrightDriver)(nil)

// NewPlaywrightDriver starts playwright, launches Chromium and opens a fresh
// context with a single page.
func NewPlaywrightDriver(ctx context.Context, opts PlaywrightOptions) (*PlaywrightDriver, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = helpers.RandomUserAgent()
	}
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = DefaultTimeouts().Standard
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{fmt.Sprintf("--window-size=%d,%d", windowWidth, windowHeight)},
	}
	if opts.Proxy != "" {
		launch.Proxy = &playwright.Proxy{Server: opts.Proxy}
	}

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	limit := rate.Inf
	if opts.NavigationInterval > 0 {
		limit = rate.Every(opts.NavigationInterval)
	}

	d := &PlaywrightDriver{
		pw:      pw,
		browser: browser,
		limiter: rate.NewLimiter(limit, 1),
		opts:    opts,
		root:    true,
		log:     logger.ForBrowser(),
	}
	if err := d.openContext(nil); err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, err
	}

	d.log.Info().
		Bool("headless", opts.Headless).
		Bool("proxy", opts.Proxy != "").
		Msg("Browser started")
	return d, nil
}

func (d *PlaywrightDriver) openContext(cookies []playwright.Cookie) error {
	bctx, err := d.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(d.opts.UserAgent),
		Viewport:  &playwright.Size{Width: windowWidth, Height: windowHeight},
	})
	if err != nil {
		return fmt.Errorf("could not create browser context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(d.opts.ActionTimeout.Milliseconds()))

	if len(cookies) > 0 {
		if err := bctx.AddCookies(ToOptionalCookies(cookies)); err != nil {
			_ = bctx.Close()
			return fmt.Errorf("could not copy cookies: %w", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return fmt.Errorf("could not open page: %w", err)
	}

	d.context = bctx
	d.page = page
	return nil
}

func selector(loc Locator) string {
	switch loc.By {
	case ByID:
		return fmt.Sprintf("[id=%q]", loc.Value)
	case ByXPath:
		return "xpath=" + loc.Value
	default:
		return "css=" + loc.Value
	}
}

func milliseconds(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// Navigate loads url, waiting for the navigation limiter first
func (d *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	d.log.Debug().Str("url", url).Msg("Navigating")
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

// WaitFor blocks until the first element matching loc reaches state
func (d *PlaywrightDriver) WaitFor(ctx context.Context, loc Locator, state WaitState, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}

	waitState := playwright.WaitForSelectorStateAttached
	if state == Clickable {
		waitState = playwright.WaitForSelectorStateVisible
	}

	err := d.page.Locator(selector(loc)).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   waitState,
		Timeout: milliseconds(timeout),
	})
	return d.waitResult(err, loc.String(), timeout)
}

// WaitForURL blocks until the page URL matches pattern
func (d *PlaywrightDriver) WaitForURL(ctx context.Context, pattern *regexp.Regexp, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	err := d.page.WaitForURL(pattern, playwright.PageWaitForURLOptions{Timeout: milliseconds(timeout)})
	return d.waitResult(err, pattern.String(), timeout)
}

func (d *PlaywrightDriver) waitResult(err error, target string, timeout time.Duration) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, playwright.ErrTimeout) {
		d.log.Debug().Str("target", target).Dur("timeout", timeout).Msg("Wait timed out")
	} else {
		d.log.Warn().Err(err).Str("target", target).Msg("Wait failed")
	}
	return false
}

// Fill replaces the value of the first element matching loc
func (d *PlaywrightDriver) Fill(ctx context.Context, loc Locator, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.page.Locator(selector(loc)).First().Fill(text)
}

// Click clicks the first element matching loc
func (d *PlaywrightDriver) Click(ctx context.Context, loc Locator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.page.Locator(selector(loc)).First().Click()
}

// PageSource returns the serialized DOM of the current page
func (d *PlaywrightDriver) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.page.Content()
}

// Attribute reads an attribute of the first element matching loc
func (d *PlaywrightDriver) Attribute(ctx context.Context, loc Locator, name string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	value, err := d.page.Locator(selector(loc)).First().GetAttribute(name)
	if err != nil {
		return "", false
	}
	return value, true
}

// CurrentURL returns the URL of the page
func (d *PlaywrightDriver) CurrentURL() string {
	return d.page.URL()
}

// Screenshot saves a full-page PNG to path
func (d *PlaywrightDriver) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// Fork opens a new browser context carrying the cookies of this one. The
// forked driver shares the browser process and the navigation limiter.
func (d *PlaywrightDriver) Fork(ctx context.Context) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cookies, err := d.context.Cookies()
	if err != nil {
		return nil, fmt.Errorf("could not read cookies: %w", err)
	}

	forked := &PlaywrightDriver{
		pw:      d.pw,
		browser: d.browser,
		limiter: d.limiter,
		opts:    d.opts,
		log:     d.log,
	}
	if err := forked.openContext(cookies); err != nil {
		return nil, err
	}
	d.log.Debug().Int("cookies", len(cookies)).Msg("Browser context forked")
	return forked, nil
}

// Close closes the context. Root drivers also shut the browser down.
func (d *PlaywrightDriver) Close() error {
	var errs []error
	if d.context != nil {
		if err := d.context.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if d.root {
		if err := d.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := d.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
		d.log.Info().Msg("Browser stopped")
	}
	return errors.Join(errs...)
}
