package browser_test

import (
	"context"
	"errors"
	"testing"

	"sjsage522/upworkscanner/config"
	"sjsage522/upworkscanner/internal/browser"
	"sjsage522/upworkscanner/internal/browser/browsertest"
	scanerrors "sjsage522/upworkscanner/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var site = config.Site{
	LoginURL:       "https://www.upwork.com/ab/account-security/login",
	HomepageURL:    "https://www.upwork.com/nx/find-work/",
	ContactInfoURL: "https://www.upwork.com/freelancers/settings/contactInfo",
	ProfileURL:     "https://www.upwork.com/freelancers/~01abc",
}

func newSession(fake *browsertest.Fake) *browser.Session {
	return browser.NewSession(fake, config.Credentials{Username: "user", Password: "pass"}, site, browser.DefaultTimeouts())
}

func TestPagePredicates(t *testing.T) {
	ctx := context.Background()
	fake := browsertest.New(map[string]string{
		site.HomepageURL:    `<html><body><span id="nav-notifications-label"></span><div data-test="announcements"></div></body></html>`,
		site.ContactInfoURL: `<html><body><nav data-test="settings-nav"></nav></body></html>`,
		site.ProfileURL:     `<html><body><h2 class="mb-0">Engineer</h2></body></html>`,
		"https://www.upwork.com/other": `<html><body><div data-test="announcements"></div></body></html>`,
	})
	s := newSession(fake)

	fake.SetCurrent(site.HomepageURL)
	assert.True(t, s.IsLogged(ctx))
	assert.True(t, s.IsAtHomepage(ctx))
	assert.False(t, s.IsAtContactInfoPage(ctx))
	assert.False(t, s.IsAtProfilePage(ctx))

	// marker without the matching URL
	fake.SetCurrent("https://www.upwork.com/other")
	assert.False(t, s.IsAtHomepage(ctx))
	assert.False(t, s.IsLogged(ctx))

	fake.SetCurrent(site.ContactInfoURL)
	assert.True(t, s.IsAtContactInfoPage(ctx))

	fake.SetCurrent(site.ProfileURL)
	assert.True(t, s.IsAtProfilePage(ctx))

	// a query string is not the exact homepage
	fake.SetCurrent(site.HomepageURL + "?tab=saved")
	assert.False(t, s.IsAtHomepage(ctx))
	assert.Equal(t, 7, fake.URLWaits())
}

func TestPredicatesWaitForRedirect(t *testing.T) {
	ctx := context.Background()
	fake := browsertest.New(map[string]string{
		site.HomepageURL: `<html><body><div data-test="announcements"></div></body></html>`,
	})
	s := newSession(fake)

	// still on the login page when the check starts
	fake.SetCurrent(site.LoginURL)
	fake.Settle = site.HomepageURL
	assert.True(t, s.IsAtHomepage(ctx))
	assert.Empty(t, fake.Navigations())

	fake.SetCurrent(site.LoginURL)
	fake.Settle = site.ProfileURL
	assert.True(t, s.IsAtProfilePage(ctx))
}

func TestElementPresence(t *testing.T) {
	ctx := context.Background()
	fake := browsertest.New(map[string]string{
		site.LoginURL: `<html><body><input id="login_username"></body></html>`,
	})
	fake.SetCurrent(site.LoginURL)
	s := newSession(fake)

	assert.True(t, s.IsElementPresent(ctx, "login_username"))
	assert.False(t, s.IsElementPresent(ctx, "login_password"))
}

func TestEnterTextAndClick(t *testing.T) {
	ctx := context.Background()
	fake := browsertest.New(map[string]string{
		site.LoginURL: `<html><body><input id="login_username"><button id="login_password_continue"></button></body></html>`,
	})
	fake.SetCurrent(site.LoginURL)
	s := newSession(fake)

	require.NoError(t, s.EnterTextWhenLoaded(ctx, "login_username", "user"))
	require.NoError(t, s.ClickElement(ctx, "login_password_continue"))

	fills := fake.Fills()
	require.Len(t, fills, 1)
	assert.Equal(t, "login_username", fills[0].Locator.Value)
	assert.Equal(t, "user", fills[0].Text)
	assert.Equal(t, []string{"login_password_continue"}, fake.Clicks())

	// a missing element surfaces as a browser error after the wait times out
	err := s.ClickElement(ctx, "login_control_continue")
	require.Error(t, err)
	var scanErr *scanerrors.ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.Equal(t, scanerrors.ErrorTypeBrowser, scanErr.Type)
}

func TestProfileLink(t *testing.T) {
	ctx := context.Background()
	fake := browsertest.New(map[string]string{
		site.HomepageURL: `<html><body>
			<a href="/nx/find-work/best-matches">Best matches</a>
			<a href="/freelancers/~0199aa">View profile</a>
		</body></html>`,
		"https://www.upwork.com/nx/empty": `<html><body></body></html>`,
		"https://www.upwork.com/nx/blank": `<html><body><a href=" /freelancers/ ">x</a><a>y</a></body></html>`,
	})
	s := newSession(fake)

	fake.SetCurrent(site.HomepageURL)
	assert.Equal(t, "https://www.upwork.com/freelancers/~0199aa", s.ProfileLink(ctx, "/freelancers/"))

	fake.SetCurrent("https://www.upwork.com/nx/empty")
	assert.Equal(t, site.ProfileURL, s.ProfileLink(ctx, "/freelancers/~"))

	// an href with padding is trimmed before resolving
	fake.SetCurrent("https://www.upwork.com/nx/blank")
	assert.Equal(t, "https://www.upwork.com/freelancers/", s.ProfileLink(ctx, "/freelancers/"))

	// the page source is never read
	fake.SourceErr = errors.New("source unavailable")
	fake.SetCurrent(site.HomepageURL)
	assert.Equal(t, "https://www.upwork.com/freelancers/~0199aa", s.ProfileLink(ctx, "/freelancers/~"))
}

func TestFork(t *testing.T) {
	ctx := context.Background()
	fake := browsertest.New(map[string]string{})
	s := newSession(fake)

	_, err := s.Fork(ctx)
	assert.Error(t, err)

	fake.Forkable = true
	forked, err := s.Fork(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Credentials, forked.Credentials)
	assert.NotSame(t, s.Driver, forked.Driver)
	assert.Len(t, fake.Forks(), 1)
}
