package browser

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires installed playwright browsers
func TestPlaywrightDriver(t *testing.T) {
	if os.Getenv("UPWORK_BROWSER_TESTS") != "1" {
		t.Skip("set UPWORK_BROWSER_TESTS=1 to run browser tests")
	}

	ctx := context.Background()
	d, err := NewPlaywrightDriver(ctx, PlaywrightOptions{Headless: true, ActionTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer d.Close()

	page := "data:text/html," + url.PathEscape(`<html><body>
		<input id="login_username">
		<a id="profile" href="/freelancers/~01">profile</a>
		<div style="display:none" id="hidden"></div>
	</body></html>`)
	require.NoError(t, d.Navigate(ctx, page))

	assert.True(t, d.WaitFor(ctx, ID("login_username"), Clickable, time.Second))
	assert.True(t, d.WaitFor(ctx, ID("hidden"), Present, time.Second))
	assert.False(t, d.WaitFor(ctx, ID("hidden"), Clickable, 500*time.Millisecond))
	assert.False(t, d.WaitFor(ctx, ID("missing"), Present, 500*time.Millisecond))
	assert.True(t, d.WaitForURL(ctx, regexp.MustCompile(`^data:`), time.Second))

	require.NoError(t, d.Fill(ctx, ID("login_username"), "user"))
	value, ok := d.Attribute(ctx, ID("profile"), "href")
	assert.True(t, ok)
	assert.Equal(t, "/freelancers/~01", value)

	source, err := d.PageSource(ctx)
	require.NoError(t, err)
	assert.Contains(t, source, "login_username")

	shot := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, d.Screenshot(ctx, shot))
	assert.FileExists(t, shot)

	forked, err := d.Fork(ctx)
	require.NoError(t, err)
	assert.NoError(t, forked.Close())
}
