package browser

import (
	"github.com/playwright-community/playwright-go"
)

// ToOptionalCookie converts a cookie read from a context into the form
// accepted by AddCookies
func ToOptionalCookie(c playwright.Cookie) playwright.OptionalCookie {
	cookie := playwright.OptionalCookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   playwright.String(c.Domain),
		Path:     playwright.String(c.Path),
		HttpOnly: playwright.Bool(c.HttpOnly),
		Secure:   playwright.Bool(c.Secure),
		SameSite: c.SameSite,
	}

	// session cookies report -1
	if c.Expires > 0 {
		cookie.Expires = playwright.Float(c.Expires)
	}
	return cookie
}

// ToOptionalCookies converts every cookie in cookies
func ToOptionalCookies(cookies []playwright.Cookie) []playwright.OptionalCookie {
	out := make([]playwright.OptionalCookie, len(cookies))
	for i, c := range cookies {
		out[i] = ToOptionalCookie(c)
	}
	return out
}
