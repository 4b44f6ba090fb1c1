// Package session exposes the caller's session token to the fetch client.
package session

import (
	"net/http"
	"net/url"
)

// DefaultCookieName is the cookie that carries the session token.
const DefaultCookieName = "token"

// TokenSource yields the current session token. ok is false when no token is
// available, which is a valid state.
type TokenSource interface {
	Token() (token string, ok bool)
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func() (string, bool)

// Token implements TokenSource.
func (f TokenFunc) Token() (string, bool) { return f() }

// Static returns a source that always yields token. An empty token is absent.
func Static(token string) TokenSource {
	return TokenFunc(func() (string, bool) {
		return token, token != ""
	})
}

// None returns a source with no token.
func None() TokenSource {
	return TokenFunc(func() (string, bool) { return "", false })
}

type cookieSource struct {
	jar  http.CookieJar
	u    *url.URL
	name string
}

// Cookie reads the named cookie that jar would send to u.
// An empty name selects DefaultCookieName.
func Cookie(jar http.CookieJar, u *url.URL, name string) TokenSource {
	if name == "" {
		name = DefaultCookieName
	}
	return &cookieSource{jar: jar, u: u, name: name}
}

func (c *cookieSource) Token() (string, bool) {
	if c.jar == nil || c.u == nil {
		return "", false
	}
	for _, ck := range c.jar.Cookies(c.u) {
		if ck.Name == c.name && ck.Value != "" {
			return ck.Value, true
		}
	}
	return "", false
}
