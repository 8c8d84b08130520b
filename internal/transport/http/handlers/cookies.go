package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	// refreshCookiePath scopes the refresh cookie to the refresh endpoint so
	// browsers never attach the long-lived token to other routes.
	refreshCookiePath = "/api/v1/auth/refresh"
)

// CookieWriter stamps auth cookies with consistent attributes. Secure is
// disabled only in development so local HTTP clients work.
type CookieWriter struct {
	secure     bool
	accessTTL  int
	refreshTTL int
}

// NewCookieWriter builds a writer from the environment name and token lifetimes in seconds.
func NewCookieWriter(env string, accessTTLSeconds, refreshTTLSeconds int) *CookieWriter {
	return &CookieWriter{
		secure:     env != "development",
		accessTTL:  accessTTLSeconds,
		refreshTTL: refreshTTLSeconds,
	}
}

// SetAuthCookies writes the access and refresh token cookies.
func (w *CookieWriter) SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, accessToken, w.accessTTL, "/", "", w.secure, true)
	c.SetCookie(refreshTokenCookie, refreshToken, w.refreshTTL, refreshCookiePath, "", w.secure, true)
}

// SetAccessCookie rewrites only the access token cookie.
func (w *CookieWriter) SetAccessCookie(c *gin.Context, accessToken string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, accessToken, w.accessTTL, "/", "", w.secure, true)
}

// SetRefreshCookie rewrites only the refresh token cookie.
func (w *CookieWriter) SetRefreshCookie(c *gin.Context, refreshToken string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshTokenCookie, refreshToken, w.refreshTTL, refreshCookiePath, "", w.secure, true)
}

// ClearAuthCookies expires both auth cookies.
func (w *CookieWriter) ClearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", w.secure, true)
	c.SetCookie(refreshTokenCookie, "", -1, refreshCookiePath, "", w.secure, true)
}
