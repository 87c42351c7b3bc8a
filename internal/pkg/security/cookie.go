package security

import (
	"net/http"
	"time"
)

// NewSecureCookie bakes an HttpOnly, Secure, SameSite=Strict cookie. Strict
// same-site keeps the refresh cookie out of cross-origin requests, which is
// the CSRF mitigation for the cookie-bearing auth flow.
func NewSecureCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
