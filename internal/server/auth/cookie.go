package auth

import (
	"net/http"
	"time"
)

// Attach sets the session cookie carrying token, expiring with it.
func (i *TokenIssuer) Attach(w http.ResponseWriter, token string, expires time.Time) {
	maxAge := int(expires.Sub(i.now()).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     i.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   i.cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear instructs the client to drop the session cookie.
func (i *TokenIssuer) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     i.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   i.cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Read returns the session token sent with r, if any.
func (i *TokenIssuer) Read(r *http.Request) (string, bool) {
	c, err := r.Cookie(i.cfg.CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
