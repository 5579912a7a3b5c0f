package auth

import (
	"net/http"
	"strings"
	"time"
)

// CSRFCookieName is the cookie holding the issued anti-forgery token
const CSRFCookieName = "csrf-token"

// CookieConfig holds cookie configuration settings
type CookieConfig struct {
	Domain   string // Empty string = current host only
	Secure   bool   // HTTPS only
	SameSite string // "strict", "lax", or "none"
}

// SetCSRFTokenCookie stores the token in an httpOnly cookie. The page reads
// the token from the /api/csrf response body and echoes it in the form
// payload, so scripts never need cookie access.
func SetCSRFTokenCookie(w http.ResponseWriter, csrfToken string, maxAge int, config CookieConfig) {
	cookie := &http.Cookie{
		Name:     CSRFCookieName,
		Value:    csrfToken,
		Path:     "/",
		Domain:   config.Domain,
		Expires:  time.Now().Add(time.Duration(maxAge) * time.Second),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: parseSameSite(config.SameSite),
	}
	http.SetCookie(w, cookie)
}

// GetCSRFTokenCookie retrieves the CSRF token from cookies. A missing cookie
// yields an empty string, which never validates.
func GetCSRFTokenCookie(r *http.Request) string {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// parseSameSite converts string to http.SameSite constant, ignoring case
func parseSameSite(sameSite string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(sameSite)) {
	case "strict":
		return http.SameSiteStrictMode
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
