package middleware

import (
	"net/http"
	"strconv"
)

// SecurityHeadersConfig holds security headers configuration
type SecurityHeadersConfig struct {
	Env string
	// HSTSMaxAge in seconds; zero uses one year
	HSTSMaxAge int
}

// The API only returns JSON, so nothing it serves needs to load resources
const (
	apiCSP            = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"
	apiCSPDevelopment = "default-src 'self' http: https: ws:; frame-ancestors 'self'"
	defaultHSTSMaxAge = 31536000
	permissionsPolicy = "accelerometer=(), camera=(), geolocation=(), gyroscope=(), microphone=(), payment=(), usb=()"
)

// SecurityHeaders returns a middleware that adds security headers to all responses
func SecurityHeaders(config SecurityHeadersConfig) func(http.Handler) http.Handler {
	production := config.Env == "production"

	maxAge := config.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.Itoa(maxAge) + "; includeSubDomains"

	csp := apiCSPDevelopment
	if production {
		csp = apiCSP
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", csp)
			h.Set("Permissions-Policy", permissionsPolicy)
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			// The portfolio front end lives on another origin and reads these responses
			h.Set("Cross-Origin-Resource-Policy", "cross-origin")

			// Only send HSTS for HTTPS connections in production
			if production && (r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https") {
				h.Set("Strict-Transport-Security", hsts)
			}

			next.ServeHTTP(w, r)
		})
	}
}
