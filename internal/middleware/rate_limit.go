package middleware

import (
	"net/http"
	"time"

	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds the coarse per-client limit applied to every /api route
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultAPIRateLimit returns default rate limit config for the API (60 requests per minute).
// The form endpoints enforce their own stricter windows on top of this.
func DefaultAPIRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 60,
	}
}

// RateLimitByIP creates a middleware that rate limits requests by client id,
// resolved with the trusted proxy rules in ipConfig
func RateLimitByIP(config RateLimitConfig, ipConfig *pkghttp.IPConfig) func(next http.Handler) http.Handler {
	limit := config.RequestsPerMinute
	if limit <= 0 {
		limit = DefaultAPIRateLimit().RequestsPerMinute
	}

	return httprate.Limit(
		limit,
		1*time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return pkghttp.ExtractClientIP(r, ipConfig), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Too many requests. Please slow down.")
		}),
	)
}
