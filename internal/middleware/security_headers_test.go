package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveWithHeaders(config SecurityHeadersConfig, req *http.Request) *httptest.ResponseRecorder {
	handler := SecurityHeaders(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders_Production(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/csrf", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	w := serveWithHeaders(SecurityHeadersConfig{Env: "production"}, req)

	tests := []struct {
		header   string
		expected string
	}{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", apiCSP},
		{"Cross-Origin-Resource-Policy", "cross-origin"},
		{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, w.Header().Get(tt.header), tt.header)
	}
	assert.NotEmpty(t, w.Header().Get("Permissions-Policy"))
}

func TestSecurityHeaders_NoHSTSOverPlainHTTP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	w := serveWithHeaders(SecurityHeadersConfig{Env: "production"}, req)

	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_CustomHSTSMaxAge(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	w := serveWithHeaders(SecurityHeadersConfig{Env: "production", HSTSMaxAge: 600}, req)

	assert.Equal(t, "max-age=600; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_Development(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	w := serveWithHeaders(SecurityHeadersConfig{Env: "development"}, req)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, apiCSPDevelopment, w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS is production only")
}
