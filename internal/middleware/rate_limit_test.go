package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedHandler(t *testing.T, perMinute int, trusted ...string) http.Handler {
	t.Helper()
	ipConfig, err := pkghttp.NewIPConfig(trusted)
	require.NoError(t, err)

	return RateLimitByIP(RateLimitConfig{RequestsPerMinute: perMinute}, ipConfig)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)
}

func get(handler http.Handler, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/blog", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRateLimitByIP_RejectsOverLimit(t *testing.T) {
	handler := limitedHandler(t, 2)

	assert.Equal(t, http.StatusOK, get(handler, "192.0.2.1:1000", "").Code)
	assert.Equal(t, http.StatusOK, get(handler, "192.0.2.1:1001", "").Code)

	w := get(handler, "192.0.2.1:1002", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestRateLimitByIP_SeparateClients(t *testing.T) {
	handler := limitedHandler(t, 1)

	assert.Equal(t, http.StatusOK, get(handler, "192.0.2.1:1000", "").Code)
	assert.Equal(t, http.StatusOK, get(handler, "192.0.2.2:1000", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(handler, "192.0.2.1:1000", "").Code)
}

func TestRateLimitByIP_IgnoresSpoofedHeaderFromUntrustedPeer(t *testing.T) {
	handler := limitedHandler(t, 1)

	assert.Equal(t, http.StatusOK, get(handler, "192.0.2.1:1000", "198.51.100.1").Code)
	// A different forwarded address does not buy a fresh bucket
	assert.Equal(t, http.StatusTooManyRequests, get(handler, "192.0.2.1:1000", "198.51.100.2").Code)
}

func TestRateLimitByIP_KeysOnForwardedClientBehindProxy(t *testing.T) {
	handler := limitedHandler(t, 1, "10.0.0.0/8")

	assert.Equal(t, http.StatusOK, get(handler, "10.0.0.5:1000", "198.51.100.1").Code)
	assert.Equal(t, http.StatusOK, get(handler, "10.0.0.5:1000", "198.51.100.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(handler, "10.0.0.5:1000", "198.51.100.1").Code)
}
