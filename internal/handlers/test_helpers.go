package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/BradenHooton/portfolio/internal/auth"
	"github.com/BradenHooton/portfolio/internal/content"
	"github.com/BradenHooton/portfolio/internal/models"
	"github.com/BradenHooton/portfolio/internal/services"
	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// TestCSRFToken is a well-formed token tests can send in both cookie and body
const TestCSRFToken = "3f9a1c0d5e7b2a4c6d8e0f1a3b5c7d9e1f2a4b6c8d0e2f4a6b8c0d2e4f6a8b0c"

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.10:52000"
	return req
}

// WithCSRFCookie attaches the csrf-token cookie to a request
func WithCSRFCookie(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: auth.CSRFCookieName, Value: token})
	return req
}

// NewTestFormGate builds a gate around a real sliding window limiter with
// default policies and a discarded logger
func NewTestFormGate(limiter services.RateLimiter, development bool) *FormGate {
	if limiter == nil {
		limiter = services.NewSlidingWindowRateLimiter(DiscardLogger())
	}
	return NewFormGate(FormGateConfig{
		Limiter:     limiter,
		CSRF:        auth.NewCSRFTokenManager(auth.DefaultCSRFTokenTTL),
		Development: development,
		Logger:      DiscardLogger(),
	})
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response and returns it
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) pkghttp.ErrorResponse {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.False(t, resp.Success, "Error responses must report success=false")
	if expectedMessage != "" {
		assert.Equal(t, expectedMessage, resp.Message, "Error message mismatch")
	}
	return resp
}

// MockContactService implements ContactService for testing
type MockContactService struct {
	SubmitFunc func(ctx context.Context, sub *models.ContactSubmission, clientID string) (*models.ContactResult, error)

	mu    sync.Mutex
	calls int
}

func (m *MockContactService) Submit(ctx context.Context, sub *models.ContactSubmission, clientID string) (*models.ContactResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.SubmitFunc == nil {
		return &models.ContactResult{Reference: "ref-1", ResponseTime: services.ResponseTime(sub.Urgency, sub.ProjectType)}, nil
	}
	return m.SubmitFunc(ctx, sub, clientID)
}

// CallCount returns how many submissions reached the service
func (m *MockContactService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockPricingService implements PricingService for testing
type MockPricingService struct {
	SubmitFunc func(ctx context.Context, sub *models.PricingSubmission, clientID string) (*models.PricingResult, error)

	mu    sync.Mutex
	calls int
}

func (m *MockPricingService) Submit(ctx context.Context, sub *models.PricingSubmission, clientID string) (*models.PricingResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.SubmitFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SubmitFunc(ctx, sub, clientID)
}

// CallCount returns how many submissions reached the service
func (m *MockPricingService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockPartnershipService implements PartnershipService for testing
type MockPartnershipService struct {
	SubmitFunc func(ctx context.Context, sub *models.PartnershipSubmission, clientID string) (*models.PartnershipResult, error)

	mu    sync.Mutex
	calls int
}

func (m *MockPartnershipService) Submit(ctx context.Context, sub *models.PartnershipSubmission, clientID string) (*models.PartnershipResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.SubmitFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.SubmitFunc(ctx, sub, clientID)
}

// CallCount returns how many submissions reached the service
func (m *MockPartnershipService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockContentStore implements ContentStore for testing
type MockContentStore struct {
	ListFunc func(collection, tag string) []content.Entry
	GetFunc  func(collection, slug string) (content.Entry, error)
}

func (m *MockContentStore) List(collection, tag string) []content.Entry {
	if m.ListFunc == nil {
		return []content.Entry{}
	}
	return m.ListFunc(collection, tag)
}

func (m *MockContentStore) Get(collection, slug string) (content.Entry, error) {
	if m.GetFunc == nil {
		return content.Entry{}, models.ErrNotFound
	}
	return m.GetFunc(collection, slug)
}

// WithChiRouteContext adds chi URL parameters to request context for testing
// This helper allows tests to set URL parameters that would normally be extracted
// by the Chi router from the URL path.
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
