package routes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BradenHooton/portfolio/internal/auth"
	"github.com/BradenHooton/portfolio/internal/content"
	"github.com/BradenHooton/portfolio/internal/handlers"
	"github.com/BradenHooton/portfolio/internal/middleware"
	"github.com/BradenHooton/portfolio/internal/models"
	"github.com/BradenHooton/portfolio/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router http.Handler
	email  *services.MockEmailService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	email := &services.MockEmailService{}
	notifier := services.NewNotificationService(email, time.Second, logger)
	renderer, err := services.NewEmailRenderer("Studio")
	require.NoError(t, err)
	formConfig := services.FormServiceConfig{OperatorEmail: "owner@example.com", SiteName: "Studio"}

	tokens := auth.NewCSRFTokenManager(auth.DefaultCSRFTokenTTL)
	gate := handlers.NewFormGate(handlers.FormGateConfig{
		Limiter: services.NewSlidingWindowRateLimiter(logger),
		CSRF:    tokens,
		Logger:  logger,
	})

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, content.CollectionBlog), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, content.CollectionBlog, "hello.md"),
		[]byte("---\ntitle: Hello\ndate: 2026-01-02\ntags: [go]\n---\nHi there.\n"), 0o644))
	loader := content.NewLoader(dir, logger)
	require.NoError(t, loader.Load())

	router := chi.NewRouter()
	RegisterRoutes(router, Handlers{
		CSRF:        handlers.NewCSRFHandler(tokens, auth.CookieConfig{SameSite: "strict"}, logger),
		Contact:     handlers.NewContactHandler(services.NewContactService(notifier, renderer, formConfig, logger), gate),
		Pricing:     handlers.NewPricingHandler(services.NewPricingService(notifier, renderer, formConfig, logger), gate),
		Partnership: handlers.NewPartnershipHandler(services.NewPartnershipService(notifier, renderer, formConfig, logger), gate),
		Content:     handlers.NewContentHandler(loader),
	}, middleware.RateLimitConfig{RequestsPerMinute: 1000}, nil)

	return &testServer{router: router, email: email}
}

// fetchToken performs GET /api/csrf and returns the issued token
func (s *testServer) fetchToken(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/csrf", nil))

	var resp handlers.CSRFTokenResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	require.NotEmpty(t, resp.CSRFToken)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, resp.CSRFToken, cookies[0].Value)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.True(t, cookies[0].HttpOnly)
	return resp.CSRFToken
}

func (s *testServer) post(t *testing.T, path string, body map[string]interface{}, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := handlers.NewTestRequest(t, http.MethodPost, path, body)
	if cookie != "" {
		handlers.WithCSRFCookie(req, cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func contactForm(token string) map[string]interface{} {
	return map[string]interface{}{
		"name":        "Jane Doe",
		"email":       "jane@example.com",
		"message":     "I would like a new portfolio site.",
		"projectType": "general",
		"urgency":     "standard",
		"website":     "",
		"csrfToken":   token,
	}
}

func pricingForm(token string) map[string]interface{} {
	return map[string]interface{}{
		"name":           "Jane Doe",
		"email":          "jane@example.com",
		"projectDetails": "An online shop for handmade ceramics.",
		"serviceId":      "ecommerce",
		"serviceTitle":   "E-commerce Website",
		"basePrice":      4500,
		"currency":       "USD",
		"totalAmount":    6000,
		"selectedFeatures": []map[string]interface{}{
			{"id": "seo", "name": "SEO Package", "price": 500, "category": "marketing"},
			{"id": "blog", "name": "Blog", "price": 600, "category": "content"},
			{"id": "i18n", "name": "Multilingual", "price": 400, "category": "content"},
		},
		"website":   "",
		"csrfToken": token,
	}
}

func TestContactSubmission_Accepted(t *testing.T) {
	srv := newTestServer(t)
	token := srv.fetchToken(t)

	w := srv.post(t, "/api/contact", contactForm(token), token)

	var resp handlers.ContactResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "24-48 hours", resp.ResponseTime)

	sent := srv.email.Sent()
	require.Len(t, sent, 2)
	recipients := []string{sent[0].To, sent[1].To}
	assert.ElementsMatch(t, []string{"jane@example.com", "owner@example.com"}, recipients)
}

func TestContactSubmission_SixthWithinWindowIsRateLimited(t *testing.T) {
	srv := newTestServer(t)
	token := srv.fetchToken(t)

	for i := 0; i < 5; i++ {
		w := srv.post(t, "/api/contact", contactForm(token), token)
		require.Equal(t, http.StatusOK, w.Code, "submission %d", i+1)
	}

	w := srv.post(t, "/api/contact", contactForm(token), token)

	handlers.AssertErrorResponse(t, w, http.StatusTooManyRequests, "Too many requests. Please try again in 15 minutes.")
	assert.Equal(t, 10, srv.email.CallCount(), "the rejected request sends nothing")
}

func TestPricingSubmission_EstimatesDelivery(t *testing.T) {
	srv := newTestServer(t)
	token := srv.fetchToken(t)

	w := srv.post(t, "/api/pricing", pricingForm(token), token)

	var resp handlers.PricingResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp.Success)
	assert.Regexp(t, `^ORD-\d+-[A-Z0-9]{9}$`, resp.OrderID)
	assert.Equal(t, services.FormatDeliveryDate(time.Now().UTC().AddDate(0, 0, 27)), resp.EstimatedDelivery)
	assert.Equal(t, 2, srv.email.CallCount())
}

func TestPartnershipSubmission_Accepted(t *testing.T) {
	srv := newTestServer(t)
	token := srv.fetchToken(t)

	form := map[string]interface{}{
		"name":               "Sam Lee",
		"email":              "sam@example.com",
		"companySize":        "small",
		"partnershipType":    "commercial",
		"projectDescription": "Reselling your design services to our clients.",
		"website":            "",
		"csrfToken":          token,
	}
	w := srv.post(t, "/api/partnership", form, token)

	var resp handlers.PartnershipResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Regexp(t, `^PART-\d+-[A-Z0-9]{6}$`, resp.PartnershipID)
	assert.Equal(t, services.NextSteps("commercial"), resp.NextSteps)
}

func TestRejectedSubmissionsSendNoEmail(t *testing.T) {
	srv := newTestServer(t)
	token := srv.fetchToken(t)

	// Missing cookie
	w := srv.post(t, "/api/contact", contactForm(token), "")
	handlers.AssertErrorResponse(t, w, http.StatusForbidden, "Invalid CSRF token")

	// Token from a different session
	w = srv.post(t, "/api/contact", contactForm(token), srv.fetchToken(t))
	handlers.AssertErrorResponse(t, w, http.StatusForbidden, "Invalid CSRF token")

	// Filled honeypot
	form := contactForm(token)
	form["website"] = "https://spam.example"
	w = srv.post(t, "/api/contact", form, token)
	handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "Validation failed")

	assert.Equal(t, 0, srv.email.CallCount())
}

func TestSubmission_WrongTypedFieldIsValidationFailure(t *testing.T) {
	srv := newTestServer(t)
	token := srv.fetchToken(t)

	contact := contactForm(token)
	contact["name"] = 12345
	w := srv.post(t, "/api/contact", contact, token)
	resp := handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "Validation failed")
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "name", resp.Errors[0].Field)
	assert.Equal(t, "must be a string", resp.Errors[0].Message)

	pricing := pricingForm(token)
	pricing["totalAmount"] = "6000"
	w = srv.post(t, "/api/pricing", pricing, token)
	resp = handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "Validation failed")
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "totalAmount", resp.Errors[0].Field)
	assert.Equal(t, "must be a number", resp.Errors[0].Message)

	assert.Equal(t, 0, srv.email.CallCount())
}

func TestPricingSubmission_MissingBasePriceIsRejected(t *testing.T) {
	srv := newTestServer(t)
	token := srv.fetchToken(t)

	form := pricingForm(token)
	delete(form, "basePrice")
	w := srv.post(t, "/api/pricing", form, token)

	resp := handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "Validation failed")
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "basePrice", resp.Errors[0].Field)
	assert.Equal(t, 0, srv.email.CallCount())
}

func TestSubmission_EmailOutage(t *testing.T) {
	srv := newTestServer(t)
	srv.email.SendEmailFunc = func(_ context.Context, msg models.EmailMessage) error {
		if msg.To == "owner@example.com" {
			return errors.New("ses throttled")
		}
		return nil
	}
	token := srv.fetchToken(t)

	w := srv.post(t, "/api/contact", contactForm(token), token)

	handlers.AssertErrorResponse(t, w, http.StatusInternalServerError,
		"Email service temporarily unavailable. Please try again in a few minutes.")
	assert.Equal(t, 2, srv.email.CallCount(), "both sends are attempted")
}

func TestContentRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/blog?tag=go", nil))
	var list handlers.ListEntriesResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "hello", list.Entries[0].Slug)

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/resources/missing", nil))
	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "Content not found")
}

func TestHealthAndFallbacks(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health map[string]string
	handlers.AssertJSONResponse(t, w, http.StatusOK, &health)
	assert.Equal(t, "healthy", health["status"])

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	handlers.AssertErrorResponse(t, w, http.StatusNotFound, "Not found")

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
	handlers.AssertErrorResponse(t, w, http.StatusMethodNotAllowed, "Method not allowed")
}
