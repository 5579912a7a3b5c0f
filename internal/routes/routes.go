package routes

import (
	"net/http"

	"github.com/BradenHooton/portfolio/internal/handlers"
	"github.com/BradenHooton/portfolio/internal/middleware"
	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
	"github.com/go-chi/chi/v5"
)

// Handlers groups the HTTP handlers mounted under /api
type Handlers struct {
	CSRF        *handlers.CSRFHandler
	Contact     *handlers.ContactHandler
	Pricing     *handlers.PricingHandler
	Partnership *handlers.PartnershipHandler
	Content     *handlers.ContentHandler
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, h Handlers, rateLimit middleware.RateLimitConfig, ipConfig *pkghttp.IPConfig) {
	router.Get("/health", Health)

	router.Route("/api", func(r chi.Router) {
		// Coarse per-client guard; the form endpoints apply their own windows too
		r.Use(middleware.RateLimitByIP(rateLimit, ipConfig))

		r.Get("/csrf", h.CSRF.GetToken)

		r.Post("/contact", h.Contact.Submit)
		r.Post("/pricing", h.Pricing.Submit)
		r.Post("/partnership", h.Partnership.Submit)

		if h.Content != nil {
			h.Content.RegisterRoutes(r)
		}
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteNotFound(w, "Not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
