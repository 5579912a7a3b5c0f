package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/BradenHooton/portfolio/internal/models"
	"github.com/BradenHooton/portfolio/internal/services"
	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
)

// PricingService defines the interface for pricing/quote business logic
type PricingService interface {
	Submit(ctx context.Context, sub *models.PricingSubmission, clientID string) (*models.PricingResult, error)
}

// PricingHandler handles pricing calculator submissions
type PricingHandler struct {
	service PricingService
	gate    *FormGate
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(service PricingService, gate *FormGate) *PricingHandler {
	return &PricingHandler{
		service: service,
		gate:    gate,
	}
}

// PricingResponse represents an accepted quote request
type PricingResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	OrderID           string `json:"orderId"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// Submit accepts a quote request from the pricing calculator
//
// @Summary Submit a pricing request
// @Accept json
// @Produce json
// @Success 200 {object} PricingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/pricing [post]
func (h *PricingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var sub models.PricingSubmission
	clientID, ok := h.gate.Admit(w, r, FormPricing, &sub)
	if !ok {
		return
	}

	result, err := h.service.Submit(r.Context(), &sub, clientID)
	if err != nil {
		h.gate.Fail(w, r, FormPricing, clientID, sub.Email, err)
		return
	}

	h.gate.Accepted(r, FormPricing, clientID, sub.Email, result.OrderID, start)
	pkghttp.WriteJSON(w, http.StatusOK, PricingResponse{
		Success:           true,
		Message:           "Your order request has been received. Check your inbox for a summary.",
		OrderID:           result.OrderID,
		EstimatedDelivery: services.FormatDeliveryDate(result.EstimatedDelivery),
	})
}
