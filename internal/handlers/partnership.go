package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/BradenHooton/portfolio/internal/models"
	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
)

// PartnershipService defines the interface for partnership business logic
type PartnershipService interface {
	Submit(ctx context.Context, sub *models.PartnershipSubmission, clientID string) (*models.PartnershipResult, error)
}

// PartnershipHandler handles partnership proposals
type PartnershipHandler struct {
	service PartnershipService
	gate    *FormGate
}

// NewPartnershipHandler creates a new PartnershipHandler
func NewPartnershipHandler(service PartnershipService, gate *FormGate) *PartnershipHandler {
	return &PartnershipHandler{
		service: service,
		gate:    gate,
	}
}

// PartnershipResponse represents an accepted partnership proposal
type PartnershipResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	PartnershipID string   `json:"partnershipId"`
	NextSteps     []string `json:"nextSteps"`
}

// Submit accepts a partnership proposal
//
// @Summary Submit a partnership proposal
// @Accept json
// @Produce json
// @Success 200 {object} PartnershipResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/partnership [post]
func (h *PartnershipHandler) Submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var sub models.PartnershipSubmission
	clientID, ok := h.gate.Admit(w, r, FormPartnership, &sub)
	if !ok {
		return
	}

	result, err := h.service.Submit(r.Context(), &sub, clientID)
	if err != nil {
		h.gate.Fail(w, r, FormPartnership, clientID, sub.Email, err)
		return
	}

	h.gate.Accepted(r, FormPartnership, clientID, sub.Email, result.PartnershipID, start)
	pkghttp.WriteJSON(w, http.StatusOK, PartnershipResponse{
		Success:       true,
		Message:       "Thanks for your partnership proposal! I will be in touch soon.",
		PartnershipID: result.PartnershipID,
		NextSteps:     result.NextSteps,
	})
}
