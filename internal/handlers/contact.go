package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/BradenHooton/portfolio/internal/models"
	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
)

// ContactService defines the interface for contact form business logic
type ContactService interface {
	Submit(ctx context.Context, sub *models.ContactSubmission, clientID string) (*models.ContactResult, error)
}

// ContactHandler handles contact form submissions
type ContactHandler struct {
	service ContactService
	gate    *FormGate
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(service ContactService, gate *FormGate) *ContactHandler {
	return &ContactHandler{
		service: service,
		gate:    gate,
	}
}

// ContactResponse represents a successful contact submission
type ContactResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ResponseTime string `json:"responseTime"`
}

// Submit accepts a contact message
//
// @Summary Submit the contact form
// @Accept json
// @Produce json
// @Success 200 {object} ContactResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/contact [post]
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var sub models.ContactSubmission
	clientID, ok := h.gate.Admit(w, r, FormContact, &sub)
	if !ok {
		return
	}

	result, err := h.service.Submit(r.Context(), &sub, clientID)
	if err != nil {
		h.gate.Fail(w, r, FormContact, clientID, sub.Email, err)
		return
	}

	h.gate.Accepted(r, FormContact, clientID, sub.Email, result.Reference, start)
	pkghttp.WriteJSON(w, http.StatusOK, ContactResponse{
		Success:      true,
		Message:      "Thanks for reaching out! Your message has been sent.",
		ResponseTime: result.ResponseTime,
	})
}
