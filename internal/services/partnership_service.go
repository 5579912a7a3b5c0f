package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/portfolio/internal/models"
)

var nextStepsByType = map[string][]string{
	models.PartnershipStrategic: {
		"Initial strategy call within 48 hours",
		"Alignment workshop to define shared goals",
		"Partnership proposal with a joint roadmap",
		"Agreement signature and kickoff",
	},
	models.PartnershipTechnical: {
		"Technical discovery call within 48 hours",
		"Architecture and integration review",
		"Proof of concept scoping",
		"Implementation plan and kickoff",
	},
	models.PartnershipCommercial: {
		"Commercial discussion within 48 hours",
		"Market fit and revenue model review",
		"Terms proposal",
		"Agreement and launch planning",
	},
	models.PartnershipOther: {
		"Review of your proposal within 48 hours",
		"Introductory call to explore the fit",
		"Tailored partnership proposal",
	},
}

// NextSteps returns the follow-up plan for a partnership type. Unrecognized
// types get the "other" plan. The returned slice is a copy.
func NextSteps(partnershipType string) []string {
	steps, ok := nextStepsByType[partnershipType]
	if !ok {
		steps = nextStepsByType[models.PartnershipOther]
	}
	return append([]string(nil), steps...)
}

// PartnershipService handles validated partnership submissions
type PartnershipService struct {
	notifier Notifier
	renderer *EmailRenderer
	config   FormServiceConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewPartnershipService creates a new PartnershipService
func NewPartnershipService(notifier Notifier, renderer *EmailRenderer, config FormServiceConfig, logger *slog.Logger) *PartnershipService {
	return &PartnershipService{
		notifier: notifier,
		renderer: renderer,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit assigns a partnership id, picks the next steps and sends both emails
func (s *PartnershipService) Submit(ctx context.Context, sub *models.PartnershipSubmission, clientID string) (*models.PartnershipResult, error) {
	partnershipID, err := NewPartnershipID(s.now())
	if err != nil {
		return nil, err
	}

	result := &models.PartnershipResult{
		PartnershipID: partnershipID,
		NextSteps:     NextSteps(sub.PartnershipType),
	}

	data := EmailData{
		Reference: partnershipID,
		ClientID:  clientID,
		Form:      sub,
		NextSteps: result.NextSteps,
	}

	confirmation, err := s.renderer.Render(EmailPartnershipConfirmation, sub.Email, s.config.OperatorEmail,
		fmt.Sprintf("%s: partnership request received", s.config.SiteName), data)
	if err != nil {
		return nil, fmt.Errorf("failed to build partnership confirmation: %w", err)
	}

	subject := fmt.Sprintf("New %s partnership request from %s", sub.PartnershipType, sub.Name)
	if sub.Company != "" {
		subject += " (" + sub.Company + ")"
	}
	alert, err := s.renderer.Render(EmailPartnershipAlert, s.config.OperatorEmail, sub.Email, subject, data)
	if err != nil {
		return nil, fmt.Errorf("failed to build partnership alert: %w", err)
	}

	if err := s.notifier.Dispatch(ctx, confirmation, alert); err != nil {
		return nil, fmt.Errorf("failed to notify partnership %s: %w", partnershipID, err)
	}

	s.logger.DebugContext(ctx, "partnership submission dispatched",
		slog.String("reference", partnershipID),
		slog.String("client_id", clientID))

	return result, nil
}
