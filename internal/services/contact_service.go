package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/portfolio/internal/models"
	"github.com/google/uuid"
)

// Promised reply windows for contact messages
const (
	ResponseTimeUrgent    = "1-4 hours"
	ResponseTimeFreelance = "12-24 hours"
	ResponseTimeDefault   = "24-48 hours"
)

// ResponseTime picks the reply window promised for a contact message
func ResponseTime(urgency, projectType string) string {
	switch {
	case urgency == models.UrgencyUrgent:
		return ResponseTimeUrgent
	case projectType == models.ProjectTypeFreelance:
		return ResponseTimeFreelance
	default:
		return ResponseTimeDefault
	}
}

// ContactService handles validated contact form submissions
type ContactService struct {
	notifier Notifier
	renderer *EmailRenderer
	config   FormServiceConfig
	logger   *slog.Logger
}

// NewContactService creates a new ContactService
func NewContactService(notifier Notifier, renderer *EmailRenderer, config FormServiceConfig, logger *slog.Logger) *ContactService {
	return &ContactService{
		notifier: notifier,
		renderer: renderer,
		config:   config,
		logger:   logger,
	}
}

// Submit derives the response time and sends the confirmation and alert emails
func (s *ContactService) Submit(ctx context.Context, sub *models.ContactSubmission, clientID string) (*models.ContactResult, error) {
	result := &models.ContactResult{
		Reference:    uuid.NewString(),
		ResponseTime: ResponseTime(sub.Urgency, sub.ProjectType),
	}

	data := EmailData{
		Reference:    result.Reference,
		ClientID:     clientID,
		Form:         sub,
		ResponseTime: result.ResponseTime,
	}

	confirmation, err := s.renderer.Render(EmailContactConfirmation, sub.Email, s.config.OperatorEmail,
		fmt.Sprintf("%s: thanks for your message", s.config.SiteName), data)
	if err != nil {
		return nil, fmt.Errorf("failed to build contact confirmation: %w", err)
	}

	alert, err := s.renderer.Render(EmailContactAlert, s.config.OperatorEmail, sub.Email,
		fmt.Sprintf("[%s] %s contact from %s", sub.Urgency, sub.ProjectType, sub.Name), data)
	if err != nil {
		return nil, fmt.Errorf("failed to build contact alert: %w", err)
	}

	if err := s.notifier.Dispatch(ctx, confirmation, alert); err != nil {
		return nil, fmt.Errorf("failed to notify contact submission %s: %w", result.Reference, err)
	}

	s.logger.DebugContext(ctx, "contact submission dispatched",
		slog.String("reference", result.Reference),
		slog.String("client_id", clientID))

	return result, nil
}
