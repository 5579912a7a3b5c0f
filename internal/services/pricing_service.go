package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/portfolio/internal/models"
)

// Delivery estimate parameters
const (
	LargeOrderThreshold = 5000
	largeOrderBaseDays  = 21
	standardBaseDays    = 14
	daysPerFeature      = 2
)

// DeliveryDateLayout is the long date format used for delivery estimates
const DeliveryDateLayout = "January 2, 2006"

// EstimateDelivery returns the UTC calendar day the order should be delivered:
// 21 days for totals above the threshold, else 14, plus 2 per add-on
func EstimateDelivery(now time.Time, totalAmount float64, featureCount int) time.Time {
	days := standardBaseDays
	if totalAmount > LargeOrderThreshold {
		days = largeOrderBaseDays
	}
	days += daysPerFeature * featureCount
	return now.UTC().AddDate(0, 0, days)
}

// FormatDeliveryDate renders an estimate as a long UTC date, e.g. "March 3, 2026"
func FormatDeliveryDate(t time.Time) string {
	return t.UTC().Format(DeliveryDateLayout)
}

// PricingService handles validated pricing/quote submissions
type PricingService struct {
	notifier Notifier
	renderer *EmailRenderer
	config   FormServiceConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewPricingService creates a new PricingService
func NewPricingService(notifier Notifier, renderer *EmailRenderer, config FormServiceConfig, logger *slog.Logger) *PricingService {
	return &PricingService{
		notifier: notifier,
		renderer: renderer,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit assigns an order id, estimates delivery and sends both emails
func (s *PricingService) Submit(ctx context.Context, sub *models.PricingSubmission, clientID string) (*models.PricingResult, error) {
	now := s.now()

	orderID, err := NewOrderID(now)
	if err != nil {
		return nil, err
	}

	result := &models.PricingResult{
		OrderID:           orderID,
		EstimatedDelivery: EstimateDelivery(now, sub.TotalAmount, len(sub.SelectedFeatures)),
	}

	data := EmailData{
		Reference:         orderID,
		ClientID:          clientID,
		Form:              sub,
		EstimatedDelivery: FormatDeliveryDate(result.EstimatedDelivery),
	}

	confirmation, err := s.renderer.Render(EmailPricingConfirmation, sub.Email, s.config.OperatorEmail,
		fmt.Sprintf("%s: order %s received", s.config.SiteName, orderID), data)
	if err != nil {
		return nil, fmt.Errorf("failed to build pricing confirmation: %w", err)
	}

	alert, err := s.renderer.Render(EmailPricingAlert, s.config.OperatorEmail, sub.Email,
		fmt.Sprintf("New order %s: %s (%s)", orderID, sub.ServiceTitle, formatMoney(sub.TotalAmount, sub.Currency)), data)
	if err != nil {
		return nil, fmt.Errorf("failed to build pricing alert: %w", err)
	}

	if err := s.notifier.Dispatch(ctx, confirmation, alert); err != nil {
		return nil, fmt.Errorf("failed to notify order %s: %w", orderID, err)
	}

	s.logger.DebugContext(ctx, "pricing submission dispatched",
		slog.String("reference", orderID),
		slog.String("client_id", clientID))

	return result, nil
}
