package models

import "time"

// Supported quote currencies
const (
	CurrencyUSD = "USD"
	CurrencyTND = "TND"
)

// MaxQuoteAmount bounds every price on a quote, well above any real project
const MaxQuoteAmount = 10_000_000

// SelectedFeature is an add-on chosen in the pricing calculator
type SelectedFeature struct {
	ID       string  `json:"id" validate:"required,max=100"`
	Name     string  `json:"name" validate:"required,max=200"`
	Price    float64 `json:"price" validate:"gte=0,lte=10000000"`
	Category string  `json:"category" validate:"required,max=100"`
}

// PricingSubmission is the body of POST /api/pricing
type PricingSubmission struct {
	Name             string            `json:"name" validate:"required,min=2,max=50,personname"`
	Email            string            `json:"email" validate:"required,email,max=100"`
	ProjectDetails   string            `json:"projectDetails" validate:"required,min=10,max=2000"`
	ServiceID        string            `json:"serviceId" validate:"required,max=100"`
	ServiceTitle     string            `json:"serviceTitle" validate:"required,max=200"`
	BasePrice        *float64          `json:"basePrice" validate:"required,gte=0,lte=10000000"`
	Currency         string            `json:"currency" validate:"required,oneof=USD TND"`
	TotalAmount      float64           `json:"totalAmount" validate:"gt=0,lte=10000000"`
	SelectedFeatures []SelectedFeature `json:"selectedFeatures" validate:"max=50,dive"`
	Website          string            `json:"website" validate:"honeypot"`
	CSRFToken        string            `json:"csrfToken"`
}

// GetCSRFToken returns the token echoed back by the client
func (s *PricingSubmission) GetCSRFToken() string { return s.CSRFToken }

// GetEmail returns the submitter's address
func (s *PricingSubmission) GetEmail() string { return s.Email }

// PricingResult holds the response-only values derived from a pricing submission
type PricingResult struct {
	OrderID           string
	EstimatedDelivery time.Time
}
