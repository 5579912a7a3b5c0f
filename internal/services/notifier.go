package services

import (
	"context"

	"github.com/BradenHooton/portfolio/internal/models"
)

// Notifier delivers the emails produced by a submission
type Notifier interface {
	Dispatch(ctx context.Context, messages ...models.EmailMessage) error
}

// FormServiceConfig holds settings shared by the submission services
type FormServiceConfig struct {
	OperatorEmail string // receives the alert for every submission
	SiteName      string // prefixed to email subjects
}
