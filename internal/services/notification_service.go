package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/portfolio/internal/models"
	pkglogger "github.com/BradenHooton/portfolio/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultNotificationTimeout bounds a whole dispatch, both sends included
const DefaultNotificationTimeout = 5 * time.Second

// NotificationService fans a submission's emails out to the email provider
type NotificationService struct {
	email   EmailService
	timeout time.Duration
	logger  *slog.Logger
}

// NewNotificationService creates a new notification dispatcher
func NewNotificationService(email EmailService, timeout time.Duration, logger *slog.Logger) *NotificationService {
	if timeout <= 0 {
		timeout = DefaultNotificationTimeout
	}
	return &NotificationService{
		email:   email,
		timeout: timeout,
		logger:  logger,
	}
}

// Dispatch sends every message concurrently and waits for all of them.
// A failure in one send does not cancel the others; any failure, or the
// timeout expiring first, is reported as models.ErrNotificationFailed.
func (s *NotificationService) Dispatch(ctx context.Context, messages ...models.EmailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var g errgroup.Group
	errs := make([]error, len(messages))
	for i, msg := range messages {
		i, msg := i, msg // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loopvar semantics)
		g.Go(func() error {
			if err := s.email.SendEmail(ctx, msg); err != nil {
				errs[i] = fmt.Errorf("send to %s: %w", pkglogger.SanitizedEmail(msg.To), err)
				return errs[i]
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	var firstErr error
	select {
	case firstErr = <-done:
	case <-ctx.Done():
		select {
		case firstErr = <-done:
		default:
			// A provider that ignores ctx must not hold the request
			s.logger.Error("notification dispatch timed out",
				slog.Duration("timeout", s.timeout),
				slog.Int("messages", len(messages)))
			return fmt.Errorf("%w: %w", models.ErrNotificationFailed, ctx.Err())
		}
	}
	if firstErr == nil {
		return nil
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Error("notification dispatch failed", slog.Any("error", err))
		return fmt.Errorf("%w: %w", models.ErrNotificationFailed, err)
	}
	return nil
}
