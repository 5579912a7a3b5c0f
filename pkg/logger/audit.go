package logger

import (
	"context"
	"log/slog"
	"time"
)

// Submission outcomes recorded by the audit log
const (
	OutcomeAccepted     = "accepted"
	OutcomeRateLimited  = "rate_limited"
	OutcomeInvalidCSRF  = "invalid_csrf"
	OutcomeInvalidInput = "invalid_input"
	OutcomeBadBody      = "bad_body"
	OutcomeDispatchFail = "dispatch_failed"
	OutcomeError        = "error"
)

// SubmissionEvent represents one pass through the form submission pipeline
type SubmissionEvent struct {
	Form       string // contact, pricing, partnership
	Outcome    string
	ClientID   string
	Email      string // masked before logging
	Reference  string // order id, partnership id or submission uuid
	ErrorCount int
	Duration   time.Duration
}

// SubmissionLogger writes structured audit records for form submissions
type SubmissionLogger struct {
	logger *slog.Logger
}

// NewSubmissionLogger creates a new submission audit logger
func NewSubmissionLogger(logger *slog.Logger) *SubmissionLogger {
	return &SubmissionLogger{
		logger: logger,
	}
}

// Log records a submission event. Accepted submissions log at info, gate
// rejections at warn and failures after the gates at error.
func (sl *SubmissionLogger) Log(ctx context.Context, event SubmissionEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "submission"),
		slog.String("form", event.Form),
		slog.String("outcome", event.Outcome),
		slog.String("client_id", event.ClientID),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.Email != "" {
		attrs = append(attrs, slog.String("email", SanitizedEmail(event.Email)))
	}
	if event.Reference != "" {
		attrs = append(attrs, slog.String("reference", event.Reference))
	}
	if event.ErrorCount > 0 {
		attrs = append(attrs, slog.Int("error_count", event.ErrorCount))
	}
	if event.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", event.Duration))
	}

	level := slog.LevelWarn
	switch event.Outcome {
	case OutcomeAccepted:
		level = slog.LevelInfo
	case OutcomeDispatchFail, OutcomeError, OutcomeBadBody:
		level = slog.LevelError
	}

	sl.logger.LogAttrs(ctx, level, "audit", attrs...)
}
