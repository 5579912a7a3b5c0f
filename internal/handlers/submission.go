package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"reflect"
	"time"

	"github.com/BradenHooton/portfolio/internal/auth"
	"github.com/BradenHooton/portfolio/internal/models"
	"github.com/BradenHooton/portfolio/internal/services"
	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
	pkglogger "github.com/BradenHooton/portfolio/pkg/logger"
)

// MaxSubmissionBytes caps the size of a form submission body
const MaxSubmissionBytes = 64 << 10

// User-facing messages shared by the form endpoints
const (
	msgInvalidCSRF        = "Invalid CSRF token"
	msgValidationFailed   = "Validation failed"
	msgEmailUnavailable   = "Email service temporarily unavailable. Please try again in a few minutes."
	msgUnexpectedFailure  = "An unexpected error occurred. Please try again later."
	msgRateLimitedPattern = "Too many requests. Please try again in %d minutes."
)

// Form names, used as the rate limit key prefix and in audit records
const (
	FormContact     = "contact"
	FormPricing     = "pricing"
	FormPartnership = "partnership"
)

// submission is implemented by every decoded form body
type submission interface {
	GetCSRFToken() string
	GetEmail() string
}

// FormGateConfig holds the collaborators shared by the form endpoints
type FormGateConfig struct {
	Limiter     services.RateLimiter
	CSRF        *auth.CSRFTokenManager
	IPConfig    *pkghttp.IPConfig
	Policies    map[string]services.RateLimitPolicy
	Development bool
	Logger      *slog.Logger
}

// FormGate runs the checks every form submission passes before any side
// effect: parse, identify the client, rate limit, CSRF, schema. Each failing
// step writes the response and stops the pipeline.
type FormGate struct {
	limiter     services.RateLimiter
	csrf        *auth.CSRFTokenManager
	ipConfig    *pkghttp.IPConfig
	policies    map[string]services.RateLimitPolicy
	development bool
	logger      *slog.Logger
	audit       *pkglogger.SubmissionLogger
}

// NewFormGate creates a new FormGate
func NewFormGate(cfg FormGateConfig) *FormGate {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FormGate{
		limiter:     cfg.Limiter,
		csrf:        cfg.CSRF,
		ipConfig:    cfg.IPConfig,
		policies:    cfg.Policies,
		development: cfg.Development,
		logger:      logger,
		audit:       pkglogger.NewSubmissionLogger(logger),
	}
}

// policy returns the rate limit policy for a form, falling back to the default
func (g *FormGate) policy(form string) services.RateLimitPolicy {
	if p, ok := g.policies[form]; ok && p.Window > 0 && p.MaxRequests > 0 {
		return p
	}
	return services.DefaultRateLimitPolicy()
}

// Admit decodes the body into dst and runs every gate. It returns the client
// id and true when the submission may proceed; otherwise the response has
// already been written.
func (g *FormGate) Admit(w http.ResponseWriter, r *http.Request, form string, dst submission) (string, bool) {
	ctx := r.Context()
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, MaxSubmissionBytes)
	typeErrors, err := decodeSubmission(r.Body, dst)
	if err != nil {
		clientID := pkghttp.ExtractClientIP(r, g.ipConfig)
		g.logger.ErrorContext(ctx, "failed to parse submission body",
			slog.String("form", form),
			slog.String("client_id", clientID),
			slog.String("error", err.Error()))
		g.audit.Log(ctx, pkglogger.SubmissionEvent{Form: form, Outcome: pkglogger.OutcomeBadBody, ClientID: clientID})
		g.writeUnexpected(w, fmt.Errorf("%w: %w", models.ErrBadRequest, err))
		return "", false
	}

	clientID := pkghttp.ExtractClientIP(r, g.ipConfig)
	event := pkglogger.SubmissionEvent{Form: form, ClientID: clientID, Email: dst.GetEmail()}

	policy := g.policy(form)
	if !g.limiter.CheckAndRecord(form+":"+clientID, policy.Window, policy.MaxRequests) {
		event.Outcome = pkglogger.OutcomeRateLimited
		event.Duration = time.Since(start)
		g.audit.Log(ctx, event)
		minutes := int(math.Ceil(policy.Window.Minutes()))
		pkghttp.WriteTooManyRequests(w, fmt.Sprintf(msgRateLimitedPattern, minutes))
		return "", false
	}

	if !g.csrf.ValidateToken(dst.GetCSRFToken(), auth.GetCSRFTokenCookie(r)) {
		event.Outcome = pkglogger.OutcomeInvalidCSRF
		event.Duration = time.Since(start)
		g.audit.Log(ctx, event)
		pkghttp.WriteForbidden(w, msgInvalidCSRF)
		return "", false
	}

	if fieldErrors := mergeFieldErrors(typeErrors, ValidateSubmission(dst)); len(fieldErrors) > 0 {
		event.Outcome = pkglogger.OutcomeInvalidInput
		event.ErrorCount = len(fieldErrors)
		event.Duration = time.Since(start)
		g.audit.Log(ctx, event)
		pkghttp.WriteValidationErrors(w, msgValidationFailed, fieldErrors)
		return "", false
	}

	return clientID, true
}

// decodeSubmission decodes body into dst. A field holding valid JSON of the
// wrong type is returned as a field error instead of failing the decode; the
// decoder skips that field and fills the rest.
func decodeSubmission(body io.Reader, dst submission) ([]pkghttp.FieldError, error) {
	err := json.NewDecoder(body).Decode(dst)
	if err == nil {
		return nil, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []pkghttp.FieldError{{
			Field:   typeErr.Field,
			Message: "must be " + jsonTypeName(typeErr.Type),
		}}, nil
	}
	return nil, err
}

// jsonTypeName describes a Go type by the JSON value it accepts
func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "a list"
	default:
		return "an object"
	}
}

// mergeFieldErrors puts decode errors first and drops schema errors reported
// for the same field, which only restate that the field was left empty
func mergeFieldErrors(typeErrors, schemaErrors []pkghttp.FieldError) []pkghttp.FieldError {
	if len(typeErrors) == 0 {
		return schemaErrors
	}
	seen := make(map[string]bool, len(typeErrors))
	for _, fe := range typeErrors {
		seen[fe.Field] = true
	}
	merged := append([]pkghttp.FieldError(nil), typeErrors...)
	for _, fe := range schemaErrors {
		if !seen[fe.Field] {
			merged = append(merged, fe)
		}
	}
	return merged
}

// Accepted records a successful submission
func (g *FormGate) Accepted(r *http.Request, form, clientID, email, reference string, start time.Time) {
	g.audit.Log(r.Context(), pkglogger.SubmissionEvent{
		Form:      form,
		Outcome:   pkglogger.OutcomeAccepted,
		ClientID:  clientID,
		Email:     email,
		Reference: reference,
		Duration:  time.Since(start),
	})
}

// Fail maps an error raised after the gates to a 500 response. Dispatch
// failures get their own message so clients know a retry may succeed.
func (g *FormGate) Fail(w http.ResponseWriter, r *http.Request, form, clientID, email string, err error) {
	ctx := r.Context()

	outcome := pkglogger.OutcomeError
	if errors.Is(err, models.ErrNotificationFailed) {
		outcome = pkglogger.OutcomeDispatchFail
	}

	g.logger.ErrorContext(ctx, "submission failed",
		slog.String("form", form),
		slog.String("client_id", clientID),
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("error", err.Error()))
	g.audit.Log(ctx, pkglogger.SubmissionEvent{
		Form:     form,
		Outcome:  outcome,
		ClientID: clientID,
		Email:    email,
	})

	if outcome == pkglogger.OutcomeDispatchFail {
		pkghttp.WriteInternalError(w, msgEmailUnavailable)
		return
	}
	g.writeUnexpected(w, err)
}

// writeUnexpected writes the generic 500. Internal detail is only exposed in development.
func (g *FormGate) writeUnexpected(w http.ResponseWriter, err error) {
	if g.development {
		pkghttp.WriteErrorWithDetails(w, http.StatusInternalServerError, msgUnexpectedFailure, err.Error())
		return
	}
	pkghttp.WriteInternalError(w, msgUnexpectedFailure)
}
