package handlers

import (
	"log/slog"
	"net/http"

	"github.com/BradenHooton/portfolio/internal/auth"
	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
)

// CSRFHandler issues anti-forgery tokens to the site's forms
type CSRFHandler struct {
	tokens       *auth.CSRFTokenManager
	cookieConfig auth.CookieConfig
	logger       *slog.Logger
}

// NewCSRFHandler creates a new CSRFHandler
func NewCSRFHandler(tokens *auth.CSRFTokenManager, cookieConfig auth.CookieConfig, logger *slog.Logger) *CSRFHandler {
	return &CSRFHandler{
		tokens:       tokens,
		cookieConfig: cookieConfig,
		logger:       logger,
	}
}

// CSRFTokenResponse carries a freshly issued token
type CSRFTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// GetToken issues a new token, stores it in the csrf-token cookie and
// returns it so the form can echo it back in the body
//
// @Summary Issue a CSRF token
// @Produce json
// @Success 200 {object} CSRFTokenResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/csrf [get]
func (h *CSRFHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.GenerateToken()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to generate csrf token", slog.String("error", err.Error()))
		pkghttp.WriteInternalError(w, "Failed to generate CSRF token")
		return
	}

	auth.SetCSRFTokenCookie(w, token, int(h.tokens.TokenTTL().Seconds()), h.cookieConfig)
	w.Header().Set("Cache-Control", "no-store")
	pkghttp.WriteJSON(w, http.StatusOK, CSRFTokenResponse{CSRFToken: token})
}
