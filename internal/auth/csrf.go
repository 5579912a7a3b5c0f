package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"time"
)

// DefaultCSRFTokenTTL is the lifetime of the csrf-token cookie
const DefaultCSRFTokenTTL = time.Hour

// csrfTokenBytes gives 256 bits of entropy per token
const csrfTokenBytes = 32

// CSRFTokenManager issues and checks double-submit anti-forgery tokens.
// It keeps no server-side state: the cookie is the only record of an issued
// token, and a token expires when its cookie does.
type CSRFTokenManager struct {
	tokenTTL time.Duration
	random   io.Reader
}

// NewCSRFTokenManager creates a new CSRF token manager
func NewCSRFTokenManager(tokenTTL time.Duration) *CSRFTokenManager {
	if tokenTTL <= 0 {
		tokenTTL = DefaultCSRFTokenTTL
	}
	return &CSRFTokenManager{
		tokenTTL: tokenTTL,
		random:   rand.Reader,
	}
}

// TokenTTL returns how long an issued token stays valid
func (m *CSRFTokenManager) TokenTTL() time.Duration {
	return m.tokenTTL
}

// GenerateToken creates a new random token
func (m *CSRFTokenManager) GenerateToken() (string, error) {
	randomBytes := make([]byte, csrfTokenBytes)
	if _, err := io.ReadFull(m.random, randomBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(randomBytes), nil
}

// ValidateToken checks the token echoed in the request body against the one
// stored in the cookie. Both must be present and identical.
func (m *CSRFTokenManager) ValidateToken(submitted, stored string) bool {
	if submitted == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
