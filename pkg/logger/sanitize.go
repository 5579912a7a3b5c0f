package logger

import (
	"net/url"
	"strings"
)

// SanitizedEmail masks an email address for logging (e.g., "j***@e******.com")
func SanitizedEmail(email string) string {
	username, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || username == "" || domain == "" || strings.Contains(domain, "@") {
		return "[invalid-email]"
	}

	username = maskTail(username)

	// Keep the TLD, mask every other label
	labels := strings.Split(domain, ".")
	if len(labels) > 1 {
		for i := 0; i < len(labels)-1; i++ {
			labels[i] = maskTail(labels[i])
		}
		domain = strings.Join(labels, ".")
	}

	return username + "@" + domain
}

func maskTail(s string) string {
	r := []rune(s)
	if len(r) <= 1 {
		return s
	}
	return string(r[0]) + strings.Repeat("*", len(r)-1)
}

var sensitiveParams = []string{
	"token", "csrf", "secret", "password", "email", "api_key", "apikey", "auth",
}

// SanitizeQueryString reports whether the query string names a sensitive
// parameter and should be redacted as a whole
func SanitizeQueryString(rawQuery string) bool {
	if rawQuery == "" {
		return false
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		// Unparseable queries are redacted rather than logged verbatim
		return true
	}
	for key := range values {
		lower := strings.ToLower(key)
		for _, param := range sensitiveParams {
			if strings.Contains(lower, param) {
				return true
			}
		}
	}
	return false
}
