package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Email providers
const (
	EmailProviderSES = "ses"
	EmailProviderLog = "log"
)

type Config struct {
	Server  ServerConfig
	CSRF    CSRFConfig
	Forms   FormsConfig
	Email   EmailConfig
	Content ContentConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string
	APIRateLimit   int // requests per minute per client across /api
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	HandlerTimeout time.Duration
}

type CSRFConfig struct {
	TokenTTL     time.Duration
	CookieDomain string
}

// RateLimit is the sliding window applied to one form endpoint
type RateLimit struct {
	Window      time.Duration
	MaxRequests int
}

type FormsConfig struct {
	Contact       RateLimit
	Pricing       RateLimit
	Partnership   RateLimit
	SweepInterval time.Duration
	Retention     time.Duration
}

type EmailConfig struct {
	Provider        string
	AWSRegion       string
	FromAddress     string
	OperatorAddress string
	SendTimeout     time.Duration
	SiteName        string
}

type ContentConfig struct {
	Dir            string
	ReloadInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	defaultProvider := EmailProviderLog
	if env == "production" {
		defaultProvider = EmailProviderSES
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: getEnvAsSlice("TRUSTED_PROXIES", nil),
			APIRateLimit:   getEnvAsInt("API_RATE_LIMIT_PER_MINUTE", 60),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			HandlerTimeout: getEnvAsDuration("SERVER_HANDLER_TIMEOUT", 30*time.Second),
		},
		CSRF: CSRFConfig{
			TokenTTL:     getEnvAsDuration("CSRF_TOKEN_TTL", time.Hour),
			CookieDomain: getEnv("CSRF_COOKIE_DOMAIN", ""),
		},
		Forms: FormsConfig{
			Contact:       getRateLimit("CONTACT"),
			Pricing:       getRateLimit("PRICING"),
			Partnership:   getRateLimit("PARTNERSHIP"),
			SweepInterval: getEnvAsDuration("RATE_LIMIT_SWEEP_INTERVAL", time.Minute),
			Retention:     getEnvAsDuration("RATE_LIMIT_RETENTION", time.Hour),
		},
		Email: EmailConfig{
			Provider:        strings.ToLower(getEnv("EMAIL_PROVIDER", defaultProvider)),
			AWSRegion:       getEnv("AWS_REGION", ""),
			FromAddress:     getEnv("EMAIL_FROM", ""),
			OperatorAddress: getEnv("EMAIL_OPERATOR", ""),
			SendTimeout:     getEnvAsDuration("EMAIL_SEND_TIMEOUT", 5*time.Second),
			SiteName:        getEnv("SITE_NAME", "Portfolio"),
		},
		Content: ContentConfig{
			Dir:            getEnv("CONTENT_DIR", "content"),
			ReloadInterval: getEnvAsDuration("CONTENT_RELOAD_INTERVAL", 5*time.Minute),
		},
	}

	// The log provider never delivers, so local runs work without addresses
	if cfg.Email.Provider == EmailProviderLog {
		if cfg.Email.FromAddress == "" {
			cfg.Email.FromAddress = "no-reply@localhost"
		}
		if cfg.Email.OperatorAddress == "" {
			cfg.Email.OperatorAddress = "operator@localhost"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects configurations the server cannot run with
func (c *Config) validate() error {
	var errs []error

	switch c.Email.Provider {
	case EmailProviderLog:
		if c.Server.Env == "production" {
			errs = append(errs, fmt.Errorf("EMAIL_PROVIDER=%s is not allowed in production", EmailProviderLog))
		}
	case EmailProviderSES:
		if c.Email.AWSRegion == "" {
			errs = append(errs, errors.New("AWS_REGION is required for the ses email provider"))
		}
		if c.Email.FromAddress == "" {
			errs = append(errs, errors.New("EMAIL_FROM is required for the ses email provider"))
		}
		if c.Email.OperatorAddress == "" {
			errs = append(errs, errors.New("EMAIL_OPERATOR is required for the ses email provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_PROVIDER %q (want %s or %s)", c.Email.Provider, EmailProviderSES, EmailProviderLog))
	}

	if c.CSRF.TokenTTL <= 0 {
		errs = append(errs, errors.New("CSRF_TOKEN_TTL must be positive"))
	}
	if c.Forms.SweepInterval <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_SWEEP_INTERVAL must be positive"))
	}
	if c.Content.ReloadInterval <= 0 {
		errs = append(errs, errors.New("CONTENT_RELOAD_INTERVAL must be positive"))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether internal error detail may be shown to clients
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *ServerConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getRateLimit reads <PREFIX>_RATE_LIMIT_WINDOW and <PREFIX>_RATE_LIMIT_MAX.
// Every form defaults to 5 requests per 15 minutes.
func getRateLimit(prefix string) RateLimit {
	return RateLimit{
		Window:      getEnvAsDuration(prefix+"_RATE_LIMIT_WINDOW", 15*time.Minute),
		MaxRequests: getEnvAsInt(prefix+"_RATE_LIMIT_MAX", 5),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

// getEnvAsSlice splits a comma separated variable, dropping empty entries
func getEnvAsSlice(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if origins := getEnvAsSlice("ALLOWED_ORIGINS", nil); origins != nil {
		return origins
	}

	if env == "production" {
		return []string{} // Default to no origins in production
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:4321", // Astro default
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:4321",
		"http://127.0.0.1:5173",
	}
}
