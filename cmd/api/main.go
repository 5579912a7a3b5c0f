package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BradenHooton/portfolio/internal/auth"
	"github.com/BradenHooton/portfolio/internal/background"
	"github.com/BradenHooton/portfolio/internal/config"
	"github.com/BradenHooton/portfolio/internal/content"
	"github.com/BradenHooton/portfolio/internal/handlers"
	middlewareCustom "github.com/BradenHooton/portfolio/internal/middleware"
	"github.com/BradenHooton/portfolio/internal/routes"
	"github.com/BradenHooton/portfolio/internal/services"
	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Server.SlogLevel()}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("email_provider", cfg.Email.Provider))

	ipConfig, err := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Error("invalid TRUSTED_PROXIES", slog.Any("error", err))
		os.Exit(1)
	}

	// Email provider
	var emailService services.EmailService
	switch cfg.Email.Provider {
	case config.EmailProviderSES:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		sesService, err := services.NewAWSSESEmailService(ctx, cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		cancel()
		if err != nil {
			logger.Error("failed to initialize email service", slog.Any("error", err))
			os.Exit(1)
		}
		emailService = sesService
	default:
		emailService = services.NewLogEmailService(logger)
	}

	renderer, err := services.NewEmailRenderer(cfg.Email.SiteName)
	if err != nil {
		logger.Error("failed to parse email templates", slog.Any("error", err))
		os.Exit(1)
	}

	notifier := services.NewNotificationService(emailService, cfg.Email.SendTimeout, logger)
	formConfig := services.FormServiceConfig{
		OperatorEmail: cfg.Email.OperatorAddress,
		SiteName:      cfg.Email.SiteName,
	}

	// Initialize services
	contactService := services.NewContactService(notifier, renderer, formConfig, logger)
	pricingService := services.NewPricingService(notifier, renderer, formConfig, logger)
	partnershipService := services.NewPartnershipService(notifier, renderer, formConfig, logger)

	// Rate limiting and CSRF
	limiter := services.NewSlidingWindowRateLimiter(logger)
	csrfManager := auth.NewCSRFTokenManager(cfg.CSRF.TokenTTL)
	cookieConfig := auth.CookieConfig{
		Domain:   cfg.CSRF.CookieDomain,
		Secure:   cfg.Server.Env == "production",
		SameSite: "strict",
	}

	gate := handlers.NewFormGate(handlers.FormGateConfig{
		Limiter:  limiter,
		CSRF:     csrfManager,
		IPConfig: ipConfig,
		Policies: map[string]services.RateLimitPolicy{
			handlers.FormContact:     policy(cfg.Forms.Contact),
			handlers.FormPricing:     policy(cfg.Forms.Pricing),
			handlers.FormPartnership: policy(cfg.Forms.Partnership),
		},
		Development: cfg.Server.IsDevelopment(),
		Logger:      logger,
	})

	// Site content
	contentLoader := content.NewLoader(cfg.Content.Dir, logger)
	if err := contentLoader.Load(); err != nil {
		logger.Error("failed to load content", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(limiter, contentLoader, background.CleanupConfig{
		SweepInterval:  cfg.Forms.SweepInterval,
		Retention:      cfg.Forms.Retention,
		ReloadInterval: cfg.Content.ReloadInterval,
	}, logger)

	// Setup router. chi's RealIP is not used: it trusts forwarded headers from
	// any peer, which would let clients choose their own rate limit bucket.
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger, ipConfig))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.HandlerTimeout))

	// Register routes
	routes.RegisterRoutes(router, routes.Handlers{
		CSRF:        handlers.NewCSRFHandler(csrfManager, cookieConfig, logger),
		Contact:     handlers.NewContactHandler(contactService, gate),
		Pricing:     handlers.NewPricingHandler(pricingService, gate),
		Partnership: handlers.NewPartnershipHandler(partnershipService, gate),
		Content:     handlers.NewContentHandler(contentLoader),
	}, middlewareCustom.RateLimitConfig{RequestsPerMinute: cfg.Server.APIRateLimit}, ipConfig)

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func policy(rl config.RateLimit) services.RateLimitPolicy {
	return services.RateLimitPolicy{Window: rl.Window, MaxRequests: rl.MaxRequests}
}
