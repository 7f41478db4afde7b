// Package routes defines the API routing configuration.
// It wires repositories, services and handlers and groups routes by
// functionality with the appropriate middleware.
package routes

import (
	"net/http"
	"time"

	"nexuspay/internal/config"
	"nexuspay/internal/handlers"
	"nexuspay/internal/middleware"
	"nexuspay/internal/models"
	"nexuspay/internal/repositories"
	"nexuspay/internal/services/auth"
	"nexuspay/internal/services/card"
	"nexuspay/internal/services/fees"
	"nexuspay/internal/services/forwarder"
	"nexuspay/internal/services/ramp"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, logger *zap.Logger) {
	// Repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	cardRepo := repositories.NewCreditCardRepository(db)
	rampRepo := repositories.NewRampTransactionRepository(db)

	// Services
	authService := auth.NewService(userRepo, logger.Named("auth"))
	cardService := card.NewService(cardRepo, config.GetEnv("STRIPE_SECRET_KEY", ""), logger.Named("card"))
	rampService := ramp.NewService(
		rampRepo,
		userRepo,
		cardService,
		fees.NewCalculator(),
		repositories.CacheService,
		logger.Named("ramp"),
	)

	// Webhook forwarders share one HTTP client; the KPLC variant carries the
	// shorter per-attempt timeout.
	backendURL := config.MpesaBackendURL()
	httpClient := &http.Client{}
	mpesaForwarder := forwarder.New(backendURL, httpClient, forwarder.DefaultPolicy(), logger.Named("forwarder"))
	kplcPolicy := forwarder.DefaultPolicy()
	kplcPolicy.Timeout = config.GetDurationEnv("KPLC_FORWARD_TIMEOUT", 25*time.Second)
	kplcForwarder := forwarder.New(backendURL, httpClient, kplcPolicy, logger.Named("forwarder.kplc"))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	rampHandler := handlers.NewRampHandler(rampService)
	cardHandler := handlers.NewCreditCardHandler(cardService)
	webhookHandler := handlers.NewWebhookHandler(mpesaForwarder, kplcForwarder, logger.Named("webhook"))

	app.Get("/health", handlers.HealthCheck)

	// Provider-facing webhook endpoints (no auth; providers can't sign in)
	setupWebhookRoutes(app, webhookHandler)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.Logout)

	setupRampRoutes(protected, rampHandler)
	setupCardRoutes(protected, cardHandler)
}

func setupWebhookRoutes(app *fiber.App, h *handlers.WebhookHandler) {
	wh := app.Group("/webhooks", h.CORS)

	wh.Post("/webhook", h.HandleGeneric)
	wh.Post("/stk-callback", h.HandleSTKCallback)
	wh.Post("/b2c-callback", h.HandleGeneric)
	wh.Post("/b2b-callback", h.HandleB2BCallback)
	wh.Post("/queue-timeout", h.HandleQueueTimeout)
	wh.Post("/kplc-token", h.HandleKPLCToken)
}

func setupRampRoutes(router fiber.Router, h *handlers.RampHandler) {
	rampGroup := router.Group("/ramp")

	rampGroup.Post("/transaction", middleware.HasPermission(models.PermissionRampWrite), h.CreateTransaction)
	rampGroup.Get("/transactions", middleware.HasPermission(models.PermissionRampRead), h.GetTransactions)
	rampGroup.Get("/stats", middleware.HasPermission(models.PermissionRampRead), h.GetStats)
	rampGroup.Post("/calculate-savings", middleware.HasPermission(models.PermissionRampRead), h.CalculateSavings)
}

func setupCardRoutes(router fiber.Router, h *handlers.CreditCardHandler) {
	router.Post("/credit-card", middleware.HasPermission(models.PermissionCardWrite), h.LinkCard)
	router.Get("/credit-card", h.GetCards)
	router.Delete("/credit-card/:id", middleware.HasPermission(models.PermissionCardWrite), h.DeleteCard)
}
