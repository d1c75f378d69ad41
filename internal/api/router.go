package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sponsorfinder/sponsorfinder-api/internal/api/handler"
	"github.com/sponsorfinder/sponsorfinder-api/internal/api/middleware"
	"github.com/sponsorfinder/sponsorfinder-api/internal/core/service"
	"github.com/sponsorfinder/sponsorfinder-api/internal/infrastructure/billing"
	"github.com/sponsorfinder/sponsorfinder-api/internal/infrastructure/config"
	mongorepo "github.com/sponsorfinder/sponsorfinder-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/sponsorfinder/sponsorfinder-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("sponsorfinder"))

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(db)
	identityRepo := mongorepo.NewIdentityRepository(db)
	pendingRepo := mongorepo.NewPendingPaymentRepository(db)
	brandRepo := mongorepo.NewBrandRepository(db)
	contactRepo := mongorepo.NewContactRepository(db)

	// --- Payment provider ---
	stripe := billing.New(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.SiteURL, billing.Product{
		Name:        cfg.Stripe.ProductName,
		Description: cfg.Stripe.ProductDesc,
		PriceCents:  cfg.Stripe.PriceCents,
		Currency:    cfg.Stripe.Currency,
	})

	// --- Services ---
	entitlementService := service.NewEntitlementService(userRepo, identityRepo, pendingRepo, log)
	checkoutService := service.NewCheckoutService(stripe, log)
	brandService := service.NewBrandService(brandRepo, contactRepo, userRepo, log)

	// --- Handlers ---
	brandHandler := handler.NewBrandHandler(brandService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	webhookHandler := handler.NewWebhookHandler(stripe, entitlementService, redisinfra.NewEventDedup(rdb), log)
	premiumHandler := handler.NewPremiumHandler(entitlementService)

	auth := middleware.Auth(cfg.AuthJWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.AuthJWTSecret)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API routes ---
	v1 := e.Group("/v1")

	v1.GET("/brands", brandHandler.List, optionalAuth)
	v1.GET("/brands/categories", brandHandler.Categories)

	v1.POST("/checkout/session", checkoutHandler.Create, optionalAuth)
	v1.POST("/premium/activate-pending", premiumHandler.ActivatePending, auth)

	// Signed by Stripe, not by a user token.
	v1.POST("/payments/stripe/webhook", webhookHandler.Receive)

	return e
}
