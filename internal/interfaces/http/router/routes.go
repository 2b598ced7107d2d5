package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/erp/checkout/internal/infrastructure/logger"
	"github.com/erp/checkout/internal/interfaces/http/handler"
	"github.com/erp/checkout/internal/interfaces/http/middleware"
)

// Config holds the HTTP surface settings
type Config struct {
	ServiceName    string
	TracingEnabled bool
	HSTS           bool
	TrustedProxies []string

	// MaxBodySize caps API request bodies. Webhook bodies are capped by the
	// webhook handler.
	MaxBodySize int64

	CORS middleware.CORSConfig

	SwaggerEnabled    bool
	SwaggerAllowedIPs []string

	// RateLimiter, when set, limits API requests per client IP
	RateLimiter *middleware.RateLimiter
}

// Handlers are the endpoint handlers
type Handlers struct {
	Checkout *handler.CheckoutHandler
	Webhook  *handler.WebhookHandler
	Billing  *handler.BillingHandler
	Country  *handler.CountryHandler
	Health   *handler.HealthHandler
}

// Deps are the cross-cutting collaborators of the engine
type Deps struct {
	Logger *zap.Logger
	// Meter enables HTTP metrics when non-nil
	Meter metric.Meter
	// Verifier enables bearer authentication when non-nil
	Verifier middleware.TokenVerifier
}

// New builds the gin engine with middleware and all checkout routes
func New(cfg Config, h Handlers, deps Deps) (*gin.Engine, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	metrics, err := middleware.HTTPMetrics(deps.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create http metrics: %w", err)
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(cfg.ServiceName, cfg.TracingEnabled),
		logger.GinMiddleware(log),
		metrics,
		middleware.Secure(cfg.HSTS),
		middleware.CORS(cfg.CORS),
	)

	engine.GET("/health", h.Health.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.SwaggerEnabled, cfg.SwaggerAllowedIPs),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := []gin.HandlerFunc{middleware.BodyLimit(cfg.MaxBodySize)}
	if cfg.RateLimiter != nil {
		authed = append(authed, middleware.RateLimit(cfg.RateLimiter))
	}
	if deps.Verifier != nil {
		authed = append(authed, middleware.Auth(deps.Verifier, log))
	}
	authed = append(authed, middleware.SpanAttributes())

	checkoutGroup := NewDomainGroup("checkout", "/checkout").Use(authed...).
		POST("/hosted-pages", h.Checkout.CreateHostedPage).
		GET("/sessions/:orderId", h.Checkout.GetSession).
		POST("/status", h.Checkout.CheckStatus).
		POST("/status/local", h.Checkout.CheckLocalStatus)

	billingGroup := NewDomainGroup("billing", "/billing").Use(authed...).
		GET("/details", h.Billing.GetBillingDetails).
		GET("/transactions", h.Billing.ListTransactions)

	webhookGroup := NewDomainGroup("webhooks", "/webhooks").
		POST("/payments", h.Webhook.HandlePayment)

	referenceGroup := NewDomainGroup("reference", "/countries").
		GET("", h.Country.ListCountries).
		GET("/:isoCode", h.Country.GetCountry)

	systemGroup := NewDomainGroup("system", "/health").
		GET("", h.Health.Health)

	NewRouter(engine).
		Register(checkoutGroup).
		Register(billingGroup).
		Register(webhookGroup).
		Register(referenceGroup).
		Register(systemGroup).
		Setup()

	return engine, nil
}
