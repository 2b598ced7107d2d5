package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/erp/checkout/internal/application/billing"
	checkoutapp "github.com/erp/checkout/internal/application/checkout"
	referenceapp "github.com/erp/checkout/internal/application/reference"
	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/infrastructure/auth"
	"github.com/erp/checkout/internal/infrastructure/cache"
	"github.com/erp/checkout/internal/infrastructure/config"
	"github.com/erp/checkout/internal/infrastructure/logger"
	"github.com/erp/checkout/internal/infrastructure/payment"
	"github.com/erp/checkout/internal/infrastructure/persistence"
	"github.com/erp/checkout/internal/infrastructure/storage"
	"github.com/erp/checkout/internal/infrastructure/telemetry"
	"github.com/erp/checkout/internal/interfaces/http/handler"
	"github.com/erp/checkout/internal/interfaces/http/middleware"
	"github.com/erp/checkout/internal/interfaces/http/router"

	_ "github.com/erp/checkout/docs"
)

const version = "1.0.0"

//	@title			Checkout API
//	@version		1.0
//	@description	Hosted checkout sessions, payment webhooks and subscription provisioning.

//	@contact.name	API Support
//	@contact.url	https://github.com/erp/checkout

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	bootLog := logger.New(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.NewProviders(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log := logger.New(logCfg, providers.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	defer func() { _ = log.Sync() }()

	log.Info("Starting checkout service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	if err := run(ctx, cfg, providers, log); err != nil {
		log.Error("Service stopped with error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, providers *telemetry.Providers, log *zap.Logger) error {
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database,
		logger.NewGormLogger(log.Named("gorm"), logger.GormLevel(cfg.Log.Level), 200*time.Millisecond))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}, log); err != nil {
		return err
	}

	checkouts := persistence.NewGormHostedCheckoutRepository(db.DB)
	billingEntities := persistence.NewGormBillingEntityRepository(db.DB)
	subscriptions := persistence.NewGormSubscriptionRepository(db.DB)
	featureUsages := persistence.NewGormFeatureUsageRepository(db.DB)
	plans := persistence.NewGormPlanRepository(db.DB)
	pricebooks := persistence.NewGormPricebookRepository(db.DB)
	countries := persistence.NewGormCountryRepository(db.DB)

	gateways, err := buildGateways(cfg, log)
	if err != nil {
		return err
	}

	throttle, err := cache.NewPollThrottleFactory(cfg.Redis, cfg.Checkout.LivePollInterval,
		cache.WithLogger(log)).CreateStore()
	if err != nil {
		return err
	}
	defer func() { _ = throttle.Close() }()

	var archive checkoutapp.PayloadArchive
	if cfg.Archive.Enabled {
		s3Archive, err := storage.NewS3PayloadArchive(&cfg.Archive, storage.WithLogger(log))
		if err != nil {
			return err
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			return err
		}
		archive = s3Archive
	}

	var metrics checkoutapp.Metrics
	if cfg.Telemetry.MetricsEnabled {
		cm, err := telemetry.NewCheckoutMetrics(telemetry.CheckoutMetricsConfig{
			Meter:  providers.Meter("checkout"),
			Logger: log,
		})
		if err != nil {
			return err
		}
		metrics = cm
	}

	provisioner := checkoutapp.NewProvisioningService(checkoutapp.ProvisioningServiceConfig{
		BillingEntities: billingEntities,
		Subscriptions:   subscriptions,
		FeatureUsages:   featureUsages,
		Plans:           plans,
		Tx:              db,
		Metrics:         metrics,
		Logger:          log,
	})
	sessions := checkoutapp.NewSessionService(checkoutapp.SessionServiceConfig{
		Checkouts:       checkouts,
		BillingEntities: billingEntities,
		Subscriptions:   subscriptions,
		Plans:           plans,
		Pricebooks:      pricebooks,
		Gateways:        gateways,
		Tx:              db,
		DefaultGateway:  cfg.Checkout.DefaultGateway,
		Metrics:         metrics,
		Logger:          log,
	})
	status := checkoutapp.NewStatusService(checkoutapp.StatusServiceConfig{
		Checkouts:     checkouts,
		Subscriptions: subscriptions,
		Plans:         plans,
		Gateways:      gateways,
		Provisioner:   provisioner,
		Throttle:      throttle,
		Tx:            db,
		Metrics:       metrics,
		Logger:        log,
	})
	webhooks := checkoutapp.NewWebhookService(checkoutapp.WebhookServiceConfig{
		Checkouts:       checkouts,
		Provisioner:     provisioner,
		Archive:         archive,
		Tx:              db,
		Secret:          cfg.Checkout.WebhookSecret,
		SignatureHeader: cfg.Checkout.WebhookSignatureHeader,
		Metrics:         metrics,
		Logger:          log,
	})
	transactions := checkoutapp.NewTransactionService(checkoutapp.TransactionServiceConfig{
		Checkouts: checkouts,
		Plans:     plans,
		Logger:    log,
	})
	billingDetails := billingapp.NewBillingDetailsService(billingapp.BillingDetailsServiceConfig{
		BillingEntities: billingEntities,
		Logger:          log,
	})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.Run(ctx)
	}

	deps := router.Deps{Logger: log}
	if cfg.Telemetry.MetricsEnabled {
		deps.Meter = providers.Meter("http")
	}
	if cfg.JWT.Enabled {
		deps.Verifier = auth.NewVerifier(cfg.JWT)
	} else {
		log.Warn("JWT verification disabled, checkout API is unauthenticated")
	}

	engine, err := router.New(router.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: providers.TracingEnabled(),
		HSTS:           cfg.App.Env == "production",
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		CORS: middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		},
		SwaggerEnabled:    cfg.Swagger.Enabled,
		SwaggerAllowedIPs: cfg.Swagger.AllowedIPs,
		RateLimiter:       limiter,
	}, router.Handlers{
		Checkout: handler.NewCheckoutHandler(sessions, status),
		Webhook:  handler.NewWebhookHandler(webhooks, cfg.Checkout.MaxWebhookPayload),
		Billing:  handler.NewBillingHandler(billingDetails, transactions),
		Country:  handler.NewCountryHandler(referenceapp.NewCountryService(countries)),
		Health:   handler.NewHealthHandler(db, version),
	}, deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildGateways registers every enabled provider. A registry without the
// default gateway still starts; sessions for it fail with a configuration error.
func buildGateways(cfg *config.Config, log *zap.Logger) (*checkout.GatewayRegistry, error) {
	registry := checkout.NewGatewayRegistry()

	if cfg.Zoho.Enabled {
		zoho, err := payment.NewZohoBillingGateway(&payment.ZohoConfig{
			APIBaseURL:     cfg.Zoho.APIBaseURL,
			AccountsURL:    cfg.Zoho.AccountsURL,
			OrganizationID: cfg.Zoho.OrganizationID,
			ClientID:       cfg.Zoho.ClientID,
			ClientSecret:   cfg.Zoho.ClientSecret,
			RefreshToken:   cfg.Zoho.RefreshToken,
			Timeout:        cfg.Zoho.Timeout,
			RetryMax:       cfg.Zoho.RetryMax,
		}, log)
		if err != nil {
			return nil, err
		}
		registry.Register(zoho)
	}

	if cfg.Stripe.Enabled {
		stripeGateway, err := payment.NewStripeCheckoutGateway(&payment.StripeConfig{
			SecretKey:  cfg.Stripe.SecretKey,
			PriceIDs:   cfg.Stripe.PriceIDs,
			SuccessURL: cfg.Stripe.SuccessURL,
			CancelURL:  cfg.Stripe.CancelURL,
		}, nil, log)
		if err != nil {
			return nil, err
		}
		registry.Register(stripeGateway)
	}

	log.Info("Payment gateways registered",
		zap.Strings("gateways", registry.Names()),
		zap.String("default", cfg.Checkout.DefaultGateway),
	)
	return registry, nil
}
