package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
	Checkout  CheckoutConfig
	Zoho      ZohoConfig
	Stripe    StripeConfig
	Archive   ArchiveConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port for the redis client
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds settings for validating bearer tokens on the checkout API.
// Tokens are issued elsewhere; this service only verifies them.
type JWTConfig struct {
	Enabled bool
	Secret  string
	Issuer  string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled    bool
	AllowedIPs []string // IP whitelist (empty = allow all)
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string
	Insecure          bool // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	DBTraceEnabled    bool
	DBLogFullSQL      bool
}

// CheckoutConfig holds hosted checkout behaviour settings
type CheckoutConfig struct {
	DefaultGateway         string
	WebhookSecret          string
	WebhookSignatureHeader string
	MaxWebhookPayload      int64
	LivePollInterval       time.Duration
}

// ZohoConfig holds Zoho Billing API credentials
type ZohoConfig struct {
	Enabled        bool
	APIBaseURL     string
	AccountsURL    string
	OrganizationID string
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	Timeout        time.Duration
	RetryMax       int
}

// StripeConfig holds Stripe Checkout settings
type StripeConfig struct {
	Enabled    bool
	SecretKey  string
	SuccessURL string
	CancelURL  string
	// PriceIDs maps plan codes to Stripe price ids
	PriceIDs map[string]string
}

// ArchiveConfig holds the webhook payload archive (S3 compatible) settings
type ArchiveConfig struct {
	Enabled        bool
	Bucket         string
	Region         string
	Endpoint       string
	Prefix         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with CHECKOUT_ prefix (e.g., CHECKOUT_DATABASE_PASSWORD)
// 2. .env file in the working directory
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("CHECKOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Enabled: v.GetBool("jwt.enabled"),
			Secret:  v.GetString("jwt.secret"),
			Issuer:  v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Swagger: SwaggerConfig{
			Enabled:    v.GetBool("swagger.enabled"),
			AllowedIPs: v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
		},
		Checkout: CheckoutConfig{
			DefaultGateway:         v.GetString("checkout.default_gateway"),
			WebhookSecret:          v.GetString("checkout.webhook_secret"),
			WebhookSignatureHeader: v.GetString("checkout.webhook_signature_header"),
			MaxWebhookPayload:      v.GetInt64("checkout.max_webhook_payload"),
			LivePollInterval:       v.GetDuration("checkout.live_poll_interval"),
		},
		Zoho: ZohoConfig{
			Enabled:        v.GetBool("zoho.enabled"),
			APIBaseURL:     v.GetString("zoho.api_base_url"),
			AccountsURL:    v.GetString("zoho.accounts_url"),
			OrganizationID: v.GetString("zoho.organization_id"),
			ClientID:       v.GetString("zoho.client_id"),
			ClientSecret:   v.GetString("zoho.client_secret"),
			RefreshToken:   v.GetString("zoho.refresh_token"),
			Timeout:        v.GetDuration("zoho.timeout"),
			RetryMax:       v.GetInt("zoho.retry_max"),
		},
		Stripe: StripeConfig{
			Enabled:    v.GetBool("stripe.enabled"),
			SecretKey:  v.GetString("stripe.secret_key"),
			SuccessURL: v.GetString("stripe.success_url"),
			CancelURL:  v.GetString("stripe.cancel_url"),
			PriceIDs:   v.GetStringMapString("stripe.price_ids"),
		},
		Archive: ArchiveConfig{
			Enabled:        v.GetBool("archive.enabled"),
			Bucket:         v.GetString("archive.bucket"),
			Region:         v.GetString("archive.region"),
			Endpoint:       v.GetString("archive.endpoint"),
			Prefix:         v.GetString("archive.prefix"),
			AccessKey:      v.GetString("archive.access_key"),
			SecretKey:      v.GetString("archive.secret_key"),
			ForcePathStyle: v.GetBool("archive.force_path_style"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "checkout-service"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "checkout"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "identity"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// live status checks wait on the provider
		cfg.HTTP.WriteTimeout = 45 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// An empty CORS origin list means no cross-origin requests are allowed.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "checkout-service"
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Checkout.DefaultGateway == "" {
		cfg.Checkout.DefaultGateway = "ZOHOBILLING"
	}
	if cfg.Checkout.WebhookSignatureHeader == "" {
		cfg.Checkout.WebhookSignatureHeader = "X-Zoho-Webhook-Signature"
	}
	if cfg.Checkout.MaxWebhookPayload == 0 {
		cfg.Checkout.MaxWebhookPayload = 256 << 10 // 256KB
	}
	if cfg.Checkout.LivePollInterval == 0 {
		cfg.Checkout.LivePollInterval = 3 * time.Second
	}
	if cfg.Zoho.APIBaseURL == "" {
		cfg.Zoho.APIBaseURL = "https://www.zohoapis.com/billing/v1"
	}
	if cfg.Zoho.AccountsURL == "" {
		cfg.Zoho.AccountsURL = "https://accounts.zoho.com"
	}
	if cfg.Zoho.Timeout == 0 {
		cfg.Zoho.Timeout = 30 * time.Second
	}
	if cfg.Zoho.RetryMax == 0 {
		cfg.Zoho.RetryMax = 3
	}
	if cfg.Archive.Prefix == "" {
		cfg.Archive.Prefix = "webhooks"
	}
	if cfg.Archive.Region == "" {
		cfg.Archive.Region = "us-east-1"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Checkout.MaxWebhookPayload < 0 {
		return fmt.Errorf("checkout.max_webhook_payload cannot be negative")
	}
	if c.JWT.Enabled && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required when jwt.enabled is true")
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("archive.bucket is required when archive.enabled is true")
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Checkout.WebhookSecret == "" {
			return fmt.Errorf("checkout.webhook_secret is required in production")
		}
		if !c.JWT.Enabled {
			return fmt.Errorf("jwt.enabled must be true in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger endpoint must be disabled or IP restricted in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
