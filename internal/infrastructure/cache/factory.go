package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erp/checkout/internal/infrastructure/config"
)

// PollThrottle is the throttle surface the factory hands out
type PollThrottle interface {
	Allow(ctx context.Context, orderID string) (bool, error)
	io.Closer
}

// PollThrottleFactory creates poll throttles based on configuration
type PollThrottleFactory struct {
	redisConfig           config.RedisConfig
	interval              time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// PollThrottleFactoryOption is a functional option for configuring the factory
type PollThrottleFactoryOption func(*PollThrottleFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) PollThrottleFactoryOption {
	return func(f *PollThrottleFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// throttle when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) PollThrottleFactoryOption {
	return func(f *PollThrottleFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewPollThrottleFactory creates a new factory
func NewPollThrottleFactory(cfg config.RedisConfig, interval time.Duration, opts ...PollThrottleFactoryOption) *PollThrottleFactory {
	f := &PollThrottleFactory{
		redisConfig:           cfg,
		interval:              interval,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisThrottle connects to Redis and returns a shared throttle
func (f *PollThrottleFactory) CreateRedisThrottle() (*RedisPollThrottle, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisPollThrottle(client, f.interval, ""), nil
}

// CreateStore picks Redis when it is enabled and reachable. Otherwise it
// falls back to a per-process throttle when fallback is allowed.
func (f *PollThrottleFactory) CreateStore() (PollThrottle, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Using in-memory poll throttle", zap.Duration("interval", f.interval))
		return NewInMemoryPollThrottle(f.interval), nil
	}

	throttle, err := f.CreateRedisThrottle()
	if err == nil {
		f.logger.Info("Using Redis poll throttle", zap.Duration("interval", f.interval))
		return throttle, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for poll throttle but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory poll throttle. "+
		"Instances will poll the provider independently.",
		zap.Error(err),
	)
	return NewInMemoryPollThrottle(f.interval), nil
}
