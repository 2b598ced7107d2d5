package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPollThrottlePrefix = "checkout:poll:"

// RedisPollThrottle shares the poll budget across instances. Each admitted
// poll claims a key with SET NX PX that expires after the interval.
type RedisPollThrottle struct {
	client    *redis.Client
	interval  time.Duration
	keyPrefix string
}

// NewRedisPollThrottle creates a throttle on an existing client
func NewRedisPollThrottle(client *redis.Client, interval time.Duration, keyPrefix string) *RedisPollThrottle {
	if keyPrefix == "" {
		keyPrefix = defaultPollThrottlePrefix
	}
	return &RedisPollThrottle{
		client:    client,
		interval:  interval,
		keyPrefix: keyPrefix,
	}
}

// Allow reports whether a poll for orderID may go out now
func (t *RedisPollThrottle) Allow(ctx context.Context, orderID string) (bool, error) {
	if t.interval <= 0 {
		return true, nil
	}
	ok, err := t.client.SetNX(ctx, t.keyPrefix+orderID, "1", t.interval).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim poll slot: %w", err)
	}
	return ok, nil
}

// Close closes the Redis client
func (t *RedisPollThrottle) Close() error {
	return t.client.Close()
}
