// Package ratelimit throttles repeated admin login attempts using Redis counters.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrRateLimited is returned once an identifier exceeds its attempt budget.
	ErrRateLimited = errors.New("login rate limited")
	// ErrStoreUnavailable wraps Redis failures.
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)

// Throttle is the contract the auth service depends on
type Throttle interface {
	Allow(ctx context.Context, identifier, ip string) error
	Reset(ctx context.Context, identifier, ip string) error
}

// Config holds the attempt budget per window
type Config struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginThrottle counts failed and in-flight login attempts per username and per client IP
type LoginThrottle struct {
	redis  *redis.Client
	config Config
}

// NewLoginThrottle creates a Redis-backed login throttle
func NewLoginThrottle(client *redis.Client, cfg Config) *LoginThrottle {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	return &LoginThrottle{redis: client, config: cfg}
}

// Allow records an attempt and reports ErrRateLimited when the budget is spent
func (l *LoginThrottle) Allow(ctx context.Context, identifier, ip string) error {
	if err := l.enforceKey(ctx, identifierKey(identifier)); err != nil {
		return err
	}
	if ip != "" {
		if err := l.enforceKey(ctx, ipKey(ip)); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears the counters after a successful login
func (l *LoginThrottle) Reset(ctx context.Context, identifier, ip string) error {
	keys := []string{identifierKey(identifier)}
	if ip != "" {
		keys = append(keys, ipKey(ip))
	}
	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (l *LoginThrottle) enforceKey(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	if count > int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}
	return nil
}

func identifierKey(identifier string) string {
	return "login:id:" + strings.ToLower(strings.TrimSpace(identifier))
}

func ipKey(ip string) string {
	return "login:ip:" + ip
}

// Noop never throttles; used when Redis is disabled
type Noop struct{}

// Allow always permits the attempt
func (Noop) Allow(context.Context, string, string) error { return nil }

// Reset does nothing
func (Noop) Reset(context.Context, string, string) error { return nil }
