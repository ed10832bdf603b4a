package newsletter

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig controls retry behavior for transient API errors.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultRetryConfig returns sensible defaults for a subscribe call.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// retrySubscriber retries rate limits and outages with exponential backoff
// and jitter. Rejections are returned immediately.
type retrySubscriber struct {
	inner  Subscriber
	config RetryConfig
}

// WithRetry wraps a Subscriber with retry logic.
func WithRetry(s Subscriber, cfg RetryConfig) Subscriber {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retrySubscriber{inner: s, config: cfg}
}

func (r *retrySubscriber) Subscribe(ctx context.Context, s Subscription) (Result, error) {
	var lastErr error
	for attempt := range r.config.MaxAttempts {
		res, err := r.inner.Subscribe(ctx, s)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !Transient(err) {
			return Result{}, err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}
	return Result{}, lastErr
}

// backoff computes the wait before the next attempt.
func (r *retrySubscriber) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	return Backoff(r.config, attempt)
}

// Backoff returns the exponential wait for attempt with ±20% jitter, capped
// at cfg.MaxWait.
func Backoff(cfg RetryConfig, attempt int) time.Duration {
	wait := float64(cfg.InitialWait) * math.Pow(cfg.Multiplier, float64(attempt))
	if wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}

	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
