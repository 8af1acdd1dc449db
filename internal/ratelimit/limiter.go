// Package ratelimit implements a fixed-window request counter. The bucket
// state lives behind Store so a single instance can keep it in memory while
// a horizontally scaled deployment shares it through Redis.
package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Options sets the window length and the number of requests allowed in it.
type Options struct {
	Window time.Duration
	Max    int
}

// Bucket is the counter of one key inside its current window.
type Bucket struct {
	Count   int
	ResetAt time.Time
}

// Result is the outcome of a single check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is set on rejection: the time left until the window resets.
	RetryAfter time.Duration
}

// Store applies one hit to the bucket of key and reports whether it was
// admitted. Implementations must make the read-modify-write atomic per key.
type Store interface {
	Hit(ctx context.Context, key string, opts Options, now time.Time) (Bucket, bool, error)
}

// Limiter gates requests per key using a Store.
type Limiter struct {
	store  Store
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// New builds a limiter with default options used by Allow.
func New(store Store, opts Options, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{store: store, opts: opts, logger: logger, now: time.Now}
}

// Options returns the default options of the limiter.
func (l *Limiter) Options() Options {
	return l.opts
}

// Allow checks key against the default options.
func (l *Limiter) Allow(ctx context.Context, key string) Result {
	return l.Check(ctx, key, l.opts)
}

// Check never fails: when the store errors the request is admitted and the
// failure is logged.
func (l *Limiter) Check(ctx context.Context, key string, opts Options) Result {
	now := l.now()
	bucket, allowed, err := l.store.Hit(ctx, key, opts, now)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, admitting request",
			zap.String("key", key), zap.Error(err))
		return Result{Allowed: true, Limit: opts.Max, Remaining: opts.Max - 1, ResetAt: now.Add(opts.Window)}
	}

	res := Result{Allowed: allowed, Limit: opts.Max, ResetAt: bucket.ResetAt}
	if allowed {
		res.Remaining = opts.Max - bucket.Count
		if res.Remaining < 0 {
			res.Remaining = 0
		}
	} else {
		res.RetryAfter = bucket.ResetAt.Sub(now)
	}
	return res
}
