// Package ratelimit throttles callers with an in-memory fixed window counter.
// It guards the manual trigger endpoints so a stuck browser tab or a retrying
// monitor cannot flood the job queue.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrInvalidConfig = errors.New("ratelimit: invalid configuration")

// Config controls the trigger limiter.
type Config struct {
	Limit  int           `env:"TRIGGER_RATE_LIMIT" envDefault:"5"`
	Window time.Duration `env:"TRIGGER_RATE_WINDOW" envDefault:"1m"`
}

// Result describes a single Allow decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is how long the caller should wait. Zero when allowed.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

// Limiter decides whether key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindow allows Limit calls per key within each Window.
type FixedWindow struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

// Option configures a FixedWindow.
type Option func(*FixedWindow)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *FixedWindow) {
		if now != nil {
			l.now = now
		}
	}
}

// NewFixedWindow returns a limiter or ErrInvalidConfig when limit or window
// is not positive.
func NewFixedWindow(cfg Config, opts ...Option) (*FixedWindow, error) {
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		return nil, ErrInvalidConfig
	}
	l := &FixedWindow{
		limit:   cfg.Limit,
		period:  cfg.Window,
		now:     time.Now,
		windows: make(map[string]*window),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow counts one call for key.
func (l *FixedWindow) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.prune(now)
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}

	res := Result{Limit: l.limit, ResetAt: w.resetAt}
	if w.count >= l.limit {
		return res, nil
	}
	w.count++
	res.Allowed = true
	res.Remaining = l.limit - w.count
	return res, nil
}

// prune drops expired windows. Called with mu held.
func (l *FixedWindow) prune(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}

// Len reports how many keys are tracked.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
