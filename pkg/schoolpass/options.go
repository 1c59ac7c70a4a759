package schoolpass

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultTimeout             = 30 * time.Second
	defaultMaxRateLimitRetries = 5
	// rateLimitPadding is added to every Retry-After interval.
	rateLimitPadding = 3 * time.Second
	userAgent        = "schoolpass-automations/1.0"
)

// Sleeper blocks for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

type options struct {
	httpClient          *http.Client
	sleep               Sleeper
	logger              *slog.Logger
	maxRateLimitRetries int
	rateLimitPadding    time.Duration
}

func defaultOptions() *options {
	return &options{
		httpClient:          &http.Client{Timeout: defaultTimeout},
		sleep:               sleepContext,
		logger:              slog.Default(),
		maxRateLimitRetries: defaultMaxRateLimitRetries,
		rateLimitPadding:    rateLimitPadding,
	}
}

// Option configures a Client or an API.
type Option func(*options)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.httpClient = &http.Client{Timeout: d, Transport: o.httpClient.Transport}
		}
	}
}

// WithSleeper replaces the function used to wait out rate limits.
func WithSleeper(s Sleeper) Option {
	return func(o *options) {
		if s != nil {
			o.sleep = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxRateLimitRetries caps how many 429 responses a single request
// may wait out. Zero fails on the first 429.
func WithMaxRateLimitRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxRateLimitRetries = n
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
