package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/schoolpass-automations/automations/pkg/clientip"
	"github.com/schoolpass-automations/automations/pkg/logger"
)

// KeyFunc extracts the throttling key from a request.
type KeyFunc func(r *http.Request) string

// ByIP keys requests by client IP.
func ByIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

// Middleware rejects requests over the limit with 429 and sets the
// X-RateLimit-* headers. Limiter errors fail open.
func Middleware(l Limiter, key KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			res, err := l.Allow(r.Context(), k)
			if err != nil {
				log.WarnContext(r.Context(), "rate limiter unavailable", logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				wait := res.RetryAfter(time.Now())
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				log.InfoContext(r.Context(), "trigger throttled", slog.String("key", k))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
