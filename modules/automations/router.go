// Package automations mounts the HTTP surface of the automation service:
// manual run triggers, run history and health probes.
package automations

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/schoolpass-automations/automations/pkg/clientip"
	"github.com/schoolpass-automations/automations/pkg/environment"
	"github.com/schoolpass-automations/automations/pkg/httpserver"
	"github.com/schoolpass-automations/automations/pkg/logger"
	"github.com/schoolpass-automations/automations/pkg/queue"
	"github.com/schoolpass-automations/automations/pkg/ratelimit"
	"github.com/schoolpass-automations/automations/pkg/requestid"
	"github.com/schoolpass-automations/automations/pkg/runlog"
)

// Enqueuer starts automation runs.
type Enqueuer interface {
	EnqueueNamed(ctx context.Context, name string, opts ...queue.EnqueueOption) (*queue.Task, error)
}

// Trigger is a manual run endpoint for one automation.
type Trigger struct {
	// Path is mounted under /run, e.g. "bus-manifest-report".
	Path string
	// TaskName is the queue task the endpoint enqueues.
	TaskName string
	// Title names the automation in the response page.
	Title string
	// MaxRetries is the task-level retry budget of enqueued runs.
	MaxRetries int8
}

// RouterOptions configures the router. Triggers are only mounted for
// enabled automations; Enqueuer is required when any are given.
type RouterOptions struct {
	Environment environment.Environment
	Logger      *slog.Logger
	Enqueuer    Enqueuer
	Triggers    []Trigger
	Runs        runlog.Store
	Checks      []httpserver.Check
	// TriggerLimiter throttles /run endpoints per client IP. Optional.
	TriggerLimiter ratelimit.Limiter
}

// Router builds the service router.
//
//	r := automations.Router(automations.RouterOptions{
//	    Enqueuer: enqueuer,
//	    Triggers: []automations.Trigger{{Path: "bus-manifest-report", TaskName: busreport.TaskName, Title: "Bus Manifest Report"}},
//	    Runs:     store,
//	})
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Component("http"))

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware,
		environment.Middleware(opts.Environment),
		requestLogger(log),
		middleware.Recoverer,
	)

	if opts.Enqueuer != nil && len(opts.Triggers) > 0 {
		r.Route("/run", func(run chi.Router) {
			if opts.TriggerLimiter != nil {
				run.Use(ratelimit.Middleware(opts.TriggerLimiter, ratelimit.ByIP, log))
			}
			for _, t := range opts.Triggers {
				run.Get("/"+t.Path, runHandler(opts.Enqueuer, t, log))
			}
		})
	}

	if opts.Runs != nil {
		r.Get("/runs", runsHandler(opts.Runs, log))
	}

	r.Route("/health", func(h chi.Router) {
		h.Get("/live", httpserver.LivenessHandler())
		h.Get("/ready", httpserver.ReadinessHandler(log, opts.Checks...))
	})

	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.DebugContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				logger.StatusCode(ww.Status()))
		})
	}
}
