package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/schoolpass-automations/automations/modules/automations"
	"github.com/schoolpass-automations/automations/pkg/config"
	"github.com/schoolpass-automations/automations/pkg/httpserver"
	"github.com/schoolpass-automations/automations/pkg/logger"
	"github.com/schoolpass-automations/automations/pkg/queue"
	"github.com/schoolpass-automations/automations/pkg/ratelimit"
	"github.com/schoolpass-automations/automations/svc/busreport"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve HTTP triggers and run scheduled automations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	var (
		httpCfg  httpserver.Config
		queueCfg queue.Config
		rateCfg  ratelimit.Config
	)
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	if err := config.Load(&queueCfg); err != nil {
		return err
	}
	if err := config.Load(&rateCfg); err != nil {
		return err
	}
	limiter, err := ratelimit.NewFixedWindow(rateCfg)
	if err != nil {
		return err
	}

	var reportCfg busreport.Config
	if err := config.Load(&reportCfg); err != nil {
		return err
	}

	a, err := newApp(ctx, log, reportCfg.Enabled)
	if err != nil {
		return err
	}
	defer a.Close()

	storage := queue.NewMemoryStorage(
		queue.WithRetryBackoff(queueCfg.RetryBackoff),
		queue.WithRetention(queueCfg.Retention),
	)
	defer storage.Close()

	enqueuer, err := queue.NewEnqueuer(storage)
	if err != nil {
		return err
	}

	opts := automations.RouterOptions{
		Environment: env,
		Logger:      log,
		Runs:        a.runs,
		Checks:      a.checks,

		TriggerLimiter: limiter,
	}

	g, ctx := errgroup.WithContext(ctx)

	deps := reportDeps{
		env:      env,
		log:      log,
		cfg:      reportCfg,
		queueCfg: queueCfg,
		storage:  storage,
		enqueuer: enqueuer,
	}
	if a.report != nil {
		deps.location = a.report.Location()
		deps.handler = a.report.Handler()
	}
	jobs, err := setupReport(ctx, deps, &opts)
	if err != nil {
		return err
	}
	if jobs != nil {
		g.Go(runWorker(ctx, jobs.worker, queueCfg.ShutdownTimeout))
		g.Go(jobs.scheduler.Run(ctx))
	}

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	g.Go(srv.RunFunc(ctx, automations.Router(opts)))

	return g.Wait()
}

// runWorker starts w and stops it when ctx is done. Tasks still running
// after shutdownTimeout are abandoned.
func runWorker(ctx context.Context, w *queue.Worker, shutdownTimeout time.Duration) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()

		done := make(chan error, 1)
		go func() { done <- w.Stop() }()

		select {
		case err := <-done:
			return err
		case <-time.After(shutdownTimeout):
			log.Warn("worker shutdown timed out, abandoning running tasks", logger.Duration(shutdownTimeout))
			return nil
		}
	}
}
