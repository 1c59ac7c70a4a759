package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/schoolpass-automations/automations/modules/automations"
	"github.com/schoolpass-automations/automations/pkg/environment"
	"github.com/schoolpass-automations/automations/pkg/logger"
	"github.com/schoolpass-automations/automations/pkg/queue"
	"github.com/schoolpass-automations/automations/svc/busreport"
)

// reportDeps is what setupReport needs from serve.
type reportDeps struct {
	env      environment.Environment
	log      *slog.Logger
	cfg      busreport.Config
	queueCfg queue.Config
	location *time.Location
	handler  queue.Handler
	storage  *queue.MemoryStorage
	enqueuer *queue.Enqueuer
}

// reportJobs are the background loops of an enabled report.
type reportJobs struct {
	worker    *queue.Worker
	scheduler *queue.Scheduler
}

// setupReport registers the bus manifest report with a worker and a
// scheduler, enqueues one startup run outside production and mounts the
// manual trigger on opts. A disabled report yields nil jobs and no trigger.
func setupReport(ctx context.Context, d reportDeps, opts *automations.RouterOptions) (*reportJobs, error) {
	if !d.cfg.Enabled {
		d.log.Warn("bus manifest report is disabled; set AUTOMATIONS_BUS_MANIFEST_REPORT_ENABLED=true to schedule it")
		return nil, nil
	}

	schedule, err := queue.Cron(d.cfg.Schedule, d.location)
	if err != nil {
		return nil, err
	}

	worker, err := queue.NewWorker(d.storage,
		queue.WithPullInterval(d.queueCfg.PollInterval),
		queue.WithTaskTimeout(d.queueCfg.TaskTimeout),
		queue.WithMaxConcurrentTasks(d.queueCfg.MaxConcurrentTasks),
		queue.WithWorkerLogger(d.log.With(logger.Component("worker"))),
	)
	if err != nil {
		return nil, err
	}
	worker.RegisterHandlers(d.handler)

	scheduler, err := queue.NewScheduler(d.storage,
		queue.WithCheckInterval(d.queueCfg.CheckInterval),
		queue.WithSchedulerLogger(d.log.With(logger.Component("scheduler"))),
	)
	if err != nil {
		return nil, err
	}
	if err := scheduler.AddTask(busreport.TaskName, schedule, queue.WithTaskMaxRetries(d.cfg.MaxRetries)); err != nil {
		return nil, err
	}

	if !d.env.IsProduction() {
		if _, err := d.enqueuer.EnqueueNamed(ctx, busreport.TaskName,
			queue.WithTrigger(queue.TriggerStartup),
			queue.WithMaxRetries(d.cfg.MaxRetries),
		); err != nil {
			return nil, err
		}
	}

	opts.Enqueuer = d.enqueuer
	opts.Triggers = append(opts.Triggers, automations.Trigger{
		Path:       "bus-manifest-report",
		TaskName:   busreport.TaskName,
		Title:      "Bus Manifest Report",
		MaxRetries: d.cfg.MaxRetries,
	})

	return &reportJobs{worker: worker, scheduler: scheduler}, nil
}
