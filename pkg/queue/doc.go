// Package queue is a small in-process job host: tasks are enqueued on
// demand or created from schedules, and a worker runs them with bounded
// concurrency, panic recovery and task-level retries.
//
// Components:
//
//   - Enqueuer adds one-time tasks, either carrying a JSON payload or just a name
//   - Scheduler turns Schedule values (cron expressions, intervals, daily times) into tasks
//   - Worker claims due tasks and dispatches them to the Handler registered for the task name
//
// They talk to storage only through the EnqueuerRepository, SchedulerRepository
// and WorkerRepository interfaces. MemoryStorage implements all three.
//
// Every task records its Trigger. While a handler runs, the task ID and trigger
// are available from the context through TaskIDFromContext and
// TriggerFromContext, and LoggerExtractor adds them to log records.
//
//	storage := queue.NewMemoryStorage()
//	defer storage.Close()
//
//	worker, _ := queue.NewWorker(storage)
//	worker.RegisterHandlers(queue.NewNamedTaskHandler("bus_manifest_report", run))
//
//	scheduler, _ := queue.NewScheduler(storage)
//	_ = scheduler.AddTask("bus_manifest_report", queue.MustCron("0 0 15 * * 1-5", time.Local))
//
//	enqueuer, _ := queue.NewEnqueuer(storage)
//	_, _ = enqueuer.EnqueueNamed(ctx, "bus_manifest_report", queue.WithTrigger(queue.TriggerHTTP))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(worker.Run(ctx))
//	g.Go(scheduler.Run(ctx))
//
// A task is attempted MaxRetries+1 times. Between attempts MemoryStorage
// reschedules it with a linear backoff.
package queue
