package queue

import (
	"log/slog"
	"time"
)

// retryLimit caps any per-task retry budget; out-of-range values are ignored.
const retryLimit int8 = 10

func validRetries(n int8) bool { return n >= 0 && n <= retryLimit }

type (
	EnqueuerOption      func(*enqueuerOptions)
	EnqueueOption       func(*enqueueOptions)
	SchedulerOption     func(*schedulerOptions)
	SchedulerTaskOption func(*schedulerTaskOptions)
	WorkerOption        func(*workerOptions)
)

type enqueuerOptions struct {
	defaultQueue      string
	defaultMaxRetries int8
}

type enqueueOptions struct {
	queue       string
	maxRetries  int8
	delay       time.Duration
	scheduledAt *time.Time
	taskName    string
	trigger     Trigger
}

type schedulerOptions struct {
	checkInterval time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

type schedulerTaskOptions struct {
	queue      string
	maxRetries int8
}

type workerOptions struct {
	queues             []string
	pullInterval       time.Duration
	taskTimeout        time.Duration
	maxConcurrentTasks int
	logger             *slog.Logger
}

// Enqueuer

func WithDefaultQueue(queue string) EnqueuerOption {
	return func(o *enqueuerOptions) {
		if queue != "" {
			o.defaultQueue = queue
		}
	}
}

// WithDefaultMaxRetries applies to tasks enqueued without WithMaxRetries.
func WithDefaultMaxRetries(n int8) EnqueuerOption {
	return func(o *enqueuerOptions) {
		if validRetries(n) {
			o.defaultMaxRetries = n
		}
	}
}

// Enqueue

func WithQueue(queue string) EnqueueOption {
	return func(o *enqueueOptions) {
		if queue != "" {
			o.queue = queue
		}
	}
}

// WithMaxRetries sets how many times a failed run is retried.
func WithMaxRetries(n int8) EnqueueOption {
	return func(o *enqueueOptions) {
		if validRetries(n) {
			o.maxRetries = n
		}
	}
}

// WithDelay postpones the task by d from now.
func WithDelay(d time.Duration) EnqueueOption {
	return func(o *enqueueOptions) {
		if d > 0 {
			o.delay = d
		}
	}
}

// WithScheduledAt pins the task to t. It wins over WithDelay.
func WithScheduledAt(t time.Time) EnqueueOption {
	return func(o *enqueueOptions) { o.scheduledAt = &t }
}

// WithTaskName overrides the name derived from the payload type.
func WithTaskName(name string) EnqueueOption {
	return func(o *enqueueOptions) {
		if name != "" {
			o.taskName = name
		}
	}
}

// WithTrigger records what caused the task to be enqueued.
func WithTrigger(t Trigger) EnqueueOption {
	return func(o *enqueueOptions) { o.trigger = t }
}

// Scheduler

func WithCheckInterval(d time.Duration) SchedulerOption {
	return func(o *schedulerOptions) {
		if d > 0 {
			o.checkInterval = d
		}
	}
}

func WithSchedulerLogger(l *slog.Logger) SchedulerOption {
	return func(o *schedulerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSchedulerClock replaces time.Now, for tests.
func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(o *schedulerOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithTaskMaxRetries sets the retry budget of each scheduled occurrence.
func WithTaskMaxRetries(n int8) SchedulerTaskOption {
	return func(o *schedulerTaskOptions) {
		if validRetries(n) {
			o.maxRetries = n
		}
	}
}

// Worker

// WithPullInterval sets how often an idle worker polls storage.
func WithPullInterval(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.pullInterval = d
		}
	}
}

// WithTaskTimeout bounds a single handler run. Claims are held slightly
// longer so a timed-out handler can still report its failure.
func WithTaskTimeout(d time.Duration) WorkerOption {
	return func(o *workerOptions) {
		if d > 0 {
			o.taskTimeout = d
		}
	}
}

func WithMaxConcurrentTasks(n int) WorkerOption {
	return func(o *workerOptions) {
		if n > 0 {
			o.maxConcurrentTasks = n
		}
	}
}

func WithWorkerLogger(l *slog.Logger) WorkerOption {
	return func(o *workerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
