package queue

import "time"

// Config holds the configuration for the task queue
type Config struct {
	PollInterval       time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"1s"`
	CheckInterval      time.Duration `env:"QUEUE_SCHEDULER_CHECK_INTERVAL" envDefault:"15s"`
	TaskTimeout        time.Duration `env:"QUEUE_TASK_TIMEOUT" envDefault:"10m"`
	RetryBackoff       time.Duration `env:"QUEUE_RETRY_BACKOFF" envDefault:"30s"`
	ShutdownTimeout    time.Duration `env:"QUEUE_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	Retention          time.Duration `env:"QUEUE_RETENTION" envDefault:"24h"` // finished tasks are pruned after this
	MaxConcurrentTasks int           `env:"QUEUE_MAX_CONCURRENT_TASKS" envDefault:"1"`
}
