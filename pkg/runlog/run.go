package runlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of one run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Run describes one finished automation run.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Automation string    `json:"automation"`
	TaskID     string    `json:"task_id,omitempty"`
	Trigger    string    `json:"trigger"`
	Status     Status    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	ReportDate string    `json:"report_date,omitempty"`
	Buses      int       `json:"buses"`
	Students   int       `json:"students"`
	Unmatched  int       `json:"unmatched"`
	Recipient  string    `json:"recipient,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Duration is the wall time the run took.
func (r Run) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// Store records runs and lists the most recent ones.
type Store interface {
	Record(ctx context.Context, run Run) error
	Latest(ctx context.Context, n int) ([]Run, error)
}

// Config controls how much history is kept.
type Config struct {
	Capacity int    `env:"RUNLOG_CAPACITY" envDefault:"100"`
	RedisKey string `env:"RUNLOG_REDIS_KEY" envDefault:"automations:runs"`
}

const defaultCapacity = 100

func normalize(run Run) Run {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	return run
}
