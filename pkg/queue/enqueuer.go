package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnqueuerRepository defines the interface for task creation
type EnqueuerRepository interface {
	CreateTask(ctx context.Context, task *Task) error
}

// Enqueuer adds one-time tasks to the queue.
type Enqueuer struct {
	repo              EnqueuerRepository
	defaultQueue      string
	defaultMaxRetries int8
}

// NewEnqueuer creates a new Enqueuer
func NewEnqueuer(repo EnqueuerRepository, opts ...EnqueuerOption) (*Enqueuer, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	options := &enqueuerOptions{
		defaultQueue: DefaultQueueName,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Enqueuer{
		repo:              repo,
		defaultQueue:      options.defaultQueue,
		defaultMaxRetries: options.defaultMaxRetries,
	}, nil
}

// Enqueue adds a task carrying payload. The task name is derived from the
// payload type unless WithTaskName is given.
func (e *Enqueuer) Enqueue(ctx context.Context, payload any, opts ...EnqueueOption) (*Task, error) {
	if payload == nil {
		return nil, ErrPayloadNil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload of type %T: %w", payload, err)
	}

	return e.enqueue(ctx, qualifiedStructName(payload), data, opts)
}

// EnqueueNamed adds a payload-less task handled by NewNamedTaskHandler(name, ...).
func (e *Enqueuer) EnqueueNamed(ctx context.Context, name string, opts ...EnqueueOption) (*Task, error) {
	if name == "" {
		return nil, ErrTaskNameRequired
	}
	return e.enqueue(ctx, name, nil, opts)
}

func (e *Enqueuer) enqueue(ctx context.Context, name string, payload []byte, opts []EnqueueOption) (*Task, error) {
	options := &enqueueOptions{
		queue:      e.defaultQueue,
		maxRetries: e.defaultMaxRetries,
		taskName:   name,
	}
	for _, opt := range opts {
		opt(options)
	}

	now := time.Now()
	scheduledAt := now
	if options.scheduledAt != nil {
		scheduledAt = *options.scheduledAt
	} else if options.delay > 0 {
		scheduledAt = now.Add(options.delay)
	}

	task := &Task{
		ID:          uuid.New(),
		Queue:       options.queue,
		TaskType:    TaskTypeOneTime,
		TaskName:    options.taskName,
		Trigger:     options.trigger,
		Payload:     payload,
		Status:      TaskStatusPending,
		MaxRetries:  options.maxRetries,
		ScheduledAt: scheduledAt,
		CreatedAt:   now,
	}

	if err := e.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task %q in queue %q: %w", task.TaskName, task.Queue, err)
	}
	return task, nil
}
