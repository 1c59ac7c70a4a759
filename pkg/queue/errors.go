package queue

import "errors"

// Construction and registration.
var (
	ErrRepositoryNil          = errors.New("queue: repository is nil")
	ErrPayloadNil             = errors.New("queue: payload is nil")
	ErrTaskNameRequired       = errors.New("queue: task name is required")
	ErrInvalidSchedule        = errors.New("queue: invalid schedule")
	ErrTaskAlreadyRegistered  = errors.New("queue: task already registered")
	ErrSchedulerNotConfigured = errors.New("queue: scheduler has no tasks")
)

// Storage.
var (
	// ErrNoTaskToClaim means nothing is due; workers treat it as idle, not failure.
	ErrNoTaskToClaim    = errors.New("queue: no task to claim")
	ErrTaskNotFound     = errors.New("queue: task not found")
	ErrInvalidTaskState = errors.New("queue: task is not in the required state")
)

// Worker lifecycle.
var (
	ErrHandlerNotFound  = errors.New("queue: no handler registered for task")
	ErrNoHandlers       = errors.New("queue: no handlers registered")
	ErrWorkerStarted    = errors.New("queue: worker already started")
	ErrWorkerNotStarted = errors.New("queue: worker not started")
)
