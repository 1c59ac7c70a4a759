package queue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage keeps tasks in process memory. It implements
// EnqueuerRepository, SchedulerRepository and WorkerRepository. Tasks do not
// survive a restart.
type MemoryStorage struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*Task

	byStatus map[TaskStatus][]uuid.UUID

	retryBackoff time.Duration
	retention    time.Duration

	lockTicker *time.Ticker
	done       chan struct{}
	closeOnce  sync.Once
}

// MemoryStorageOption configures a MemoryStorage.
type MemoryStorageOption func(*MemoryStorage)

// WithRetryBackoff sets the base delay before a failed task is retried. The
// n-th retry waits n times this value.
func WithRetryBackoff(d time.Duration) MemoryStorageOption {
	return func(ms *MemoryStorage) {
		if d >= 0 {
			ms.retryBackoff = d
		}
	}
}

// WithRetention sets how long finished tasks are kept before being pruned.
func WithRetention(d time.Duration) MemoryStorageOption {
	return func(ms *MemoryStorage) {
		if d > 0 {
			ms.retention = d
		}
	}
}

// NewMemoryStorage creates a new in-memory storage implementation
func NewMemoryStorage(opts ...MemoryStorageOption) *MemoryStorage {
	ms := &MemoryStorage{
		tasks:        make(map[uuid.UUID]*Task),
		byStatus:     make(map[TaskStatus][]uuid.UUID),
		retryBackoff: 30 * time.Second,
		retention:    24 * time.Hour,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ms)
	}

	ms.lockTicker = time.NewTicker(time.Second)
	go ms.maintain()

	return ms
}

// Close stops the background goroutine. It is safe to call more than once.
func (ms *MemoryStorage) Close() error {
	ms.closeOnce.Do(func() {
		close(ms.done)
		ms.lockTicker.Stop()
	})
	return nil
}

// CreateTask implements EnqueuerRepository and SchedulerRepository
func (ms *MemoryStorage) CreateTask(_ context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tasks[task.ID]; exists {
		return fmt.Errorf("task with ID %s already exists", task.ID)
	}

	taskCopy := *task
	ms.tasks[task.ID] = &taskCopy
	ms.byStatus[task.Status] = append(ms.byStatus[task.Status], task.ID)

	return nil
}

// GetPendingTaskByName implements SchedulerRepository
func (ms *MemoryStorage) GetPendingTaskByName(_ context.Context, taskName string) (*Task, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	for _, id := range ms.byStatus[TaskStatusPending] {
		if task := ms.tasks[id]; task.TaskName == taskName {
			taskCopy := *task
			return &taskCopy, nil
		}
	}
	return nil, nil
}

// GetTask returns a copy of the task with the given ID.
func (ms *MemoryStorage) GetTask(_ context.Context, taskID uuid.UUID) (*Task, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	task, ok := ms.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	taskCopy := *task
	return &taskCopy, nil
}

// ListTasks returns copies of all tasks with the given status, oldest first.
func (ms *MemoryStorage) ListTasks(_ context.Context, status TaskStatus) ([]Task, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]Task, 0, len(ms.byStatus[status]))
	for _, id := range ms.byStatus[status] {
		out = append(out, *ms.tasks[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

// ClaimTask implements WorkerRepository. The earliest due pending task wins.
func (ms *MemoryStorage) ClaimTask(_ context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Task, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	var best *Task

	for _, taskID := range ms.byStatus[TaskStatusPending] {
		task := ms.tasks[taskID]

		if !slices.Contains(queues, task.Queue) {
			continue
		}
		if task.ScheduledAt.After(now) {
			continue
		}
		if best == nil || task.ScheduledAt.Before(best.ScheduledAt) {
			best = task
		}
	}

	if best == nil {
		return nil, ErrNoTaskToClaim
	}

	lockUntil := now.Add(lockDuration)
	best.Status = TaskStatusProcessing
	best.LockedUntil = &lockUntil
	best.LockedBy = &workerID

	ms.moveStatus(best.ID, TaskStatusPending, TaskStatusProcessing)

	taskCopy := *best
	return &taskCopy, nil
}

// CompleteTask implements WorkerRepository
func (ms *MemoryStorage) CompleteTask(_ context.Context, taskID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	task, err := ms.processing(taskID)
	if err != nil {
		return err
	}

	now := time.Now()
	task.Status = TaskStatusCompleted
	task.ProcessedAt = &now
	task.LockedUntil = nil
	task.LockedBy = nil

	ms.moveStatus(taskID, TaskStatusProcessing, TaskStatusCompleted)
	return nil
}

// FailTask implements WorkerRepository. The task goes back to pending with
// a linear backoff while retries remain, otherwise it is marked failed.
func (ms *MemoryStorage) FailTask(_ context.Context, taskID uuid.UUID, errorMsg string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	task, err := ms.processing(taskID)
	if err != nil {
		return err
	}

	now := time.Now()
	task.RetryCount++
	task.Error = &errorMsg
	task.LockedUntil = nil
	task.LockedBy = nil

	if task.RetryCount > task.MaxRetries {
		task.Status = TaskStatusFailed
		task.ProcessedAt = &now
		ms.moveStatus(taskID, TaskStatusProcessing, TaskStatusFailed)
		return nil
	}

	task.Status = TaskStatusPending
	task.ScheduledAt = now.Add(time.Duration(task.RetryCount) * ms.retryBackoff)
	ms.moveStatus(taskID, TaskStatusProcessing, TaskStatusPending)
	return nil
}

func (ms *MemoryStorage) processing(taskID uuid.UUID) (*Task, error) {
	task, exists := ms.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if task.Status != TaskStatusProcessing {
		return nil, fmt.Errorf("%w: task %s is %s", ErrInvalidTaskState, taskID, task.Status)
	}
	return task, nil
}

func (ms *MemoryStorage) moveStatus(taskID uuid.UUID, from, to TaskStatus) {
	ms.byStatus[from] = slices.DeleteFunc(ms.byStatus[from], func(id uuid.UUID) bool {
		return id == taskID
	})
	ms.byStatus[to] = append(ms.byStatus[to], taskID)
}

func (ms *MemoryStorage) maintain() {
	for {
		select {
		case <-ms.lockTicker.C:
			ms.expireLocks()
			ms.prune()
		case <-ms.done:
			return
		}
	}
}

// expireLocks returns tasks whose worker lock ran out to pending so another
// worker can pick them up.
func (ms *MemoryStorage) expireLocks() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	for _, taskID := range slices.Clone(ms.byStatus[TaskStatusProcessing]) {
		task := ms.tasks[taskID]
		if task.LockedUntil != nil && task.LockedUntil.Before(now) {
			task.Status = TaskStatusPending
			task.LockedUntil = nil
			task.LockedBy = nil
			ms.moveStatus(taskID, TaskStatusProcessing, TaskStatusPending)
		}
	}
}

// prune drops finished tasks older than the retention window.
func (ms *MemoryStorage) prune() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cutoff := time.Now().Add(-ms.retention)
	for _, status := range []TaskStatus{TaskStatusCompleted, TaskStatusFailed} {
		ms.byStatus[status] = slices.DeleteFunc(ms.byStatus[status], func(id uuid.UUID) bool {
			task := ms.tasks[id]
			if task.ProcessedAt != nil && task.ProcessedAt.Before(cutoff) {
				delete(ms.tasks, id)
				return true
			}
			return false
		})
	}
}
