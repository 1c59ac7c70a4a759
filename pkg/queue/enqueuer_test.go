package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/schoolpass-automations/automations/pkg/queue"
)

// MockEnqueuerRepository is a mock implementation of EnqueuerRepository
type MockEnqueuerRepository struct {
	mock.Mock
}

func (m *MockEnqueuerRepository) CreateTask(ctx context.Context, task *queue.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

type reportPayload struct {
	Date string `json:"date"`
}

func TestNewEnqueuer(t *testing.T) {
	t.Parallel()

	e, err := queue.NewEnqueuer(nil)
	assert.ErrorIs(t, err, queue.ErrRepositoryNil)
	assert.Nil(t, e)
}

func TestEnqueuer_Enqueue(t *testing.T) {
	t.Parallel()

	t.Run("payload task", func(t *testing.T) {
		t.Parallel()

		repo := new(MockEnqueuerRepository)
		repo.On("CreateTask", mock.Anything, mock.AnythingOfType("*queue.Task")).Return(nil).Once()
		defer repo.AssertExpectations(t)

		e, err := queue.NewEnqueuer(repo)
		require.NoError(t, err)

		before := time.Now()
		task, err := e.Enqueue(t.Context(), reportPayload{Date: "2024-03-05"})
		require.NoError(t, err)

		assert.Equal(t, "queue_test.reportPayload", task.TaskName)
		assert.Equal(t, queue.DefaultQueueName, task.Queue)
		assert.Equal(t, queue.TaskTypeOneTime, task.TaskType)
		assert.Equal(t, queue.TaskStatusPending, task.Status)
		assert.JSONEq(t, `{"date":"2024-03-05"}`, string(task.Payload))
		assert.False(t, task.ScheduledAt.Before(before))
	})

	t.Run("nil payload", func(t *testing.T) {
		t.Parallel()

		e, err := queue.NewEnqueuer(new(MockEnqueuerRepository))
		require.NoError(t, err)

		_, err = e.Enqueue(t.Context(), nil)
		assert.ErrorIs(t, err, queue.ErrPayloadNil)
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()

		repo := new(MockEnqueuerRepository)
		repo.On("CreateTask", mock.Anything, mock.Anything).Return(nil)

		e, err := queue.NewEnqueuer(repo, queue.WithDefaultQueue("reports"), queue.WithDefaultMaxRetries(2))
		require.NoError(t, err)

		task, err := e.Enqueue(t.Context(), reportPayload{},
			queue.WithTaskName("custom"),
			queue.WithDelay(time.Hour),
			queue.WithTrigger(queue.TriggerCLI),
		)
		require.NoError(t, err)
		assert.Equal(t, "custom", task.TaskName)
		assert.Equal(t, "reports", task.Queue)
		assert.Equal(t, int8(2), task.MaxRetries)
		assert.Equal(t, queue.TriggerCLI, task.Trigger)
		assert.True(t, task.ScheduledAt.After(time.Now().Add(59*time.Minute)))

		at := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
		task, err = e.Enqueue(t.Context(), reportPayload{},
			queue.WithScheduledAt(at),
			queue.WithQueue("other"),
			queue.WithMaxRetries(11),
		)
		require.NoError(t, err)
		assert.Equal(t, at, task.ScheduledAt)
		assert.Equal(t, "other", task.Queue)
		assert.Equal(t, int8(2), task.MaxRetries, "out of range value is ignored")
	})

	t.Run("repository error", func(t *testing.T) {
		t.Parallel()

		repoErr := errors.New("storage down")
		repo := new(MockEnqueuerRepository)
		repo.On("CreateTask", mock.Anything, mock.Anything).Return(repoErr)

		e, err := queue.NewEnqueuer(repo)
		require.NoError(t, err)

		_, err = e.Enqueue(t.Context(), reportPayload{})
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestEnqueuer_EnqueueNamed(t *testing.T) {
	t.Parallel()

	t.Run("named task", func(t *testing.T) {
		t.Parallel()

		storage := newTestStorage(t)
		e, err := queue.NewEnqueuer(storage)
		require.NoError(t, err)

		task, err := e.EnqueueNamed(t.Context(), "bus_manifest_report", queue.WithTrigger(queue.TriggerStartup))
		require.NoError(t, err)
		assert.Equal(t, "bus_manifest_report", task.TaskName)
		assert.Nil(t, task.Payload)
		assert.Equal(t, queue.TriggerStartup, task.Trigger)

		pending, err := storage.GetPendingTaskByName(t.Context(), "bus_manifest_report")
		require.NoError(t, err)
		require.NotNil(t, pending)
		assert.Equal(t, task.ID, pending.ID)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		e, err := queue.NewEnqueuer(new(MockEnqueuerRepository))
		require.NoError(t, err)

		_, err = e.EnqueueNamed(t.Context(), "")
		assert.ErrorIs(t, err, queue.ErrTaskNameRequired)
	})
}
