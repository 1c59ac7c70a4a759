package queue

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type (
	taskIDKey  struct{}
	triggerKey struct{}
)

// WithTask stores the task ID and trigger in ctx.
func WithTask(ctx context.Context, task *Task) context.Context {
	ctx = context.WithValue(ctx, taskIDKey{}, task.ID)
	return context.WithValue(ctx, triggerKey{}, task.Trigger)
}

// TaskIDFromContext returns the ID of the task being processed.
func TaskIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(taskIDKey{}).(uuid.UUID)
	return id, ok
}

// TriggerFromContext returns the trigger of the task being processed.
func TriggerFromContext(ctx context.Context) (Trigger, bool) {
	t, ok := ctx.Value(triggerKey{}).(Trigger)
	return t, ok && t != ""
}

// LoggerExtractor adds task_id and trigger to log records emitted while a
// task is being processed.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := TaskIDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		attrs := []slog.Attr{slog.String("id", id.String())}
		if t, ok := TriggerFromContext(ctx); ok {
			attrs = append(attrs, slog.String("trigger", t.String()))
		}
		return slog.Attr{Key: "task", Value: slog.GroupValue(attrs...)}, true
	}
}
