package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// Handler processes tasks whose TaskName equals Name().
	Handler interface {
		Name() string
		Handle(ctx context.Context, payload json.RawMessage) error
	}

	TaskHandlerFunc[T any] func(ctx context.Context, payload T) error
	NamedTaskHandlerFunc   func(ctx context.Context) error
)

// NewTaskHandler handles one-time tasks carrying a JSON payload of type T.
// The task name is derived from T.
func NewTaskHandler[T any](handler TaskHandlerFunc[T]) Handler {
	var payload T
	return &payloadTaskHandler[T]{
		name:    qualifiedStructName(payload),
		handler: handler,
	}
}

// NewNamedTaskHandler handles payload-less tasks with the given name, both
// scheduled ones and those added with Enqueuer.EnqueueNamed.
func NewNamedTaskHandler(name string, handler NamedTaskHandlerFunc) Handler {
	return &namedTaskHandler{
		name:    name,
		handler: handler,
	}
}

type payloadTaskHandler[T any] struct {
	name    string
	handler TaskHandlerFunc[T]
}

func (h *payloadTaskHandler[T]) Name() string {
	return h.name
}

func (h *payloadTaskHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return fmt.Errorf("failed to decode payload for %s: %w", h.name, err)
	}
	return h.handler(ctx, t)
}

type namedTaskHandler struct {
	name    string
	handler NamedTaskHandlerFunc
}

func (h *namedTaskHandler) Name() string {
	return h.name
}

func (h *namedTaskHandler) Handle(ctx context.Context, _ json.RawMessage) error {
	return h.handler(ctx)
}

func qualifiedStructName(v any) string {
	return strings.TrimLeft(fmt.Sprintf("%T", v), "*")
}
