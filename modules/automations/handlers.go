package automations

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/schoolpass-automations/automations/pkg/logger"
	"github.com/schoolpass-automations/automations/pkg/queue"
	"github.com/schoolpass-automations/automations/pkg/runlog"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

func runHandler(enq Enqueuer, t Trigger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		task, err := enq.EnqueueNamed(ctx, t.TaskName,
			queue.WithTrigger(queue.TriggerHTTP),
			queue.WithMaxRetries(t.MaxRetries),
		)
		if err != nil {
			log.ErrorContext(ctx, "failed to enqueue task",
				logger.Operation(t.TaskName),
				logger.Error(err))
			page(w, r, http.StatusInternalServerError, StatusPage(false, "Failed to start "+t.Title+" task."))
			return
		}

		msg := "Running " + t.Title + " task..."
		log.InfoContext(ctx, msg, logger.TaskID(task.ID), logger.Trigger(queue.TriggerHTTP.String()))
		page(w, r, http.StatusOK, StatusPage(true, msg))
	}
}

func page(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status), templ.WithContentType("text/html")).ServeHTTP(w, r)
}

type runsResponse struct {
	Runs []runlog.Run `json:"runs"`
}

func runsHandler(store runlog.Store, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRunsLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = min(n, maxRunsLimit)
		}

		runs, err := store.Latest(r.Context(), limit)
		if err != nil {
			log.ErrorContext(r.Context(), "failed to list runs", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if runs == nil {
			runs = []runlog.Run{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(runsResponse{Runs: runs}); err != nil {
			log.ErrorContext(r.Context(), "failed to write runs response", logger.Error(err))
		}
	}
}
