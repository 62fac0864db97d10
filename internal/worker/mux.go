package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

// Mux routes background tasks (currently only duplicate-report builds) to
// their handlers without exposing asynq to the callers that register them.
type Mux struct{ mux *asynq.ServeMux }

func NewMux() *Mux { return &Mux{mux: asynq.NewServeMux()} }

// HandleFunc registers a handler for a task type defined in platform/tasks.
func (m *Mux) HandleFunc(taskType string, h func(ctx context.Context, task *asynq.Task) error) {
	m.mux.HandleFunc(taskType, h)
}

// Mux exposes the underlying ServeMux for the asynq server runner.
func (m *Mux) Mux() *asynq.ServeMux { return m.mux }
