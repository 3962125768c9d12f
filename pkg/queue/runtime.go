package queue

import (
	"context"
	"sync"

	"ai-studyflow-be/internal/pkg/logger"
)

// Closable is anything the runtime can shut down: workers, publishers,
// or other long-lived queue resources.
type Closable interface {
	Close(ctx context.Context) error
}

// Runtime tracks running queue components and shuts them down in reverse
// registration order. Close failures are logged, never propagated, so one
// bad component cannot block the rest of the shutdown.
type Runtime struct {
	mu    sync.Mutex
	items []runtimeItem
	log   logger.ILogger
}

type runtimeItem struct {
	name string
	c    Closable
}

func NewRuntime(log logger.ILogger) *Runtime {
	return &Runtime{log: log}
}

// Register adds a component to the shutdown list.
func (r *Runtime) Register(name string, c Closable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, runtimeItem{name: name, c: c})
}

// Shutdown closes all registered components, newest first.
func (r *Runtime) Shutdown(ctx context.Context) {
	r.mu.Lock()
	items := r.items
	r.items = nil
	r.mu.Unlock()

	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if err := item.c.Close(ctx); err != nil {
			r.log.Error("queue.runtime", "failed to close component", map[string]interface{}{
				"component": item.name,
				"error":     err.Error(),
			})
			continue
		}
		r.log.Info("queue.runtime", "component closed", map[string]interface{}{"component": item.name})
	}
}
