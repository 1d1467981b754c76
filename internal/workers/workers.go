package workers

import "context"

// Workers runs a fixed list of workers.
type Workers struct {
	workers []Worker
}

// NewWorkers groups workers.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in order.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// Shutdown stops the workers in reverse start order.
func (w *Workers) Shutdown() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Shutdown()
	}
}
