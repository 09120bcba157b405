package app

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultPollInterval bounds how long the worker takes to notice the stop signal.
const DefaultPollInterval = time.Second

// Runnable is the long-running work launched by the coordinator. Run must return
// once stop is set.
type Runnable interface {
	Run(stop *StopSignal)
}

// Worker is a cooperative loop that runs until the stop signal is observed.
type Worker struct {
	interval time.Duration
	clock    clock.Clock
	task     func()
	logger   *slog.Logger
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithPollInterval sets the loop cadence.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		w.interval = d
	}
}

// WithWorkerClock sets the clock driving the loop.
func WithWorkerClock(c clock.Clock) WorkerOption {
	return func(w *Worker) {
		w.clock = c
	}
}

// WithTask sets work to run on every tick.
func WithTask(task func()) WorkerOption {
	return func(w *Worker) {
		w.task = task
	}
}

// WithWorkerLogger sets the logger.
func WithWorkerLogger(l *slog.Logger) WorkerOption {
	return func(w *Worker) {
		w.logger = l
	}
}

// NewWorker creates a Worker.
func NewWorker(opts ...WorkerOption) *Worker {
	w := &Worker{
		interval: DefaultPollInterval,
		clock:    clock.New(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.interval <= 0 {
		w.interval = DefaultPollInterval
	}

	return w
}

// Run polls stop until it is set. Observing the signal does not reset it.
func (w *Worker) Run(stop *StopSignal) {
	w.logger.Debug("worker started", "interval", w.interval)

	ticker := w.clock.Ticker(w.interval)
	defer ticker.Stop()

	for !stop.IsSet() {
		select {
		case <-stop.Done():
		case <-ticker.C:
			if w.task != nil {
				w.task()
			}
		}
	}

	w.logger.Debug("worker stopped")
}
