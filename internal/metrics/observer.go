package metrics

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

const (
	defaultPushTimeout = 10 * time.Second
	defaultBacklog     = 16
)

// StatusObserver pushes a metrics snapshot for every published service status.
// StatusChanged never blocks; pushes run on a background goroutine and snapshots
// are dropped when the backlog is full.
type StatusObserver struct {
	pusher   domain.MetricsPusher
	hostname string
	timeout  time.Duration
	logger   *slog.Logger

	mu     sync.RWMutex
	closed bool
	ch     chan *domain.Metrics
	done   chan struct{}
	once   sync.Once
}

// ObserverOption configures a StatusObserver.
type ObserverOption func(*StatusObserver)

// WithPushTimeout bounds each push.
func WithPushTimeout(d time.Duration) ObserverOption {
	return func(o *StatusObserver) {
		o.timeout = d
	}
}

// WithObserverHostname overrides the instance label.
func WithObserverHostname(hostname string) ObserverOption {
	return func(o *StatusObserver) {
		o.hostname = hostname
	}
}

// WithObserverLogger sets the logger.
func WithObserverLogger(logger *slog.Logger) ObserverOption {
	return func(o *StatusObserver) {
		o.logger = logger
	}
}

// NewStatusObserver starts a StatusObserver feeding pusher. Close must be called to
// flush pending snapshots.
func NewStatusObserver(pusher domain.MetricsPusher, opts ...ObserverOption) *StatusObserver {
	hostname, _ := os.Hostname()

	o := &StatusObserver{
		pusher:   pusher,
		hostname: hostname,
		timeout:  defaultPushTimeout,
		logger:   slog.Default(),
		ch:       make(chan *domain.Metrics, defaultBacklog),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(o)
	}

	go o.run()
	return o
}

// StatusChanged queues a snapshot of status.
func (o *StatusObserver) StatusChanged(status domain.ServiceStatus) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return
	}

	select {
	case o.ch <- domain.NewMetrics(o.hostname, status):
	default:
		o.logger.Warn("metrics backlog full, dropping snapshot", "state", status.State)
	}
}

// Close stops accepting snapshots and waits for queued pushes to finish.
func (o *StatusObserver) Close() {
	o.once.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.ch)
		o.mu.Unlock()
		<-o.done
	})
}

func (o *StatusObserver) run() {
	defer close(o.done)

	for m := range o.ch {
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		if err := o.pusher.Push(ctx, m); err != nil {
			o.logger.Warn("failed to push metrics", "state", m.Status.State, "error", err)
		}
		cancel()
	}
}
