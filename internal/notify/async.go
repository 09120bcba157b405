package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

const (
	defaultQueueSize   = 64
	defaultSendTimeout = 30 * time.Second
)

// ErrQueueFull is returned when a notification is dropped because the queue is full.
var ErrQueueFull = errors.New("notification queue full")

// AsyncNotifier hands notifications to a slow notifier from a background goroutine so
// the caller never waits on it. When the queue is full, notifications are dropped.
type AsyncNotifier struct {
	next        domain.Notifier
	ch          chan *domain.Notification
	done        chan struct{}
	sendTimeout time.Duration
	logger      *slog.Logger

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// AsyncOption configures an AsyncNotifier.
type AsyncOption func(*AsyncNotifier)

// WithQueueSize sets how many notifications may wait for delivery.
func WithQueueSize(n int) AsyncOption {
	return func(a *AsyncNotifier) {
		if n > 0 {
			a.ch = make(chan *domain.Notification, n)
		}
	}
}

// WithSendTimeout bounds each delivery to the wrapped notifier.
func WithSendTimeout(d time.Duration) AsyncOption {
	return func(a *AsyncNotifier) {
		a.sendTimeout = d
	}
}

// WithAsyncLogger sets the logger.
func WithAsyncLogger(l *slog.Logger) AsyncOption {
	return func(a *AsyncNotifier) {
		a.logger = l
	}
}

// NewAsyncNotifier wraps next and starts the delivery goroutine. Call Close to stop it.
func NewAsyncNotifier(next domain.Notifier, opts ...AsyncOption) *AsyncNotifier {
	a := &AsyncNotifier{
		next:        next,
		ch:          make(chan *domain.Notification, defaultQueueSize),
		done:        make(chan struct{}),
		sendTimeout: defaultSendTimeout,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	go a.drain()
	return a
}

// Notify queues the notification and returns immediately.
func (a *AsyncNotifier) Notify(_ context.Context, notification *domain.Notification) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return nil
	}

	select {
	case a.ch <- notification:
		return nil
	default:
		return ErrQueueFull
	}
}

// Validate validates the wrapped notifier.
func (a *AsyncNotifier) Validate(ctx context.Context) error {
	return a.next.Validate(ctx)
}

// Close stops accepting notifications and waits for queued ones to be delivered.
func (a *AsyncNotifier) Close() {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()
		close(a.ch)
		<-a.done
	})
}

func (a *AsyncNotifier) drain() {
	defer close(a.done)
	for n := range a.ch {
		ctx, cancel := context.WithTimeout(context.Background(), a.sendTimeout)
		if err := a.next.Notify(ctx, n); err != nil {
			a.logger.Warn("failed to deliver notification", "kind", n.Kind, "error", err)
		}
		cancel()
	}
}

// Ensure AsyncNotifier implements domain.Notifier.
var _ domain.Notifier = (*AsyncNotifier)(nil)
