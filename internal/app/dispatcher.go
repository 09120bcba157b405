package app

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

// Dispatcher translates manager control deliveries into status transitions, the stop
// signal and session notifications. Handle never blocks on the worker.
type Dispatcher struct {
	publisher *Publisher
	signal    atomic.Pointer[StopSignal]
	notifier  domain.Notifier
	logger    *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherNotifier sets the notification sink.
func WithDispatcherNotifier(n domain.Notifier) DispatcherOption {
	return func(d *Dispatcher) {
		d.notifier = n
	}
}

// WithDispatcherLogger sets the logger.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// NewDispatcher creates a Dispatcher that mutates publisher.
func NewDispatcher(publisher *Publisher, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		publisher: publisher,
		notifier:  &domain.NopNotifier{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// AttachSignal sets the stop signal that stop and shutdown controls set.
func (d *Dispatcher) AttachSignal(s *StopSignal) {
	d.signal.Store(s)
}

// Handle processes a single control delivery and returns the code reported to the manager.
func (d *Dispatcher) Handle(req domain.ControlRequest) uint32 {
	switch req.Code {
	case domain.ControlStop, domain.ControlShutdown:
		return d.handleStop(req)

	case domain.ControlSessionChange:
		return d.handleSessionChange(req)

	case domain.ControlInterrogate:
		_ = d.publisher.Republish()
		return domain.NoError

	default:
		d.logger.Debug("control not implemented", "control", req.Raw)
		return domain.ErrorCallNotImplemented
	}
}

func (d *Dispatcher) handleStop(req domain.ControlRequest) uint32 {
	isRunning := func(s domain.ServiceStatus) bool {
		return s.State == domain.ServiceStateRunning
	}

	_, applied, err := d.publisher.TransitionIf(isRunning, Change{
		State:      domain.ServiceStateStopPending,
		Accepts:    domain.AcceptNone,
		ExitCode:   domain.NoError,
		Checkpoint: 1,
		Increment:  true,
	})
	if !applied {
		d.logger.Debug("ignoring stop request, service is not running", "control", req.Code)
		return domain.NoError
	}
	if err != nil {
		d.logger.Warn("stop pending status was not published", "error", err)
	}

	d.logger.Info("Service is stopping", "control", req.Code)
	d.notify(domain.ControlNotification(domain.NotificationLevelInfo, "Service is stopping."))

	if s := d.signal.Load(); s != nil {
		s.Set()
	}

	return domain.NoError
}

func (d *Dispatcher) handleSessionChange(req domain.ControlRequest) uint32 {
	ev, ok := domain.SessionEventFromRequest(req)
	if !ok {
		d.logger.Debug("ignoring session change", "event_type", uint32(req.EventType))
		return domain.NoError
	}

	d.logger.Info("session change", "kind", ev.Kind, "session_id", ev.SessionID)
	d.notify(domain.SessionNotification(ev))

	return domain.NoError
}

func (d *Dispatcher) notify(n *domain.Notification) {
	if err := d.notifier.Notify(context.Background(), n); err != nil {
		d.logger.Debug("notification dropped", "error", err)
	}
}
