// Package app provides the service control state machine.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

// ErrLaunchFailed is returned by a Launcher that could not start the worker.
var ErrLaunchFailed = errors.New("failed to launch worker")

// Launcher starts fn as an independent unit of execution.
type Launcher func(fn func()) error

// GoLauncher runs fn in a new goroutine.
func GoLauncher(fn func()) error {
	go fn()
	return nil
}

// Outcome is how a service run ended.
type Outcome int

const (
	// OutcomeStopped is a normal stop after the worker finished.
	OutcomeStopped Outcome = iota
	// OutcomeRegisterFailed means the control handler could not be registered.
	OutcomeRegisterFailed
	// OutcomeSignalFailed means the stop signal could not be created.
	OutcomeSignalFailed
	// OutcomeLaunchFailed means the worker could not be launched.
	OutcomeLaunchFailed
	// OutcomeForcedStop means the worker did not finish within the stop timeout.
	OutcomeForcedStop
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeStopped:
		return "stopped"
	case OutcomeRegisterFailed:
		return "register_failed"
	case OutcomeSignalFailed:
		return "signal_failed"
	case OutcomeLaunchFailed:
		return "launch_failed"
	case OutcomeForcedStop:
		return "forced_stop"
	default:
		return "unknown"
	}
}

// Coordinator runs one service lifecycle from registration to the final stopped report.
type Coordinator struct {
	manager     domain.Manager
	worker      Runnable
	notifier    domain.Notifier
	logger      *slog.Logger
	newSignal   SignalFactory
	launch      Launcher
	clock       clock.Clock
	waitHint    time.Duration
	stopTimeout time.Duration
	observers   []StatusObserver

	publisher atomic.Pointer[Publisher]
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithWorker sets the work launched once the service is running.
func WithWorker(r Runnable) CoordinatorOption {
	return func(c *Coordinator) {
		c.worker = r
	}
}

// WithNotifier sets the notification sink.
func WithNotifier(n domain.Notifier) CoordinatorOption {
	return func(c *Coordinator) {
		c.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithSignalFactory sets how the stop signal is created.
func WithSignalFactory(f SignalFactory) CoordinatorOption {
	return func(c *Coordinator) {
		c.newSignal = f
	}
}

// WithLauncher sets how the worker is launched.
func WithLauncher(l Launcher) CoordinatorOption {
	return func(c *Coordinator) {
		c.launch = l
	}
}

// WithClock sets the clock used for the stop timeout.
func WithClock(cl clock.Clock) CoordinatorOption {
	return func(c *Coordinator) {
		c.clock = cl
	}
}

// WithStatusWaitHint sets the wait hint reported with each status.
func WithStatusWaitHint(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.waitHint = d
	}
}

// WithStopTimeout bounds the wait for the worker once stop has been requested.
// Zero waits indefinitely.
func WithStopTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.stopTimeout = d
	}
}

// WithStatusObserver adds an observer of every status transition.
func WithStatusObserver(o StatusObserver) CoordinatorOption {
	return func(c *Coordinator) {
		c.observers = append(c.observers, o)
	}
}

// NewCoordinator creates a Coordinator for manager.
func NewCoordinator(manager domain.Manager, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		manager:   manager,
		notifier:  &domain.NopNotifier{},
		logger:    slog.Default(),
		newSignal: NewStopSignal,
		launch:    GoLauncher,
		clock:     clock.New(),
		waitHint:  DefaultWaitHint,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.worker == nil {
		c.worker = NewWorker(WithWorkerLogger(c.logger))
	}

	return c
}

// Status returns the status of the most recent run.
func (c *Coordinator) Status() domain.ServiceStatus {
	p := c.publisher.Load()
	if p == nil {
		return domain.ServiceStatus{}
	}
	return p.Current()
}

// Run executes one service lifecycle and blocks until it ends. Cancelling ctx is
// handled like a stop control.
func (c *Coordinator) Run(ctx context.Context) Outcome {
	publisher := NewPublisher(
		WithWaitHint(c.waitHint),
		WithPublisherLogger(c.logger),
		WithObservers(c.observers...),
	)
	c.publisher.Store(publisher)

	dispatcher := NewDispatcher(publisher,
		WithDispatcherNotifier(c.notifier),
		WithDispatcherLogger(c.logger),
	)

	reporter, err := c.manager.Register(dispatcher)
	if err != nil {
		c.logger.Error("failed to register control handler", "error", err)
		c.notify(domain.NotificationLevelError,
			"ERROR: registering the control handler failed! Error code 0x%08x", domain.ExitCode(err))
		return OutcomeRegisterFailed
	}
	publisher.Attach(reporter)

	c.apply(Change{
		State:    domain.ServiceStateStartPending,
		Accepts:  domain.AcceptNone,
		ExitCode: domain.NoError,
	})

	signal, err := c.newSignal()
	if err != nil {
		c.logger.Error("failed to create stop signal", "error", err)
		c.notify(domain.NotificationLevelError,
			"ERROR: creating the stop signal failed! Error code 0x%08x", domain.ExitCode(err))
		c.apply(Change{
			State:      domain.ServiceStateStopped,
			Accepts:    domain.AcceptNone,
			ExitCode:   domain.ExitCode(err),
			Checkpoint: 1,
		})
		return OutcomeSignalFailed
	}
	dispatcher.AttachSignal(signal)

	c.apply(Change{
		State:    domain.ServiceStateRunning,
		Accepts:  domain.AcceptStop | domain.AcceptShutdown | domain.AcceptSessionChange,
		ExitCode: domain.NoError,
	})
	c.logger.Info("service running")

	done := make(chan struct{})
	if err := c.launch(func() {
		defer close(done)
		c.worker.Run(signal)
	}); err != nil {
		c.logger.Error("failed to launch worker", "error", err)
		c.notify(domain.NotificationLevelError,
			"ERROR: launching the worker failed! Error code 0x%08x", domain.ExitCode(err))
		c.apply(Change{
			State:      domain.ServiceStateStopped,
			Accepts:    domain.AcceptNone,
			ExitCode:   domain.ExitCode(err),
			Checkpoint: 2,
		})
		return OutcomeLaunchFailed
	}

	if forced := c.wait(ctx, dispatcher, signal, done); forced {
		c.logger.Warn("worker did not stop in time, forcing stop", "timeout", c.stopTimeout)
		c.notify(domain.NotificationLevelWarning, "WARNING: Service was forced to stop.")
		c.apply(Change{
			State:      domain.ServiceStateStopped,
			Accepts:    domain.AcceptNone,
			ExitCode:   domain.ErrorServiceForcedStop,
			Checkpoint: 3,
		})
		return OutcomeForcedStop
	}

	c.apply(Change{
		State:      domain.ServiceStateStopped,
		Accepts:    domain.AcceptNone,
		ExitCode:   domain.NoError,
		Checkpoint: 3,
	})
	c.logger.Info("service stopped")
	c.notify(domain.NotificationLevelInfo, "Service stopped.")

	return OutcomeStopped
}

// wait blocks until the worker finishes. It reports true when the stop timeout expired
// first.
func (c *Coordinator) wait(ctx context.Context, dispatcher *Dispatcher, signal *StopSignal, done <-chan struct{}) bool {
	ctxDone := ctx.Done()

	var stopped <-chan struct{}
	if c.stopTimeout > 0 {
		stopped = signal.Done()
	}

	var deadline <-chan time.Time

	for {
		select {
		case <-done:
			return false

		case <-ctxDone:
			ctxDone = nil
			c.logger.Info("context cancelled, requesting stop")
			dispatcher.Handle(domain.ControlRequest{Code: domain.ControlStop})

		case <-stopped:
			stopped = nil
			deadline = c.clock.After(c.stopTimeout)

		case <-deadline:
			return true
		}
	}
}

// apply performs a transition. Publication failures are logged by the publisher and do
// not interrupt the lifecycle.
func (c *Coordinator) apply(change Change) {
	if _, err := c.publisher.Load().Transition(change); err != nil && !errors.Is(err, ErrPublishFailed) {
		c.logger.Error("status transition failed", "state", change.State, "error", err)
	}
}

func (c *Coordinator) notify(level domain.NotificationLevel, format string, args ...any) {
	if err := c.notifier.Notify(context.Background(), domain.ControlNotification(level, format, args...)); err != nil {
		c.logger.Debug("notification dropped", "error", err)
	}
}
