package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

var (
	// ErrInvalidTransition is returned when a change would move the lifecycle backwards.
	ErrInvalidTransition = errors.New("invalid service state transition")

	// ErrPublishFailed is returned when a change was applied but the manager rejected it.
	ErrPublishFailed = errors.New("failed to publish service status")
)

// DefaultWaitHint is the wait hint reported with every status.
const DefaultWaitHint = 3 * time.Second

// Change describes a single status transition.
type Change struct {
	State    domain.ServiceState
	Accepts  domain.Accepted
	ExitCode uint32

	// Checkpoint is the new checkpoint value, or the amount to add when Increment is set.
	Checkpoint uint32
	Increment  bool
}

// StatusObserver is told about every applied transition. It must not block.
type StatusObserver interface {
	StatusChanged(status domain.ServiceStatus)
}

// Publisher owns the service status and reports every change to the service manager.
// The in-memory status is authoritative; a failed report is logged and kept.
type Publisher struct {
	mu        sync.Mutex
	status    domain.ServiceStatus
	reporter  domain.StatusReporter
	observers []StatusObserver
	logger    *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithWaitHint sets the wait hint reported with each status.
func WithWaitHint(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		p.status.WaitHint = d
	}
}

// WithPublisherLogger sets the logger.
func WithPublisherLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = l
	}
}

// WithObservers adds status observers.
func WithObservers(observers ...StatusObserver) PublisherOption {
	return func(p *Publisher) {
		p.observers = append(p.observers, observers...)
	}
}

// NewPublisher creates a Publisher. Until a reporter is attached, changes are applied
// in memory only.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		status: domain.ServiceStatus{
			ServiceType: domain.ServiceWin32OwnProcess,
			WaitHint:    DefaultWaitHint,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Attach sets the reporter used for subsequent changes.
func (p *Publisher) Attach(reporter domain.StatusReporter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reporter = reporter
}

// Current returns a copy of the current status.
func (p *Publisher) Current() domain.ServiceStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Transition applies c and publishes the result.
func (p *Publisher) Transition(c Change) (domain.ServiceStatus, error) {
	status, _, err := p.TransitionIf(nil, c)
	return status, err
}

// TransitionIf applies c only if cond holds for the current status, checked and applied
// atomically. It reports whether the change was applied. A nil cond always holds.
func (p *Publisher) TransitionIf(cond func(domain.ServiceStatus) bool, c Change) (domain.ServiceStatus, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cond != nil && !cond(p.status) {
		return p.status, false, nil
	}

	if !p.status.State.CanTransitionTo(c.State) {
		p.logger.Error("rejected service state transition",
			"from", p.status.State,
			"to", c.State,
		)
		return p.status, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.status.State, c.State)
	}

	next := p.status
	next.State = c.State
	next.Accepts = c.Accepts
	next.ExitCode = c.ExitCode
	if c.Increment {
		next.Checkpoint += c.Checkpoint
	} else {
		next.Checkpoint = c.Checkpoint
	}
	p.status = next

	err := p.publishLocked()

	for _, o := range p.observers {
		o.StatusChanged(next)
	}

	return next, true, err
}

// Republish reports the current status again without changing it.
func (p *Publisher) Republish() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.publishLocked()
}

func (p *Publisher) publishLocked() error {
	if p.reporter == nil {
		return nil
	}

	p.logger.Debug("publishing service status",
		"state", p.status.State,
		"accepts", uint32(p.status.Accepts),
		"exit_code", p.status.ExitCode,
		"checkpoint", p.status.Checkpoint,
	)

	if err := p.reporter.SetStatus(p.status); err != nil {
		p.logger.Error("failed to set service status",
			"state", p.status.State,
			"error_code", fmt.Sprintf("0x%08x", domain.ExitCode(err)),
			"error", err,
		)
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}
