// Package domain defines the service data model and the interfaces at its boundaries.
package domain

import (
	"context"
	"time"
)

// ServiceState represents the lifecycle state of a system service.
type ServiceState string

const (
	// ServiceStateUnknown indicates the state cannot be determined.
	ServiceStateUnknown ServiceState = "unknown"
	// ServiceStateStartPending indicates the service is starting.
	ServiceStateStartPending ServiceState = "start_pending"
	// ServiceStateRunning indicates the service is running.
	ServiceStateRunning ServiceState = "running"
	// ServiceStateStopPending indicates the service is stopping.
	ServiceStateStopPending ServiceState = "stop_pending"
	// ServiceStateStopped indicates the service is stopped.
	ServiceStateStopped ServiceState = "stopped"
	// ServiceStateNotInstalled indicates the service is not installed.
	ServiceStateNotInstalled ServiceState = "not_installed"
)

// String returns the string representation of the service state.
func (s ServiceState) String() string {
	return string(s)
}

// rank orders the lifecycle states. Query-only states rank zero.
func (s ServiceState) rank() int {
	switch s {
	case ServiceStateStartPending:
		return 1
	case ServiceStateRunning:
		return 2
	case ServiceStateStopPending:
		return 3
	case ServiceStateStopped:
		return 4
	default:
		return 0
	}
}

// IsLifecycle reports whether s is one of the four states a running service reports.
func (s ServiceState) IsLifecycle() bool {
	return s.rank() > 0
}

// CanTransitionTo reports whether moving from s to next keeps the lifecycle monotonic.
// Staying in the same state is allowed so a status can be re-published. Stopped may be
// entered from any earlier state because startup can fail before Running is reached.
func (s ServiceState) CanTransitionTo(next ServiceState) bool {
	if !next.IsLifecycle() {
		return false
	}
	if s == "" {
		return next == ServiceStateStartPending
	}
	if !s.IsLifecycle() {
		return false
	}
	if next == s {
		return true
	}
	if next == ServiceStateStopped {
		return true
	}
	return next.rank() == s.rank()+1
}

// ServiceType identifies how the service process is hosted.
type ServiceType uint32

// ServiceWin32OwnProcess is a service that runs in its own process.
const ServiceWin32OwnProcess ServiceType = 0x00000010

// Accepted is the set of controls the service currently accepts.
type Accepted uint32

const (
	// AcceptStop accepts stop requests.
	AcceptStop Accepted = 1 << iota
	// AcceptShutdown accepts system shutdown notifications.
	AcceptShutdown
	// AcceptSessionChange accepts session change notifications.
	AcceptSessionChange
)

// AcceptNone accepts no controls.
const AcceptNone Accepted = 0

// Has reports whether all bits of a are set.
func (c Accepted) Has(a Accepted) bool {
	return c&a == a
}

// ServiceStatus is the status reported to the service manager.
type ServiceStatus struct {
	ServiceType ServiceType
	State       ServiceState
	Accepts     Accepted
	ExitCode    uint32
	Checkpoint  uint32
	WaitHint    time.Duration
}

// StatusReporter publishes a status to the service manager.
type StatusReporter interface {
	SetStatus(status ServiceStatus) error
}

// ServiceInfo contains information about an installed service, as queried by the CLI.
type ServiceInfo struct {
	// State is the current service state.
	State ServiceState `json:"state"`

	// PID is the process ID if running.
	PID int `json:"pid,omitempty"`

	// Message provides additional status information.
	Message string `json:"message,omitempty"`
}

// InstallOptions contains options for service installation.
type InstallOptions struct {
	// Account is the account to run the service as.
	Account string

	// ConfigPath is the path to the config file.
	ConfigPath string

	// AutoStart enables automatic service start on boot.
	AutoStart bool
}

// ServiceManager defines the interface for installing and controlling the service.
// Implementations are platform-specific.
type ServiceManager interface {
	// Install installs the service.
	Install(ctx context.Context, opts InstallOptions) error

	// Uninstall stops the service if needed and removes it.
	Uninstall(ctx context.Context) error

	// Start starts the service.
	Start(ctx context.Context) error

	// Stop stops the service.
	Stop(ctx context.Context) error

	// Status returns the current service status.
	Status(ctx context.Context) (*ServiceInfo, error)

	// IsSupported returns true if this service manager is supported on the current platform.
	IsSupported() bool
}
