// Package platform provides platform-specific service management.
package platform

import (
	"errors"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

// ErrUnsupportedOS is returned when the operating system cannot host the service.
var ErrUnsupportedOS = errors.New("this operating system is not supported")

// InstallOptions contains options for service installation.
type InstallOptions = domain.InstallOptions

// ServiceInfo contains service status information.
type ServiceInfo = domain.ServiceInfo

// ServiceState represents service state.
type ServiceState = domain.ServiceState

// Service state constants.
const (
	ServiceStateUnknown      = domain.ServiceStateUnknown
	ServiceStateStartPending = domain.ServiceStateStartPending
	ServiceStateRunning      = domain.ServiceStateRunning
	ServiceStateStopPending  = domain.ServiceStateStopPending
	ServiceStateStopped      = domain.ServiceStateStopped
	ServiceStateNotInstalled = domain.ServiceStateNotInstalled
)

// ServiceManager defines the interface for managing system services.
type ServiceManager = domain.ServiceManager

// ServiceRunner runs one service lifecycle against the control manager it is given
// and returns once the final status has been reported.
type ServiceRunner func(m domain.Manager)
