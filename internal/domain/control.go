package domain

import (
	"errors"
	"syscall"
)

// ControlCode identifies a request delivered by the service manager.
type ControlCode int

const (
	// ControlOther is any control the service does not handle.
	ControlOther ControlCode = iota
	// ControlStop requests the service to stop.
	ControlStop
	// ControlShutdown notifies the service that the system is shutting down.
	ControlShutdown
	// ControlSessionChange notifies the service of a session change.
	ControlSessionChange
	// ControlInterrogate asks the service to report its current status.
	ControlInterrogate
)

// String returns the string representation of the control code.
func (c ControlCode) String() string {
	switch c {
	case ControlStop:
		return "stop"
	case ControlShutdown:
		return "shutdown"
	case ControlSessionChange:
		return "session_change"
	case ControlInterrogate:
		return "interrogate"
	default:
		return "other"
	}
}

// SessionEventType is the WTS event type carried by a session change control.
type SessionEventType uint32

// Session change event types, as numbered by the Windows terminal services API.
const (
	WTSConsoleConnect    SessionEventType = 0x1
	WTSConsoleDisconnect SessionEventType = 0x2
	WTSRemoteConnect     SessionEventType = 0x3
	WTSRemoteDisconnect  SessionEventType = 0x4
	WTSSessionLogon      SessionEventType = 0x5
	WTSSessionLogoff     SessionEventType = 0x6
	WTSSessionLock       SessionEventType = 0x7
	WTSSessionUnlock     SessionEventType = 0x8
)

// ControlRequest is a single control delivery from the service manager.
type ControlRequest struct {
	Code ControlCode

	// EventType and SessionID are only meaningful when Code is ControlSessionChange.
	EventType SessionEventType
	SessionID uint32

	// Raw is the manager's own control number, kept for logging.
	Raw uint32
}

// Dispatcher return codes.
const (
	NoError                 uint32 = 0
	ErrorCallNotImplemented uint32 = 120
	ErrorServiceForcedStop  uint32 = 1053
)

// ControlHandler receives control deliveries. It must return promptly.
type ControlHandler interface {
	Handle(req ControlRequest) uint32
}

// ControlHandlerFunc adapts a function to ControlHandler.
type ControlHandlerFunc func(req ControlRequest) uint32

// Handle calls f(req).
func (f ControlHandlerFunc) Handle(req ControlRequest) uint32 {
	return f(req)
}

// Manager is the service manager boundary the service registers with.
type Manager interface {
	// Register installs handler as the receiver of control deliveries and returns the
	// reporter used to publish status.
	Register(handler ControlHandler) (StatusReporter, error)
}

// ExitCode maps err to a Win32-style exit code.
func ExitCode(err error) uint32 {
	if err == nil {
		return NoError
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return uint32(errno)
	}
	return 1
}
