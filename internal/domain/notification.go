package domain

import (
	"context"
	"fmt"
)

// SessionEventKind is the kind of a session transition.
type SessionEventKind string

const (
	// SessionLogon is a user logon.
	SessionLogon SessionEventKind = "logon"
	// SessionLogoff is a user logoff.
	SessionLogoff SessionEventKind = "logoff"
)

// SessionEvent is a logon or logoff in a numbered session.
type SessionEvent struct {
	Kind      SessionEventKind `json:"kind"`
	SessionID uint32           `json:"session_id"`
}

// SessionEventFromRequest builds a SessionEvent from a session change request.
// It returns false for event types other than logon and logoff.
func SessionEventFromRequest(req ControlRequest) (SessionEvent, bool) {
	switch req.EventType {
	case WTSSessionLogon:
		return SessionEvent{Kind: SessionLogon, SessionID: req.SessionID}, true
	case WTSSessionLogoff:
		return SessionEvent{Kind: SessionLogoff, SessionID: req.SessionID}, true
	default:
		return SessionEvent{}, false
	}
}

// String renders the event the way it appears in the session log.
func (e SessionEvent) String() string {
	switch e.Kind {
	case SessionLogon:
		return fmt.Sprintf("Logon session %d", e.SessionID)
	case SessionLogoff:
		return fmt.Sprintf("Logoff session %d", e.SessionID)
	default:
		return fmt.Sprintf("%s session %d", e.Kind, e.SessionID)
	}
}

// NotificationKind separates session records from service lifecycle records.
type NotificationKind string

const (
	// NotificationSession carries a SessionEvent.
	NotificationSession NotificationKind = "session"
	// NotificationControl carries a lifecycle message.
	NotificationControl NotificationKind = "control"
)

// NotificationLevel represents the severity of a notification.
type NotificationLevel string

const (
	// NotificationLevelInfo is for informational messages.
	NotificationLevelInfo NotificationLevel = "info"
	// NotificationLevelWarning is for warning messages.
	NotificationLevelWarning NotificationLevel = "warning"
	// NotificationLevelError is for error messages.
	NotificationLevelError NotificationLevel = "error"
)

// Notification is a record handed to the notification sink.
type Notification struct {
	Kind    NotificationKind  `json:"kind"`
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`

	// Session is set for NotificationSession records.
	Session *SessionEvent `json:"session,omitempty"`
}

// SessionNotification creates a session record.
func SessionNotification(ev SessionEvent) *Notification {
	return &Notification{
		Kind:    NotificationSession,
		Level:   NotificationLevelInfo,
		Message: ev.String(),
		Session: &ev,
	}
}

// ControlNotification creates a lifecycle record.
func ControlNotification(level NotificationLevel, format string, args ...any) *Notification {
	return &Notification{
		Kind:    NotificationControl,
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	}
}

// Notifier defines the interface for the notification sink.
type Notifier interface {
	// Notify delivers a notification.
	Notify(ctx context.Context, notification *Notification) error

	// Validate checks if the notifier is properly configured.
	Validate(ctx context.Context) error
}

// NopNotifier is a no-op notifier that does nothing.
type NopNotifier struct{}

// Notify does nothing.
func (n *NopNotifier) Notify(_ context.Context, _ *Notification) error {
	return nil
}

// Validate always returns nil.
func (n *NopNotifier) Validate(_ context.Context) error {
	return nil
}
