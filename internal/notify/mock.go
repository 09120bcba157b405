package notify

import (
	"context"
	"sync"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

// MockNotifier is a mock implementation of domain.Notifier for testing.
type MockNotifier struct {
	NotifyFunc   func(ctx context.Context, notification *domain.Notification) error
	ValidateFunc func(ctx context.Context) error

	mu            sync.Mutex
	notifications []*domain.Notification
}

// Notify calls the mock NotifyFunc and stores the notification.
func (m *MockNotifier) Notify(ctx context.Context, notification *domain.Notification) error {
	m.mu.Lock()
	m.notifications = append(m.notifications, notification)
	m.mu.Unlock()

	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, notification)
	}
	return nil
}

// Validate calls the mock ValidateFunc.
func (m *MockNotifier) Validate(ctx context.Context) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx)
	}
	return nil
}

// Notifications returns a copy of all notifications sent so far.
func (m *MockNotifier) Notifications() []*domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// Sessions returns the session events sent so far, in order.
func (m *MockNotifier) Sessions() []domain.SessionEvent {
	var out []domain.SessionEvent
	for _, n := range m.Notifications() {
		if n.Kind == domain.NotificationSession && n.Session != nil {
			out = append(out, *n.Session)
		}
	}
	return out
}

// Messages returns the messages of control notifications sent so far.
func (m *MockNotifier) Messages() []string {
	var out []string
	for _, n := range m.Notifications() {
		if n.Kind == domain.NotificationControl {
			out = append(out, n.Message)
		}
	}
	return out
}

// Reset clears all stored notifications.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = nil
}

// Ensure MockNotifier implements domain.Notifier.
var _ domain.Notifier = (*MockNotifier)(nil)
