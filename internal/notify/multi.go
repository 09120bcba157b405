package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

// MultiNotifier sends notifications to multiple notifiers.
type MultiNotifier struct {
	notifiers []domain.Notifier
	logger    *slog.Logger
}

// NewMultiNotifier creates a new MultiNotifier. Nil notifiers are skipped.
func NewMultiNotifier(notifiers ...domain.Notifier) *MultiNotifier {
	m := &MultiNotifier{logger: slog.Default()}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Notify sends a notification to all configured notifiers.
// Returns an error if any notifier fails, but attempts all notifiers.
func (m *MultiNotifier) Notify(ctx context.Context, notification *domain.Notification) error {
	var errs []error

	for _, notifier := range m.notifiers {
		if err := notifier.Notify(ctx, notification); err != nil {
			m.logger.Debug("notifier failed", "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Validate validates all configured notifiers.
func (m *MultiNotifier) Validate(ctx context.Context) error {
	var errs []error

	for _, notifier := range m.notifiers {
		if err := notifier.Validate(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Close closes every notifier that holds background resources.
func (m *MultiNotifier) Close() {
	for _, notifier := range m.notifiers {
		if c, ok := notifier.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

// Ensure MultiNotifier implements domain.Notifier.
var _ domain.Notifier = (*MultiNotifier)(nil)
