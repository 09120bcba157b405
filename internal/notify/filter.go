package notify

import (
	"context"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

// LevelFilter forwards only notifications at or above a minimum level.
type LevelFilter struct {
	next domain.Notifier
	min  domain.NotificationLevel
}

// NewLevelFilter wraps next so that it only sees notifications at min or above.
func NewLevelFilter(next domain.Notifier, min domain.NotificationLevel) *LevelFilter {
	return &LevelFilter{next: next, min: min}
}

// Notify forwards n when its level passes the filter.
func (f *LevelFilter) Notify(ctx context.Context, n *domain.Notification) error {
	if severity(n.Level) < severity(f.min) {
		return nil
	}
	return f.next.Notify(ctx, n)
}

// Validate validates the wrapped notifier.
func (f *LevelFilter) Validate(ctx context.Context) error {
	return f.next.Validate(ctx)
}

// Close closes the wrapped notifier when it supports closing.
func (f *LevelFilter) Close() {
	if c, ok := f.next.(interface{ Close() }); ok {
		c.Close()
	}
}

func severity(level domain.NotificationLevel) int {
	switch level {
	case domain.NotificationLevelWarning:
		return 1
	case domain.NotificationLevelError:
		return 2
	default:
		return 0
	}
}

var _ domain.Notifier = (*LevelFilter)(nil)
