// Package notify provides the notification sinks for session and lifecycle records.
package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benbjohnson/clock"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
)

const (
	// MaxMessageLength is the longest message the file sink writes, in bytes.
	MaxMessageLength = 4096

	timestampLayout = "01/02/2006 15:04:05.000"
)

// ErrMessageLength is returned for messages that are empty or too long to write.
var ErrMessageLength = errors.New("message length out of range")

// FileSink appends timestamped records to a text file. The file is opened and closed
// on every write so no handle is held between records.
type FileSink struct {
	path  string
	clock clock.Clock
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithClock sets the clock used for timestamps.
func WithClock(c clock.Clock) FileSinkOption {
	return func(f *FileSink) {
		f.clock = c
	}
}

// NewFileSink creates a FileSink writing to path.
func NewFileSink(path string, opts ...FileSinkOption) *FileSink {
	f := &FileSink{
		path:  path,
		clock: clock.New(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Path returns the file the sink writes to.
func (f *FileSink) Path() string {
	return f.path
}

// Notify appends the notification message to the file.
func (f *FileSink) Notify(_ context.Context, notification *domain.Notification) error {
	msg := notification.Message
	if len(msg) < 1 || len(msg) > MaxMessageLength {
		return fmt.Errorf("%w: %d bytes", ErrMessageLength, len(msg))
	}

	ts := f.clock.Now().Local().Format(timestampLayout)
	record := fmt.Sprintf("\r\n[%s] %s", ts, msg)

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open session log: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(record); err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}

	return nil
}

// Validate checks that the directory holding the file exists.
func (f *FileSink) Validate(_ context.Context) error {
	if f.path == "" {
		return fmt.Errorf("session log path is empty")
	}
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("session log directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("session log directory is not a directory: %s", dir)
	}
	return nil
}

// Ensure FileSink implements domain.Notifier.
var _ domain.Notifier = (*FileSink)(nil)
