//go:build !windows

package platform

import (
	"context"
	"fmt"
	"io"
)

// UnixServiceManager is a stub service manager for non-Windows platforms.
type UnixServiceManager struct{}

// NewServiceManager creates a new service manager for the current platform.
func NewServiceManager(_ io.Writer) ServiceManager {
	return &UnixServiceManager{}
}

// IsSupported returns false on non-Windows platforms.
func (u *UnixServiceManager) IsSupported() bool {
	return false
}

// Install is not implemented on non-Windows platforms.
func (u *UnixServiceManager) Install(ctx context.Context, opts InstallOptions) error {
	return fmt.Errorf("service installation is not supported on this platform: %w", ErrUnsupportedOS)
}

// Uninstall is not implemented on non-Windows platforms.
func (u *UnixServiceManager) Uninstall(ctx context.Context) error {
	return fmt.Errorf("service uninstallation is not supported on this platform: %w", ErrUnsupportedOS)
}

// Start is not implemented on non-Windows platforms.
func (u *UnixServiceManager) Start(ctx context.Context) error {
	return fmt.Errorf("service start is not supported on this platform: %w", ErrUnsupportedOS)
}

// Stop is not implemented on non-Windows platforms.
func (u *UnixServiceManager) Stop(ctx context.Context) error {
	return fmt.Errorf("service stop is not supported on this platform: %w", ErrUnsupportedOS)
}

// Status is not implemented on non-Windows platforms.
func (u *UnixServiceManager) Status(ctx context.Context) (*ServiceInfo, error) {
	return &ServiceInfo{
		State:   ServiceStateUnknown,
		Message: "Service management is not supported on this platform",
	}, nil
}

// CheckSupported reports that only the foreground console mode is available here.
func CheckSupported() error {
	return ErrUnsupportedOS
}

// RunAsService is not implemented on non-Windows platforms.
func RunAsService(_ ServiceRunner) error {
	return fmt.Errorf("running as service is not supported on this platform: %w", ErrUnsupportedOS)
}

// IsRunningAsService returns false on non-Windows platforms.
func IsRunningAsService() bool {
	return false
}

// ReportEvent is a no-op outside Windows.
func ReportEvent(_ EventType, _ string) error {
	return nil
}
