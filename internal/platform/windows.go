//go:build windows

package platform

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/sharkusmanch/logon-notifier/internal/config"
)

const (
	uninstallPollAttempts = 6
	uninstallPollInterval = 3 * time.Second
)

// WindowsServiceManager manages Windows services.
type WindowsServiceManager struct {
	out io.Writer
}

// NewServiceManager creates a new service manager for the current platform.
// Non-fatal warnings are written to out.
func NewServiceManager(out io.Writer) ServiceManager {
	if out == nil {
		out = os.Stdout
	}
	return &WindowsServiceManager{out: out}
}

// IsSupported returns true on Windows.
func (w *WindowsServiceManager) IsSupported() bool {
	return CheckSupported() == nil
}

// CheckSupported requires Windows Vista or later, the first release with session
// change notifications for services.
func CheckSupported() error {
	v := windows.RtlGetVersion()
	if v.MajorVersion < 6 {
		return fmt.Errorf("%w: Windows %d.%d, Vista or later is required",
			ErrUnsupportedOS, v.MajorVersion, v.MinorVersion)
	}
	return nil
}

// Install installs the Windows service.
func (w *WindowsServiceManager) Install(ctx context.Context, opts InstallOptions) error {
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	// Make path absolute
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer m.Disconnect()

	// Check if service already exists
	s, err := m.OpenService(config.ServiceName)
	if err == nil {
		s.Close()
		return fmt.Errorf("service %s already exists", config.ServiceName)
	}

	// Build service arguments
	args := []string{"serve"}
	if opts.ConfigPath != "" {
		args = append(args, "--config", opts.ConfigPath)
	}

	// Determine start type
	startType := uint32(mgr.StartManual)
	if opts.AutoStart {
		startType = uint32(mgr.StartAutomatic)
	}

	cfg := mgr.Config{
		ServiceType:      windows.SERVICE_WIN32_OWN_PROCESS,
		DisplayName:      config.ServiceDisplayName,
		Description:      config.ServiceDescription,
		StartType:        startType,
		ServiceStartName: opts.Account,
	}

	s, err = m.CreateService(config.ServiceName, exePath, cfg, args...)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer s.Close()

	fmt.Fprintf(w.out, "Service %s installed: %s\n", config.ServiceName, exePath)

	if err := grantReadExecute(exePath, opts.Account); err != nil {
		fmt.Fprintf(w.out, "WARNING: failed to grant %s access to %s: %v\n", opts.Account, exePath, err)
	}

	if err := installEventSource(); err != nil {
		fmt.Fprintf(w.out, "WARNING: failed to register event log source: %v\n", err)
	}

	if err := s.Start(args...); err != nil {
		fmt.Fprintf(w.out, "WARNING: failed to start service: %v\n", err)
		return nil
	}

	fmt.Fprintf(w.out, "Service %s started\n", config.ServiceName)
	return nil
}

// grantReadExecute adds an allow entry for account to the DACL of path.
func grantReadExecute(path, account string) error {
	sid, _, _, err := windows.LookupSID("", account)
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	sd, err := windows.GetNamedSecurityInfo(path, windows.SE_FILE_OBJECT, windows.DACL_SECURITY_INFORMATION)
	if err != nil {
		return fmt.Errorf("failed to read security info: %w", err)
	}

	current, _, err := sd.DACL()
	if err != nil {
		return fmt.Errorf("failed to read DACL: %w", err)
	}

	access := []windows.EXPLICIT_ACCESS{{
		AccessPermissions: windows.GENERIC_READ | windows.GENERIC_EXECUTE,
		AccessMode:        windows.GRANT_ACCESS,
		Inheritance:       windows.NO_INHERITANCE,
		Trustee: windows.TRUSTEE{
			TrusteeForm:  windows.TRUSTEE_IS_SID,
			TrusteeType:  windows.TRUSTEE_IS_USER,
			TrusteeValue: windows.TrusteeValueFromSID(sid),
		},
	}}

	dacl, err := windows.ACLFromEntries(access, current)
	if err != nil {
		return fmt.Errorf("failed to build DACL: %w", err)
	}

	if err := windows.SetNamedSecurityInfo(path, windows.SE_FILE_OBJECT,
		windows.DACL_SECURITY_INFORMATION, nil, nil, dacl, nil); err != nil {
		return fmt.Errorf("failed to write security info: %w", err)
	}

	return nil
}

// Uninstall removes the Windows service.
func (w *WindowsServiceManager) Uninstall(ctx context.Context) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(config.ServiceName)
	if err != nil {
		return fmt.Errorf("service %s not found: %w", config.ServiceName, err)
	}
	defer s.Close()

	// Stop service if running
	status, err := s.Query()
	if err == nil && status.State == svc.Running {
		if _, err := s.Control(svc.Stop); err != nil {
			fmt.Fprintf(w.out, "WARNING: failed to stop service: %v\n", err)
		} else if !waitForStop(ctx, s) {
			fmt.Fprintf(w.out, "WARNING: service did not stop after %s\n",
				uninstallPollAttempts*uninstallPollInterval)
		}
	}

	if err := s.Delete(); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	if err := removeEventSource(); err != nil {
		fmt.Fprintf(w.out, "WARNING: failed to remove event log source: %v\n", err)
	}

	fmt.Fprintf(w.out, "Service %s removed\n", config.ServiceName)
	return nil
}

func waitForStop(ctx context.Context, s *mgr.Service) bool {
	for i := 0; i < uninstallPollAttempts; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(uninstallPollInterval):
		}

		status, err := s.Query()
		if err != nil {
			return false
		}
		if status.State == svc.Stopped {
			return true
		}
	}
	return false
}

// Start starts the Windows service.
func (w *WindowsServiceManager) Start(ctx context.Context) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(config.ServiceName)
	if err != nil {
		return fmt.Errorf("service %s not found: %w", config.ServiceName, err)
	}
	defer s.Close()

	err = s.Start()
	if err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	return nil
}

// Stop stops the Windows service.
func (w *WindowsServiceManager) Stop(ctx context.Context) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(config.ServiceName)
	if err != nil {
		return fmt.Errorf("service %s not found: %w", config.ServiceName, err)
	}
	defer s.Close()

	status, err := s.Control(svc.Stop)
	if err != nil {
		return fmt.Errorf("failed to stop service: %w", err)
	}

	// Wait for service to stop
	timeout := time.Now().Add(30 * time.Second)
	for status.State != svc.Stopped {
		if time.Now().After(timeout) {
			return fmt.Errorf("timeout waiting for service to stop")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(300 * time.Millisecond):
		}
		status, err = s.Query()
		if err != nil {
			return fmt.Errorf("failed to query service status: %w", err)
		}
	}

	return nil
}

// Status returns the current service status.
func (w *WindowsServiceManager) Status(ctx context.Context) (*ServiceInfo, error) {
	m, err := mgr.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to service manager: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(config.ServiceName)
	if err != nil {
		return &ServiceInfo{
			State:   ServiceStateNotInstalled,
			Message: "Service is not installed",
		}, nil
	}
	defer s.Close()

	status, err := s.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query service status: %w", err)
	}

	info := &ServiceInfo{
		State: fromSvcState(status.State),
		PID:   int(status.ProcessId),
	}
	if status.Win32ExitCode != 0 {
		info.Message = fmt.Sprintf("last exit code 0x%08x", status.Win32ExitCode)
	}
	return info, nil
}

// RunAsService runs the application as a Windows service. It blocks until run returns
// and reports the registration error of the service control dispatcher, if any.
func RunAsService(run ServiceRunner) error {
	return svc.Run(config.ServiceName, &windowsHandler{run: run})
}

// IsRunningAsService returns true if running as a Windows service.
func IsRunningAsService() bool {
	isService, err := svc.IsWindowsService()
	if err != nil {
		return false
	}
	return isService
}

// windowsHandler implements svc.Handler.
type windowsHandler struct {
	run ServiceRunner
}

func (h *windowsHandler) Execute(args []string, r <-chan svc.ChangeRequest, changes chan<- svc.Status) (svcSpecificEC bool, exitCode uint32) {
	m := newChannelManager(r, changes)
	defer m.close()

	h.run(m)

	return false, m.lastExitCode()
}
