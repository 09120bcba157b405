package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sharkusmanch/logon-notifier/internal/config"
	"github.com/sharkusmanch/logon-notifier/internal/platform"
)

var (
	installAccount string
	installManual  bool
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install and start the LogonNotifier service",
		Long: `Install logon-notifier as the LogonNotifier Windows service and start it.

The service runs as NT AUTHORITY\LocalService unless another account is given,
and that account is granted read and execute access to the executable.

Errors are printed to the console and do not change the exit code.`,
		RunE: runInstall,
	}

	cmd.Flags().StringVar(&installAccount, "account", "", "account to run the service as (default from config)")
	cmd.Flags().BoolVar(&installManual, "manual", false, "register the service with manual start")

	return cmd
}

func runInstall(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if err := platform.CheckSupported(); err != nil {
		fmt.Fprintf(out, "ERROR: %v\n", err)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "ERROR: failed to load config: %v\n", err)
		return nil
	}

	opts := platform.InstallOptions{
		Account:    cfg.Service.Account,
		ConfigPath: cfgFile,
		AutoStart:  cfg.Service.AutoStart && !installManual,
	}
	if installAccount != "" {
		opts.Account = installAccount
	}

	mgr := platform.NewServiceManager(out)
	if err := mgr.Install(cmd.Context(), opts); err != nil {
		fmt.Fprintf(out, "ERROR: failed to install service: %v\n", err)
		return nil
	}

	fmt.Fprintln(out, "Service installed successfully.")
	return nil
}

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Stop and remove the LogonNotifier service",
		Long: `Stop the LogonNotifier service if it is running and remove it.

Errors are printed to the console and do not change the exit code.`,
		RunE: runUninstall,
	}

	return cmd
}

func runUninstall(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if err := platform.CheckSupported(); err != nil {
		fmt.Fprintf(out, "ERROR: %v\n", err)
		return nil
	}

	mgr := platform.NewServiceManager(out)
	if err := mgr.Uninstall(cmd.Context()); err != nil {
		fmt.Fprintf(out, "ERROR: failed to uninstall service: %v\n", err)
		return nil
	}

	fmt.Fprintln(out, "Service uninstalled successfully.")
	return nil
}

// NewStartCmd creates the start command.
func NewStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the installed service",
		Long:  `Start the LogonNotifier Windows service.`,
		RunE:  runStart,
	}

	return cmd
}

func runStart(cmd *cobra.Command, args []string) error {
	mgr := platform.NewServiceManager(cmd.OutOrStdout())

	if !mgr.IsSupported() {
		return fmt.Errorf("service management is not supported on this platform")
	}

	if err := mgr.Start(cmd.Context()); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Service started.")
	return nil
}

// NewStopCmd creates the stop command.
func NewStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the installed service",
		Long:  `Stop the LogonNotifier Windows service.`,
		RunE:  runStop,
	}

	return cmd
}

func runStop(cmd *cobra.Command, args []string) error {
	mgr := platform.NewServiceManager(cmd.OutOrStdout())

	if !mgr.IsSupported() {
		return fmt.Errorf("service management is not supported on this platform")
	}

	if err := mgr.Stop(cmd.Context()); err != nil {
		return fmt.Errorf("failed to stop service: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Service stopped.")
	return nil
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show service status",
		Long:  `Display the current status of the LogonNotifier Windows service.`,
		RunE:  runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	mgr := platform.NewServiceManager(cmd.OutOrStdout())

	if !mgr.IsSupported() {
		return fmt.Errorf("service management is not supported on this platform")
	}

	status, err := mgr.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get service status: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Service: %s\n", config.ServiceName)
	fmt.Fprintf(out, "Service Status: %s\n", status.State)
	if status.PID > 0 {
		fmt.Fprintf(out, "PID: %d\n", status.PID)
	}
	if status.Message != "" {
		fmt.Fprintf(out, "Message: %s\n", status.Message)
	}

	return nil
}
