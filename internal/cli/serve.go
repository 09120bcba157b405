package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sharkusmanch/logon-notifier/internal/app"
	"github.com/sharkusmanch/logon-notifier/internal/config"
	"github.com/sharkusmanch/logon-notifier/internal/domain"
	"github.com/sharkusmanch/logon-notifier/internal/notify"
	"github.com/sharkusmanch/logon-notifier/internal/platform"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the service",
		Long: `Run the logon notifier.

When started by the Windows service control manager this runs the LogonNotifier
service. Otherwise it runs in the foreground, logging each status change, until
Ctrl+C is pressed.

Foreground mode is useful for debugging. It never receives session change
notifications, which are only delivered to registered services.`,
		RunE: runServe,
	}

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	asService := platform.IsRunningAsService()

	cfg, err := loadConfig()
	if err != nil {
		if asService {
			_ = platform.ReportEvent(platform.EventError, fmt.Sprintf("failed to load config: %v", err))
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	sink := notify.NewFileSink(cfg.SessionLog)

	if asService {
		return runWindowsService(cfg, logger, sink)
	}
	return runConsole(cmd.Context(), cfg, logger, sink)
}

func runWindowsService(cfg *config.Config, logger *slog.Logger, sink *notify.FileSink) error {
	if err := platform.CheckSupported(); err != nil {
		logger.Error("unsupported operating system", "error", err)
		_ = platform.ReportEvent(platform.EventError, err.Error())
		return err
	}

	logger.Info("starting logon-notifier as a service", "session_log", sink.Path())

	var outcome app.Outcome
	err := platform.RunAsService(func(m domain.Manager) {
		s := newService(cfg, logger, m, sink)
		defer s.close()
		outcome = s.coordinator.Run(context.Background())
	})
	if err != nil {
		code := domain.ExitCode(err)
		logger.Error("service failed to start", "error", err, "error_code", fmt.Sprintf("0x%08x", code))

		msg := fmt.Sprintf("Service failed to start! Error code: 0x%08x", code)
		if nerr := sink.Notify(context.Background(), domain.ControlNotification(domain.NotificationLevelError, "%s", msg)); nerr != nil {
			logger.Debug("notification dropped", "error", nerr)
		}
		if rerr := platform.ReportEvent(platform.EventError, msg); rerr != nil {
			logger.Debug("event log report failed", "error", rerr)
		}
		return err
	}

	logger.Info("logon-notifier service exited", "outcome", outcome)
	return nil
}

func runConsole(ctx context.Context, cfg *config.Config, logger *slog.Logger, sink *notify.FileSink) error {
	logger.Info("starting logon-notifier in foreground mode", "session_log", sink.Path())

	console := platform.NewConsoleManager(platform.WithConsoleLogger(logger))
	defer console.Close()

	s := newService(cfg, logger, console, sink)
	defer s.close()

	outcome := s.coordinator.Run(ctx)
	if outcome != app.OutcomeStopped {
		return fmt.Errorf("service ended: %s", outcome)
	}

	logger.Info("logon-notifier stopped")
	return nil
}
