package cli

import (
	"log/slog"

	"github.com/sharkusmanch/logon-notifier/internal/app"
	"github.com/sharkusmanch/logon-notifier/internal/config"
	"github.com/sharkusmanch/logon-notifier/internal/domain"
	"github.com/sharkusmanch/logon-notifier/internal/http"
	"github.com/sharkusmanch/logon-notifier/internal/metrics"
	"github.com/sharkusmanch/logon-notifier/internal/notify"
)

// service holds the collaborators of one service run.
type service struct {
	coordinator *app.Coordinator
	notifier    *notify.MultiNotifier
	observer    *metrics.StatusObserver
}

// newService wires a coordinator for manager from cfg. The session log sink is always
// present; Apprise and Pushgateway are added when enabled.
func newService(cfg *config.Config, logger *slog.Logger, manager domain.Manager, sink *notify.FileSink) *service {
	httpClient := http.NewClient(
		http.WithRetryConfig(http.RetryConfig{
			MaxAttempts:  cfg.Retry.MaxAttempts,
			InitialDelay: cfg.Retry.InitialDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
		}),
		http.WithLogger(logger),
	)

	sinks := []domain.Notifier{sink}
	if cfg.Apprise.Enabled {
		apprise := notify.NewAppriseClient(
			cfg.Apprise.URL,
			cfg.Apprise.Key,
			notify.WithHTTPClient(httpClient),
			notify.WithLogger(logger),
		)
		sinks = append(sinks, notify.NewLevelFilter(
			notify.NewAsyncNotifier(apprise, notify.WithAsyncLogger(logger)),
			minNotificationLevel(cfg.Apprise.Notify),
		))
	}

	s := &service{notifier: notify.NewMultiNotifier(sinks...)}

	opts := []app.CoordinatorOption{
		app.WithNotifier(s.notifier),
		app.WithLogger(logger),
		app.WithStatusWaitHint(cfg.WaitHint),
		app.WithStopTimeout(cfg.StopTimeout),
		app.WithWorker(app.NewWorker(
			app.WithPollInterval(cfg.PollInterval),
			app.WithWorkerLogger(logger),
		)),
	}

	if cfg.Metrics.Enabled {
		pusher := metrics.NewPushgatewayClient(
			cfg.Metrics.PushgatewayURL,
			metrics.WithHTTPClient(httpClient),
			metrics.WithLogger(logger),
		)
		s.observer = metrics.NewStatusObserver(pusher, metrics.WithObserverLogger(logger))
		opts = append(opts, app.WithStatusObserver(s.observer))
	}

	s.coordinator = app.NewCoordinator(manager, opts...)
	return s
}

// close flushes queued notifications and metrics.
func (s *service) close() {
	s.notifier.Close()
	if s.observer != nil {
		s.observer.Close()
	}
}

func minNotificationLevel(level config.NotifyLevel) domain.NotificationLevel {
	switch level {
	case config.NotifyError:
		return domain.NotificationLevelError
	case config.NotifyWarning:
		return domain.NotificationLevelWarning
	default:
		return domain.NotificationLevelInfo
	}
}
