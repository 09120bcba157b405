package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sharkusmanch/logon-notifier/internal/config"
	"github.com/sharkusmanch/logon-notifier/internal/http"
	"github.com/sharkusmanch/logon-notifier/internal/metrics"
	"github.com/sharkusmanch/logon-notifier/internal/notify"
	"github.com/sharkusmanch/logon-notifier/internal/platform"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and test connectivity",
		Long: `Validate the configuration file and test connectivity to external services.

This checks:
- Config file syntax
- Operating system support
- Session log directory
- Pushgateway connectivity (if enabled)
- Apprise server connectivity (if enabled)`,
		RunE: runValidate,
	}

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()

	// Load config
	fmt.Fprintln(out, "Configuration:")
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "  ✗ Config file: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "  ✓ Config file syntax valid\n")

	// Display config values
	configPath, _ := config.DefaultConfigPath()
	if cfgFile != "" {
		configPath = cfgFile
	}
	fmt.Fprintf(out, "  Config file: %s\n", configPath)
	fmt.Fprintf(out, "  Session log: %s\n", cfg.SessionLog)
	fmt.Fprintf(out, "  Poll interval: %s\n", cfg.PollInterval)
	if cfg.StopTimeout > 0 {
		fmt.Fprintf(out, "  Stop timeout: %s\n", cfg.StopTimeout)
	} else {
		fmt.Fprintf(out, "  Stop timeout: none\n")
	}
	fmt.Fprintf(out, "  Service account: %s\n", cfg.Service.Account)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "  Metrics: enabled\n")
		fmt.Fprintf(out, "  Pushgateway URL: %s\n", cfg.Metrics.PushgatewayURL)
	} else {
		fmt.Fprintf(out, "  Metrics: disabled\n")
	}
	if cfg.Apprise.Enabled {
		fmt.Fprintf(out, "  Notifications: enabled\n")
		fmt.Fprintf(out, "  Apprise URL: %s\n", cfg.Apprise.URL)
		fmt.Fprintf(out, "  Notification level: %s\n", cfg.Apprise.Notify)
	} else {
		fmt.Fprintf(out, "  Notifications: disabled\n")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Checks:")
	if err := platform.CheckSupported(); err != nil {
		fmt.Fprintf(out, "  ✗ Service host: %v (only 'serve' in the foreground is available)\n", err)
	} else {
		fmt.Fprintf(out, "  ✓ Service host supported\n")
	}

	if err := notify.NewFileSink(cfg.SessionLog).Validate(ctx); err != nil {
		fmt.Fprintf(out, "  ✗ Session log: %v\n", err)
	} else {
		fmt.Fprintf(out, "  ✓ Session log directory exists\n")
	}

	logger, _ := setupLogging(cfg)

	// Create HTTP client
	httpClient := http.NewClient(
		http.WithRetryConfig(http.RetryConfig{
			MaxAttempts:  1, // No retries for validation
			InitialDelay: time.Second,
			MaxDelay:     time.Second,
		}),
		http.WithLogger(logger),
	)

	// Check pushgateway if enabled
	if cfg.Metrics.Enabled {
		pushgatewayClient := metrics.NewPushgatewayClient(
			cfg.Metrics.PushgatewayURL,
			metrics.WithHTTPClient(httpClient),
			metrics.WithLogger(logger),
		)

		if err := pushgatewayClient.Validate(ctx); err != nil {
			fmt.Fprintf(out, "  ✗ Pushgateway: %v\n", err)
		} else {
			fmt.Fprintf(out, "  ✓ Pushgateway reachable\n")
		}
	}

	// Check apprise if enabled
	if cfg.Apprise.Enabled {
		appriseClient := notify.NewAppriseClient(
			cfg.Apprise.URL,
			cfg.Apprise.Key,
			notify.WithHTTPClient(httpClient),
			notify.WithLogger(logger),
		)

		if err := appriseClient.Validate(ctx); err != nil {
			fmt.Fprintf(out, "  ✗ Apprise server: %v\n", err)
		} else {
			fmt.Fprintf(out, "  ✓ Apprise server reachable\n")
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Validation complete.")
	return nil
}
