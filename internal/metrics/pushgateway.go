// Package metrics provides implementations for pushing metrics to remote endpoints.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/sharkusmanch/logon-notifier/internal/domain"
	"github.com/sharkusmanch/logon-notifier/internal/http"
	"github.com/sharkusmanch/logon-notifier/pkg/version"
)

const (
	metricsJobName = "logon_notifier"
	contentType    = "text/plain; charset=utf-8"
)

// PushgatewayClient pushes metrics to a Prometheus Pushgateway.
type PushgatewayClient struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// PushgatewayOption configures a PushgatewayClient.
type PushgatewayOption func(*PushgatewayClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) PushgatewayOption {
	return func(p *PushgatewayClient) {
		p.httpClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PushgatewayOption {
	return func(p *PushgatewayClient) {
		p.logger = logger
	}
}

// NewPushgatewayClient creates a new PushgatewayClient.
func NewPushgatewayClient(url string, opts ...PushgatewayOption) *PushgatewayClient {
	p := &PushgatewayClient{
		url:        strings.TrimSuffix(url, "/"),
		httpClient: http.NewClient(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Push sends metrics to the Pushgateway.
func (p *PushgatewayClient) Push(ctx context.Context, metrics *domain.Metrics) error {
	body := p.buildMetrics(metrics)

	pushURL := fmt.Sprintf("%s/metrics/job/%s/instance/%s", p.url, metricsJobName, metrics.Hostname)

	p.logger.Debug("pushing metrics to pushgateway",
		"url", pushURL,
		"state", metrics.Status.State,
	)

	resp, err := p.httpClient.Post(ctx, pushURL, contentType, []byte(body))
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pushgateway returned status %d: %s", resp.StatusCode, string(resp.Body))
	}

	p.logger.Debug("metrics pushed successfully")
	return nil
}

// Validate checks if the Pushgateway is reachable.
func (p *PushgatewayClient) Validate(ctx context.Context) error {
	// Pushgateway typically has a /-/ready endpoint
	readyURL := fmt.Sprintf("%s/-/ready", p.url)

	if err := p.httpClient.CheckConnectivity(ctx, readyURL); err != nil {
		// Try the root URL as fallback
		if err2 := p.httpClient.CheckConnectivity(ctx, p.url); err2 != nil {
			return fmt.Errorf("pushgateway not reachable at %s: %w", p.url, err)
		}
	}

	return nil
}

// buildMetrics constructs the Prometheus text format metrics.
func (p *PushgatewayClient) buildMetrics(m *domain.Metrics) string {
	var b strings.Builder

	// Service up metric
	b.WriteString("# HELP logon_notifier_up Service has not reported stopped\n")
	b.WriteString("# TYPE logon_notifier_up gauge\n")
	if m.ServiceUp {
		b.WriteString("logon_notifier_up 1\n")
	} else {
		b.WriteString("logon_notifier_up 0\n")
	}
	b.WriteString("\n")

	// Info metric
	versionInfo := version.Get()
	b.WriteString("# HELP logon_notifier_info Build information\n")
	b.WriteString("# TYPE logon_notifier_info gauge\n")
	b.WriteString(fmt.Sprintf("logon_notifier_info{version=%q,go_version=%q} 1\n",
		versionInfo.Version, runtime.Version()))
	b.WriteString("\n")

	// One series per lifecycle state, set to 1 for the current one
	b.WriteString("# HELP logon_notifier_state Current service control state\n")
	b.WriteString("# TYPE logon_notifier_state gauge\n")
	for _, state := range reportedStates {
		value := 0
		if m.Status.State == state {
			value = 1
		}
		b.WriteString(fmt.Sprintf("logon_notifier_state{state=%q} %d\n", state, value))
	}
	b.WriteString("\n")

	b.WriteString("# HELP logon_notifier_checkpoint Checkpoint of the last reported status\n")
	b.WriteString("# TYPE logon_notifier_checkpoint gauge\n")
	b.WriteString(fmt.Sprintf("logon_notifier_checkpoint %d\n", m.Status.Checkpoint))
	b.WriteString("# HELP logon_notifier_exit_code Win32 exit code of the last reported status\n")
	b.WriteString("# TYPE logon_notifier_exit_code gauge\n")
	b.WriteString(fmt.Sprintf("logon_notifier_exit_code %d\n", m.Status.ExitCode))
	b.WriteString("# HELP logon_notifier_last_status_timestamp_seconds Unix timestamp of the last reported status\n")
	b.WriteString("# TYPE logon_notifier_last_status_timestamp_seconds gauge\n")
	b.WriteString(fmt.Sprintf("logon_notifier_last_status_timestamp_seconds %d\n", m.Timestamp.Unix()))

	return b.String()
}

var reportedStates = []domain.ServiceState{
	domain.ServiceStateStartPending,
	domain.ServiceStateRunning,
	domain.ServiceStateStopPending,
	domain.ServiceStateStopped,
}

// Ensure PushgatewayClient implements domain.MetricsPusher.
var _ domain.MetricsPusher = (*PushgatewayClient)(nil)
