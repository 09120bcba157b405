package domain

import (
	"context"
	"time"
)

// Metrics is a snapshot of the service status pushed to a metrics endpoint.
type Metrics struct {
	// Timestamp when the snapshot was taken.
	Timestamp time.Time

	// Hostname of the machine.
	Hostname string

	// ServiceUp is false once the service has reported Stopped.
	ServiceUp bool

	// Status is the status that triggered the push.
	Status ServiceStatus
}

// NewMetrics creates a new Metrics instance for status.
func NewMetrics(hostname string, status ServiceStatus) *Metrics {
	return &Metrics{
		Timestamp: time.Now(),
		Hostname:  hostname,
		ServiceUp: status.State != ServiceStateStopped,
		Status:    status,
	}
}

// MetricsPusher defines the interface for pushing metrics to a remote endpoint.
type MetricsPusher interface {
	// Push sends metrics to the remote endpoint.
	Push(ctx context.Context, metrics *Metrics) error

	// Validate checks if the pusher is properly configured.
	Validate(ctx context.Context) error
}
