// Package config handles application configuration loading and validation.
package config

import "time"

// Default configuration values.
const (
	DefaultPollInterval = time.Second
	MaxPollInterval     = time.Minute
	DefaultWaitHint     = 3 * time.Second
	DefaultStopTimeout  = time.Duration(0)

	DefaultServiceAccount   = `NT AUTHORITY\LocalService`
	DefaultServiceAutoStart = true

	DefaultMetricsEnabled        = false
	DefaultMetricsPushgatewayURL = ""

	DefaultRetryMaxAttempts  = 3
	DefaultRetryInitialDelay = 5 * time.Second
	DefaultRetryMaxDelay     = 30 * time.Second

	DefaultAppriseEnabled = false
	DefaultAppriseURL     = ""
	DefaultAppriseKey     = ""
	DefaultAppriseNotify  = NotifyAlways

	DefaultLogLevel     = "info"
	DefaultLogMaxSizeMB = 10
)

// NotifyLevel represents which notifications are forwarded to Apprise.
type NotifyLevel string

const (
	// NotifyError forwards only errors.
	NotifyError NotifyLevel = "error"
	// NotifyWarning forwards errors and warnings.
	NotifyWarning NotifyLevel = "warning"
	// NotifyAlways forwards everything, including every logon and logoff.
	NotifyAlways NotifyLevel = "always"
)

// IsValid returns true if the notify level is valid.
func (n NotifyLevel) IsValid() bool {
	switch n {
	case NotifyError, NotifyWarning, NotifyAlways:
		return true
	default:
		return false
	}
}

// String returns the string representation of the notify level.
func (n NotifyLevel) String() string {
	return string(n)
}
