//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"

	"github.com/sharkusmanch/logon-notifier/internal/config"
)

// ReportEvent writes msg to the Application event log under the service's source.
func ReportEvent(t EventType, msg string) error {
	log, err := eventlog.Open(config.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer log.Close()

	switch t {
	case EventError:
		return log.Error(eventID, msg)
	case EventWarning:
		return log.Warning(eventID, msg)
	default:
		return log.Info(eventID, msg)
	}
}

func installEventSource() error {
	return eventlog.InstallAsEventCreate(config.ServiceName, eventlog.Error|eventlog.Warning|eventlog.Info)
}

func removeEventSource() error {
	return eventlog.Remove(config.ServiceName)
}
