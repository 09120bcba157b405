package platform

// EventType is the severity of an Event Log entry.
type EventType int

const (
	// EventInfo is an informational entry.
	EventInfo EventType = iota
	// EventWarning is a warning entry.
	EventWarning
	// EventError is an error entry.
	EventError
)

// eventID is the single event identifier the service writes.
const eventID = 1
