// Package events provides the in-process event bus that streams run progress to API clients.
package events

// EventType identifies the kind of event
type EventType string

const (
	// RunStarted is emitted when an analysis run begins
	RunStarted EventType = "RUN_STARTED"
	// RunCompleted is emitted when an analysis run finished and its outputs were written
	RunCompleted EventType = "RUN_COMPLETED"
	// RunFailed is emitted when an analysis run aborted
	RunFailed EventType = "RUN_FAILED"
)
