package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCountFetched     EventType = "CountFetched"
	EventFetchFailed      EventType = "FetchFailed"
	EventRefreshRequested EventType = "RefreshRequested"
	EventCounterCompleted EventType = "CounterCompleted"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CountFetchedEvent is emitted when the message-count endpoint returned a new
// total. Start and End are the run the counter should animate.
type CountFetchedEvent struct {
	Sample CountSample
	Run    Run
}

func (e CountFetchedEvent) Type() EventType { return EventCountFetched }

// FetchFailedEvent is emitted when a fetch exhausted its retries
type FetchFailedEvent struct {
	Endpoint string
	At       time.Time
	Err      error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// RefreshRequestedEvent asks the poller for an out-of-cycle fetch
type RefreshRequestedEvent struct{}

func (e RefreshRequestedEvent) Type() EventType { return EventRefreshRequested }

// CounterCompletedEvent is emitted when a counter run reached its target
type CounterCompletedEvent struct {
	Value float64
}

func (e CounterCompletedEvent) Type() EventType { return EventCounterCompleted }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path     string
	Endpoint string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
