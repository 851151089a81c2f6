package ui

import (
	"time"

	"dbotcounter/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// frameMsg is sent once per redraw while the counter has frames queued
type frameMsg time.Time

// pagerClosedMsg is sent when the ov pager returns control
type pagerClosedMsg struct {
	err error
}

// clearStatusMsg clears the transient status line
type clearStatusMsg struct{}
