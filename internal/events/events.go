// Package events provides lifecycle notifications for worker pools.
package events

import "time"

// EventType represents the type of event
type EventType string

const (
	// EventWorkerStarted is emitted when a worker goroutine begins polling the queue
	EventWorkerStarted EventType = "worker_started"
	// EventWorkerStopped is emitted when a worker observes the closed queue and exits
	EventWorkerStopped EventType = "worker_stopped"
	// EventWorkerFaulted is emitted when a job panics and takes its worker down
	EventWorkerFaulted EventType = "worker_faulted"
	// EventWorkerRespawned is emitted when a faulted worker is replaced
	EventWorkerRespawned EventType = "worker_respawned"
	// EventPoolClosed is emitted once every worker has been joined
	EventPoolClosed EventType = "pool_closed"
)

// Event represents a pool lifecycle event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PoolID    string    `json:"pool_id"`
	WorkerID  int       `json:"worker_id"`
	Data      EventData `json:"data,omitempty"`
}

// EventData contains event-specific data
type EventData struct {
	Restarts int    `json:"restarts,omitempty"`
	Faults   int    `json:"faults,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newEvent(t EventType, poolID string, workerID int) Event {
	return Event{
		Type:      t,
		Timestamp: time.Now(),
		PoolID:    poolID,
		WorkerID:  workerID,
	}
}

// NewWorkerStartedEvent creates a worker started event
func NewWorkerStartedEvent(poolID string, workerID int) Event {
	return newEvent(EventWorkerStarted, poolID, workerID)
}

// NewWorkerStoppedEvent creates a worker stopped event
func NewWorkerStoppedEvent(poolID string, workerID int) Event {
	return newEvent(EventWorkerStopped, poolID, workerID)
}

// NewWorkerFaultedEvent creates a worker faulted event
func NewWorkerFaultedEvent(poolID string, workerID int, err error) Event {
	e := newEvent(EventWorkerFaulted, poolID, workerID)
	if err != nil {
		e.Data.Error = err.Error()
	}
	return e
}

// NewWorkerRespawnedEvent creates a worker respawned event
func NewWorkerRespawnedEvent(poolID string, workerID, restarts int) Event {
	e := newEvent(EventWorkerRespawned, poolID, workerID)
	e.Data.Restarts = restarts
	return e
}

// NewPoolClosedEvent creates a pool closed event.
// WorkerID is -1 since the event is not tied to a single worker.
func NewPoolClosedEvent(poolID string, faults int) Event {
	e := newEvent(EventPoolClosed, poolID, -1)
	e.Data.Faults = faults
	return e
}
