package engine

import "sync"

// Event types emitted by collision resolution.
const (
	EventHit       = "hit"        // player damaged the enemy
	EventPlayerHit = "player_hit" // enemy damaged the player
)

// Event records a single landed attack.
type Event struct {
	Type   string `json:"type" yaml:"type"`
	Amount int    `json:"amount" yaml:"amount"`
	Frame  int    `json:"frame" yaml:"frame"`
}

// EventQueue is an unbounded FIFO safe for use by one producer and any
// number of consumers in other goroutines.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
	ready  chan struct{}
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{ready: make(chan struct{}, 1)}
}

// Push appends evt and signals Ready without blocking.
func (q *EventQueue) Push(evt Event) {
	q.mu.Lock()
	q.events = append(q.events, evt)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
		// Signal already pending
	}
}

// Pop removes the oldest event.
func (q *EventQueue) Pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}
	evt := q.events[0]
	q.events[0] = Event{}
	q.events = q.events[1:]
	return evt, true
}

// Requeue puts evt back at the head of the queue, for a consumer that
// popped it but could not deliver it.
func (q *EventQueue) Requeue(evt Event) {
	q.mu.Lock()
	q.events = append([]Event{evt}, q.events...)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Drain removes and returns every queued event in emission order.
func (q *EventQueue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.events
	q.events = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Ready returns a channel that receives after events have been pushed.
// One receive may cover several pushes; consumers should empty the queue after waking.
func (q *EventQueue) Ready() <-chan struct{} {
	return q.ready
}
