package sim

import "container/heap"

// EventQueue orders events by time. Events that share a time come out in the
// order they were pushed, so drivers scheduled for the same cycle always tick
// in registration order.
//
// EventQueue is not safe for concurrent use.
type EventQueue struct {
	items   queuedEvents
	nextSeq uint64
}

type queuedEvent struct {
	evt Event
	seq uint64
}

// NewEventQueue creates an empty EventQueue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	heap.Push(&q.items, queuedEvent{evt: evt, seq: q.nextSeq})
	q.nextSeq++
}

// Pop removes and returns the earliest event.
func (q *EventQueue) Pop() Event {
	return heap.Pop(&q.items).(queuedEvent).evt
}

// Peek returns the earliest event without removing it.
func (q *EventQueue) Peek() Event {
	return q.items[0].evt
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	return len(q.items)
}

type queuedEvents []queuedEvent

func (h queuedEvents) Len() int { return len(h) }

func (h queuedEvents) Less(i, j int) bool {
	ti, tj := h[i].evt.Time(), h[j].evt.Time()
	if ti != tj {
		return ti < tj
	}

	return h[i].seq < h[j].seq
}

func (h queuedEvents) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *queuedEvents) Push(x any) {
	*h = append(*h, x.(queuedEvent))
}

func (h *queuedEvents) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}
