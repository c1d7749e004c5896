package timing

import (
	"container/heap"
	"sync"
)

// EventQueue are a queue of event ordered by the time of events. Events that
// happen at the same time come out in the order they were pushed.
type EventQueue interface {
	Push(evt Event)
	Pop() Event
	Peek() Event
	Len() int
	Remove(evt Event) bool
	Contains(evt Event) bool
}

// EventQueueImpl provides a thread safe event queue
type EventQueueImpl struct {
	sync.Mutex
	events  eventHeap
	entries map[Event]*queueEntry
	nextSeq uint64
}

type queueEntry struct {
	evt   Event
	seq   uint64
	index int
}

// NewEventQueue creates and returns a newly created EventQueue
func NewEventQueue() *EventQueueImpl {
	q := new(EventQueueImpl)
	q.events = make([]*queueEntry, 0)
	q.entries = make(map[Event]*queueEntry)
	heap.Init(&q.events)

	return q
}

// Push adds an event to the event queue. Pushing an event that is already in
// the queue panics.
func (q *EventQueueImpl) Push(evt Event) {
	q.Lock()
	defer q.Unlock()

	if _, found := q.entries[evt]; found {
		panic("event already in the queue")
	}

	entry := &queueEntry{evt: evt, seq: q.nextSeq}
	q.nextSeq++
	q.entries[evt] = entry
	heap.Push(&q.events, entry)
}

// Pop returns the next earliest event. It returns nil if the queue is empty.
func (q *EventQueueImpl) Pop() Event {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	entry := heap.Pop(&q.events).(*queueEntry)
	delete(q.entries, entry.evt)

	return entry.evt
}

// Peek returns the event in front of the queue without removing it from the
// queue. It returns nil if the queue is empty.
func (q *EventQueueImpl) Peek() Event {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return q.events[0].evt
}

// Len returns the number of event in the queue
func (q *EventQueueImpl) Len() int {
	q.Lock()
	defer q.Unlock()

	return q.events.Len()
}

// Remove takes a pending event out of the queue. It returns false if the
// event is not in the queue.
func (q *EventQueueImpl) Remove(evt Event) bool {
	q.Lock()
	defer q.Unlock()

	entry, found := q.entries[evt]
	if !found {
		return false
	}

	heap.Remove(&q.events, entry.index)
	delete(q.entries, evt)

	return true
}

// Contains checks if the event is pending in the queue.
func (q *EventQueueImpl) Contains(evt Event) bool {
	q.Lock()
	defer q.Unlock()

	_, found := q.entries[evt]

	return found
}

type eventHeap []*queueEntry

// Len returns the length of the event queue
func (h eventHeap) Len() int {
	return len(h)
}

// Less determines the order between two events. Less returns true if the i-th
// event happens before the j-th event. Ties are broken by insertion order.
func (h eventHeap) Less(i, j int) bool {
	ti, tj := h[i].evt.Time(), h[j].evt.Time()
	if ti != tj {
		return ti < tj
	}

	return h[i].seq < h[j].seq
}

// Swap changes the position of two events in the event queue
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

// Push adds an event into the event queue
func (h *eventHeap) Push(x any) {
	entry := x.(*queueEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

// Pop removes and returns the next event to happen
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*h = old[0 : n-1]

	return entry
}
