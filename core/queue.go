package core

import (
	"sync"
	"time"
)

// Queue is an unbounded, goroutine-safe FIFO with a terminal shutdown
// state. Consumers block in Pop; producers never block in Push.
//
// Every item handed out by Pop counts as in flight until the consumer
// calls Done. Join waits for the queue to be empty with nothing in
// flight, so a returning Join means the consumer has finished with
// everything pushed before it observed the empty state.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	inFlight int
	closed   bool

	wake chan struct{} // consumer wakeup, capacity 1
	quit chan struct{} // closed on Shutdown
	idle *sync.Cond    // joiners, tied to mu
}

// NewQueue creates an empty queue
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
	}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Push appends item to the tail and wakes one consumer.
// Push on a shut down queue is a no-op.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.signal()
}

// TryPush appends item only if fewer than limit items are queued.
// A limit of 0 means unbounded. The size check and the append happen
// under the same lock, so concurrent producers can never overshoot.
func (q *Queue[T]) TryPush(item T, limit int) bool {
	q.mu.Lock()
	if q.closed || (limit > 0 && len(q.items) >= limit) {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.signal()
	return true
}

// Pop removes and returns the head of the queue, blocking until an item
// is available. After Shutdown it returns the zero value and false
// without blocking.
func (q *Queue[T]) Pop() (T, bool) {
	return q.pop(nil)
}

// PopTimeout is Pop bounded by d. It returns false on timeout as well as
// on shutdown; use Closed to tell them apart.
func (q *Queue[T]) PopTimeout(d time.Duration) (T, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	return q.pop(timer.C)
}

func (q *Queue[T]) pop(timeout <-chan time.Time) (T, bool) {
	var zero T
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return zero, false
		}
		if len(q.items) > 0 {
			item := q.items[0]
			q.items[0] = zero
			q.items = q.items[1:]
			if len(q.items) == 0 {
				q.items = nil
			}
			q.inFlight++
			more := len(q.items) > 0
			q.mu.Unlock()

			// The wakeup slot holds a single token; pass it on so a second
			// consumer does not sleep next to a non-empty queue.
			if more {
				q.signal()
			}
			return item, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-q.quit:
		case <-timeout:
			return zero, false
		}
	}
}

// Done marks one item returned by Pop as fully processed
func (q *Queue[T]) Done() {
	q.mu.Lock()
	if q.inFlight > 0 {
		q.inFlight--
	}
	if q.inFlight == 0 && len(q.items) == 0 {
		q.idle.Broadcast()
	}
	q.mu.Unlock()
}

// Size returns the number of queued items, not counting items in flight.
// The value is advisory and may be stale by the time it is used.
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Join blocks until the queue is observed empty with nothing in flight,
// or until the queue is shut down. Pushes racing with Join may or may
// not be covered; Join only promises that the empty state was seen once.
func (q *Queue[T]) Join() {
	q.mu.Lock()
	for !q.closed && (len(q.items) > 0 || q.inFlight > 0) {
		q.idle.Wait()
	}
	q.mu.Unlock()
}

// Drain discards every queued item without processing it and returns
// how many were discarded.
func (q *Queue[T]) Drain() int {
	q.mu.Lock()
	n := len(q.items)
	q.items = nil
	q.idle.Broadcast()
	q.mu.Unlock()
	return n
}

// Shutdown puts the queue into its terminal state, discards everything
// still queued and wakes all waiters. It returns the number of discarded
// items; calls after the first return 0.
func (q *Queue[T]) Shutdown() int {
	return len(q.ShutdownItems())
}

// ShutdownItems is Shutdown returning the discarded items themselves
func (q *Queue[T]) ShutdownItems() []T {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	items := q.items
	q.items = nil
	close(q.quit)
	q.idle.Broadcast()
	q.mu.Unlock()
	return items
}

// Closed reports whether Shutdown has been called
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
