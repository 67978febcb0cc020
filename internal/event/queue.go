package event

import "sync"

// Queue is the intake buffer at the dispatcher boundary. Producers (the live
// transport reader, the replay driver) send decoded events; the session's
// single Run loop receives them, so event application stays serialised no
// matter how bursty the source is. The ring doubles its capacity when it
// reaches 70% full rather than dropping or blocking the producer.
type Queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []Event
	head     int
	tail     int
	count    int
	capacity int
	closed   bool

	totalReceived int64
	totalSent     int64
	resizeCount   int
}

// NewQueue creates a queue with the given initial capacity.
func NewQueue(initialCapacity int) *Queue {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	q := &Queue{
		buf:      make([]Event, initialCapacity),
		capacity: initialCapacity,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Send adds an event. Returns false if the queue is closed.
func (q *Queue) Send(ev Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	threshold := (q.capacity * 70) / 100
	if threshold < 1 {
		threshold = 1
	}
	if q.count+1 >= threshold {
		q.grow()
	}

	q.buf[q.tail] = ev
	q.tail = (q.tail + 1) % q.capacity
	q.count++
	q.totalReceived++

	q.cond.Signal()
	return true
}

// Receive blocks until an event is available or the queue is closed and
// drained, in which case ok is false.
func (q *Queue) Receive() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.count == 0 {
		return Event{}, false
	}
	return q.takeLocked(), true
}

// TryReceive receives without blocking.
func (q *Queue) TryReceive() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return Event{}, false
	}
	return q.takeLocked(), true
}

// Close closes the queue. Sends after Close return false; receivers drain the
// remaining events and then get ok == false.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Stats returns queue counters.
func (q *Queue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Count:         q.count,
		Capacity:      q.capacity,
		TotalReceived: q.totalReceived,
		TotalSent:     q.totalSent,
		ResizeCount:   q.resizeCount,
	}
}

// QueueStats contains queue counters.
type QueueStats struct {
	Count         int
	Capacity      int
	TotalReceived int64
	TotalSent     int64
	ResizeCount   int
}

func (q *Queue) takeLocked() Event {
	ev := q.buf[q.head]
	q.buf[q.head] = Event{} // clear payload reference for GC
	q.head = (q.head + 1) % q.capacity
	q.count--
	q.totalSent++
	return ev
}

// grow doubles capacity. Caller holds the lock.
func (q *Queue) grow() {
	newCapacity := q.capacity * 2
	newBuf := make([]Event, newCapacity)

	if q.count > 0 {
		if q.head < q.tail {
			copy(newBuf, q.buf[q.head:q.tail])
		} else {
			n := copy(newBuf, q.buf[q.head:])
			copy(newBuf[n:], q.buf[:q.tail])
		}
	}

	q.buf = newBuf
	q.head = 0
	q.tail = q.count
	q.capacity = newCapacity
	q.resizeCount++
}
