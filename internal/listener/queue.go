package listener

import "sync"

// compactThreshold bounds how many consumed slots a queue keeps before it
// copies the live tail to the front of its backing array.
const compactThreshold = 64

// queue is an unbounded, order-preserving, single-consumer FIFO. push never
// blocks; it fails only once the consumer has closed the queue.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	closed bool

	ready chan struct{}
	done  chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (q *queue[T]) push(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrReceiverClosed
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.signal()
	return nil
}

func (q *queue[T]) pop() (T, bool) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.items) {
		return zero, false
	}

	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactThreshold && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
		q.signal()
	default:
		q.signal()
	}

	return v, true
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *queue[T]) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.items = nil
	q.head = 0
	close(q.done)
}

func (q *queue[T]) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// signal wakes a waiting consumer; a pending wake-up is enough, so extra
// signals are dropped.
func (q *queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
