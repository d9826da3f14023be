package listener

import (
	"context"
	"errors"
)

// ErrReceiverClosed is returned by Recv after Close, and internally marks a
// subscriber whose receiving half was discarded.
var ErrReceiverClosed = errors.New("listener: receiver closed")

// Receiver is the receiving half of a subscription. It is owned by exactly one
// consumer; Recv must not be called from several goroutines at once.
type Receiver[T any] struct {
	id uint64
	q  *queue[T]
}

// ID returns the subscriber id assigned by the registry.
func (r *Receiver[T]) ID() uint64 {
	return r.id
}

// Recv blocks until a value is available, ctx is done, or the receiver is
// closed.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	for {
		if v, ok := r.q.pop(); ok {
			return v, nil
		}
		if r.q.isClosed() {
			return zero, ErrReceiverClosed
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-r.q.ready:
		case <-r.q.done:
		}
	}
}

// TryRecv returns the next queued value without blocking.
func (r *Receiver[T]) TryRecv() (T, bool) {
	return r.q.pop()
}

// Len reports how many values are queued and not yet received.
func (r *Receiver[T]) Len() int {
	return r.q.len()
}

// Close discards the receiving half. Queued values are dropped and later
// broadcasts fail for this subscriber, which removes it from the registry.
// Close is idempotent.
func (r *Receiver[T]) Close() {
	r.q.close()
}
