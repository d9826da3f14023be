package listener

import "sync"

// Registry is a concurrent table of subscribers. The zero value is ready to
// use; a Registry must not be copied after first use (share a pointer).
type Registry[T any] struct {
	mu     sync.RWMutex
	lastID uint64
	queues map[uint64]*queue[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{queues: make(map[uint64]*queue[T])}
}

// Subscribe allocates the next subscriber id and returns the receiving half of
// its queue. Values broadcast before this call are never delivered to it.
func (r *Registry[T]) Subscribe() *Receiver[T] {
	q := newQueue[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.queues == nil {
		r.queues = make(map[uint64]*queue[T])
	}
	r.lastID++
	r.queues[r.lastID] = q

	return &Receiver[T]{id: r.lastID, q: q}
}

// Len returns the number of stored subscribers, including closed receivers
// that no broadcast or prune has removed yet.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queues)
}

// Broadcast delivers one copy of v to every stored subscriber and returns how
// many accepted it. Values of reference types share their underlying data
// between subscribers. Subscribers whose receiver was closed are removed;
// that is not reported as a failure.
func (r *Registry[T]) Broadcast(v T) int {
	var (
		delivered int
		dead      []uint64
	)

	r.mu.RLock()
	for id, q := range r.queues {
		if err := q.push(v); err != nil {
			dead = append(dead, id)
			continue
		}
		delivered++
	}
	r.mu.RUnlock()

	if len(dead) > 0 {
		r.remove(dead)
	}
	return delivered
}

// Prune removes every subscriber whose receiver is closed and returns how many
// were removed.
func (r *Registry[T]) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, q := range r.queues {
		if q.isClosed() {
			delete(r.queues, id)
			removed++
		}
	}
	return removed
}

func (r *Registry[T]) remove(ids []uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.queues, id)
	}
}
