package deferred

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hartex/hartex/internal/metrics"
	"github.com/hartex/hartex/internal/platform/logger"
)

// State is the lifecycle position of a Task.
type State int32

// Task states.
const (
	NotStarted State = iota
	Running
	Done
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Run is the computation a Setup produces.
type Run[T any] func(ctx context.Context) (T, error)

// Setup performs the side-effecting preparation of a task (reading
// credentials, opening connections) and returns the computation to run.
type Setup[T any] func(ctx context.Context) (Run[T], error)

// Task is a deferred one-shot operation. Use New to build one.
type Task[T any] struct {
	name   string
	setup  Setup[T]
	logger *slog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
	result T
	err    error
}

// New builds a task. It has no side effects; setup runs on the first Await.
func New[T any](name string, setup Setup[T], log *slog.Logger) *Task[T] {
	return &Task[T]{
		name:   name,
		setup:  setup,
		logger: logger.OrDefault(log).With("task", name),
		done:   make(chan struct{}),
	}
}

// Name returns the task name used in logs and metrics.
func (t *Task[T]) Name() string {
	return t.name
}

// State reports the current lifecycle state.
func (t *Task[T]) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done is closed once the task has a result. It does not start the task.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Await starts the task if it has not started yet and waits for its result.
//
// The computation runs detached from ctx's cancellation (it keeps ctx's
// values): an awaiter giving up returns ctx.Err() but leaves the task running
// for other awaiters. Use Discard to abort the computation itself.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	done := t.ensureStarted(ctx)

	select {
	case <-done:
		return t.result, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Discard abandons the task. A task that has not started never will; a
// running task has its context cancelled, which aborts the computation at its
// next blocking call. Discarding a finished task does nothing.
func (t *Task[T]) Discard() {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case NotStarted:
		t.err = ErrDiscarded
		t.state = Done
		close(t.done)
	case Running:
		t.cancel()
	}
}

func (t *Task[T]) ensureStarted(ctx context.Context) <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == NotStarted {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		t.cancel = cancel
		t.state = Running
		go t.run(runCtx)
	}
	return t.done
}

func (t *Task[T]) run(ctx context.Context) {
	defer t.cancel()

	logger.Verbose(ctx, t.logger, "executing deferred task")
	metrics.DeferredTasksStartedTotal.WithLabelValues(t.name).Inc()

	result, err := t.execute(ctx)
	if err != nil {
		kind := "other"
		var taskErr *Error
		var panicErr *panicError
		switch {
		case errors.As(err, &taskErr):
			kind = taskErr.Kind.String()
		case errors.As(err, &panicErr):
			kind = "panic"
			t.logger.ErrorContext(ctx, "deferred task panicked", "error", err)
		}
		metrics.DeferredTasksFailedTotal.WithLabelValues(t.name, kind).Inc()
	}

	t.mu.Lock()
	t.result, t.err = result, err
	t.state = Done
	t.mu.Unlock()

	close(t.done)
}

// panicError carries a panic recovered from a setup or run function.
type panicError struct {
	task  string
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("deferred task %s panicked: %v", e.task, e.value)
}

// execute runs setup and then the computation, turning a panic in either into
// the task's error.
func (t *Task[T]) execute(ctx context.Context) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result, err = zero, &panicError{task: t.name, value: r}
		}
	}()

	run, err := t.setup(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	return run(ctx)
}
