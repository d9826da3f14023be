package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/hartex/hartex/internal/dispatch"
)

// Dispatcher routes one envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, env dispatch.Envelope, collab dispatch.Collaborators) error
}

// DispatchTask dispatches a single envelope.
type DispatchTask struct {
	id         uuid.UUID
	dispatcher Dispatcher
	envelope   dispatch.Envelope
	collab     dispatch.Collaborators
}

// NewDispatchTask creates a DispatchTask with a fresh id.
func NewDispatchTask(d Dispatcher, env dispatch.Envelope, collab dispatch.Collaborators) *DispatchTask {
	return &DispatchTask{
		id:         uuid.New(),
		dispatcher: d,
		envelope:   env,
		collab:     collab,
	}
}

// ID implements Task.
func (t *DispatchTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *DispatchTask) Type() string { return TaskTypeDispatch }

// Event returns the name of the dispatched event.
func (t *DispatchTask) Event() string { return dispatch.EventName(t.envelope) }

// Execute implements Task.
func (t *DispatchTask) Execute(ctx context.Context) error {
	return t.dispatcher.Dispatch(ctx, t.envelope, t.collab)
}
