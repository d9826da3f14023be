package events

import (
	"time"

	"github.com/google/uuid"
)

// Event names.
const (
	NameCommandReceived   = "command_received"
	NameCommandIdentified = "command_identified"
	NameCommandExecuted   = "command_executed"
	NameCommandFailed     = "command_failed"
)

// Event is a custom application event payload.
type Event interface {
	// EventName identifies the payload variant for logs and metrics.
	EventName() string
}

// Meta is embedded in every custom event.
type Meta struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

func newMeta() Meta {
	return Meta{ID: uuid.New(), CreatedAt: time.Now().UTC()}
}

// CommandReceived is emitted when input that looks like a command arrives.
type CommandReceived struct {
	Meta
	Command string `json:"command"`
	GuildID uint64 `json:"guild_id"`
	UserID  uint64 `json:"user_id"`
}

// EventName implements Event.
func (*CommandReceived) EventName() string { return NameCommandReceived }

// NewCommandReceived creates a CommandReceived event.
func NewCommandReceived(command string, guildID, userID uint64) *CommandReceived {
	return &CommandReceived{Meta: newMeta(), Command: command, GuildID: guildID, UserID: userID}
}

// CommandIdentified is emitted once a received command has been resolved.
type CommandIdentified struct {
	Meta
	Command string `json:"command"`
}

// EventName implements Event.
func (*CommandIdentified) EventName() string { return NameCommandIdentified }

// NewCommandIdentified creates a CommandIdentified event.
func NewCommandIdentified(command string) *CommandIdentified {
	return &CommandIdentified{Meta: newMeta(), Command: command}
}

// CommandExecuted is emitted after a command completed successfully.
type CommandExecuted struct {
	Meta
	Command   string `json:"command"`
	GuildName string `json:"guild_name"`
}

// EventName implements Event.
func (*CommandExecuted) EventName() string { return NameCommandExecuted }

// NewCommandExecuted creates a CommandExecuted event.
func NewCommandExecuted(command, guildName string) *CommandExecuted {
	return &CommandExecuted{Meta: newMeta(), Command: command, GuildName: guildName}
}

// CommandFailed is emitted when a command returned an error. Error holds the
// redacted message only.
type CommandFailed struct {
	Meta
	Command string `json:"command"`
	Error   string `json:"error"`
}

// EventName implements Event.
func (*CommandFailed) EventName() string { return NameCommandFailed }

// NewCommandFailed creates a CommandFailed event.
func NewCommandFailed(command, errMsg string) *CommandFailed {
	return &CommandFailed{Meta: newMeta(), Command: command, Error: errMsg}
}
