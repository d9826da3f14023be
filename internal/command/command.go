// Package command defines slash commands and the set the interaction
// handler looks them up in.
package command

import (
	"context"
	"errors"
	"sort"

	"github.com/hartex/hartex/internal/dispatch"
	"github.com/hartex/hartex/internal/gateway"
)

// ErrGuildOnly is returned by commands that cannot run in direct messages.
var ErrGuildOnly = errors.New("command can only be used in a guild")

// GenericFailureMessage acknowledges a failed command without details.
const GenericFailureMessage = ":x: This command encountered an unexpected error. Please try again later."

// FailureMessage returns the text shown to a user whose command failed with err.
func FailureMessage(err error) string {
	if errors.Is(err, ErrGuildOnly) {
		return ":x: This command can only be used in a guild."
	}
	return GenericFailureMessage
}

// Context is what a command runs against.
type Context struct {
	Interaction *gateway.InteractionCreate
	Client      dispatch.Client
	Cluster     dispatch.Cluster
	Cache       dispatch.Cache
}

// Reply answers the interaction with a plain message.
func (c Context) Reply(ctx context.Context, content string) error {
	return c.Client.RespondInteraction(ctx, c.Interaction.ID, c.Interaction.Token, content)
}

// Command is a slash command.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cc Context) error
}

// Set is an immutable lookup table of commands by name.
type Set struct {
	commands map[string]Command
}

// NewSet builds a Set. A later command replaces an earlier one of the same name.
func NewSet(commands ...Command) *Set {
	s := &Set{commands: make(map[string]Command, len(commands))}
	for _, c := range commands {
		s.commands[c.Name()] = c
	}
	return s
}

// Lookup returns the command registered under name.
func (s *Set) Lookup(name string) (Command, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.commands[name]
	return c, ok
}

// Names returns the registered command names in sorted order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
