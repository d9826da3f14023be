// Package handler implements the bot's reactions to dispatched events.
//
// EventHandler satisfies dispatch.Handlers. Gateway events drive the guild
// whitelist check and the command flow; the custom command events raised along
// the way are logged as they come back through the dispatcher.
package handler
