// Package app assembles the event core: the subscriber registry and emitter,
// the dispatcher and its handlers, the dispatch worker pool, the admin HTTP
// server and the scheduled listener prune.
package app
