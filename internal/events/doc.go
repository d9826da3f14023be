// Package events defines the application's own (custom) events and the
// Emitter that publishes them.
//
// Custom events are produced while handling platform events, for example when
// a command is received or finishes, and are fanned out to every subscriber of
// a shared listener.Registry. Subscribers get their own unbounded queue; a
// slow subscriber never blocks Emit.
package events
