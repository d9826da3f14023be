// Package dispatch routes incoming events to their handlers.
//
// An Envelope carries exactly one event from one of two sources: Native
// events arrive from the gateway, Custom events are raised by the bot itself.
// The Dispatcher inspects the envelope, picks the single matching handler and
// hands it only the collaborators it declares. Variants without a handler are
// ignored, so the gateway can grow new event types without breaking older
// builds.
package dispatch
