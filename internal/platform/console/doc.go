// Package console provides platform collaborators that act locally: a Client
// that logs and records outgoing calls instead of sending them, and a fixed
// Cluster. They back the replay driver and tests.
package console
