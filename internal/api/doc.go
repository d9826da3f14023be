// Package api serves the bot's admin HTTP surface: liveness, Prometheus
// metrics, listener introspection and manual event injection for debugging.
package api
