// Package cli implements the hartex command tree: run (serve or replay
// gateway events), migrate and whitelist.
package cli
