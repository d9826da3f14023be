// Package task runs dispatch jobs on a fixed pool of workers fed by a
// bounded queue, so the component reading gateway frames never waits on a
// slow handler.
package task
