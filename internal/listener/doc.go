// Package listener implements the in-process subscriber registry behind the
// event emitter.
//
// A Registry maps monotonically assigned subscriber ids to the sending half of
// an unbounded FIFO queue; Subscribe hands the receiving half to the caller and
// keeps nothing else. Broadcast never blocks: it appends a copy of the value to
// every stored queue. A receiver that has been closed is removed from the table
// the first time a broadcast fails to deliver to it (or by Prune), so Len may
// briefly count subscribers that are already gone.
//
// Each receiver observes every value broadcast after it subscribed, in the
// order Broadcast was called. Nothing published before Subscribe is replayed,
// and no ordering is promised between different receivers.
package listener
