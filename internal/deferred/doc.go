// Package deferred provides Task, a one-shot asynchronous operation that is
// built cheaply and only starts its work when it is first awaited.
//
// A Task is assembled from a Setup function. Nothing happens at construction:
// no connection is opened, no credential is read, nothing is logged. The first
// call to Await runs Setup (which may fail, for example because a credential
// is missing) and then the Run it returned, in a goroutine owned by the task.
// Every Await, concurrent or later, observes that single computation. Setup
// runs at most once per Task and is never retried.
//
// Failures are normalized into *Error values with one of three kinds; the
// low-level cause is logged at error level where it happens and only a
// redacted message travels back to the caller.
package deferred
