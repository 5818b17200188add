// Package exception defines the foreign-exception boundary.
//
// Objective-C exceptions must never unwind into Go frames: Go's unwinder
// does not know how to clean up foreign frames and vice versa, so a
// crossing exception is undefined behavior. The default policy is
// therefore fatal by default: an untrapped exception terminates the
// process with its description logged rather than proceeding silently.
//
// Catch provides the documented opt-in degraded path: a scoped trap around
// a single call that converts a raised exception into an error value, at
// the cost of installing a handler per call. Only runtimes implementing
// Trapper support it.
package exception
