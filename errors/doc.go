// Package errors provides structured error types for the objr module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the symbol group, symbol name, and
// selector involved, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindUnknownClass).
//		Group("foundation").
//		Symbol("NSDtae").
//		Detail("check the class name spelling").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownClass("foundation", "NSDtae")
//	err := errors.PoolDrained("description result used outside WithPool")
//
// All errors implement the standard error interface and support errors.Is/As.
//
// Unrecoverable conditions (ownership violations, pool misuse, resolution
// failures) are raised as panics whose value is an *Error, mirroring the
// abort-rather-than-unwind policy at the Objective-C boundary while keeping
// the violation observable in tests.
package errors
