package objr

import "fmt"

// Handle is an opaque reference to an Objective-C object instance.
//
// A Handle carries no ownership. The zero value means "no object": rather
// than a separate optional wrapper, absence is packed into the unused null
// word of the pointer, so a Handle is exactly one machine word wide. Every
// lifetime-affecting operation lives on the smart pointer types in package
// objc; the only safe operations on a bare Handle are the identity
// comparisons below.
type Handle uintptr

// HandleFromRaw wraps a raw object address.
//
// This is unchecked: the caller must know the address denotes a live,
// correctly-typed Objective-C object. Prefer receiving handles from a
// Runtime or from the conversion helpers in package objc.
func HandleFromRaw(ptr uintptr) Handle {
	return Handle(ptr)
}

// IsNil reports whether h is the "no object" value.
func (h Handle) IsNil() bool {
	return h == 0
}

// Raw returns the underlying object address.
func (h Handle) Raw() uintptr {
	return uintptr(h)
}

// String formats the handle as an address. Object descriptions require a
// message send and an autorelease pool; see foundation.Description.
func (h Handle) String() string {
	if h == 0 {
		return "<nil>"
	}
	return fmt.Sprintf("0x%x", uintptr(h))
}

// PoolToken identifies a pushed autorelease pool for the matching pop.
// Tokens are opaque; pools must pop in strict LIFO order.
type PoolToken uintptr

// Runtime is the foreign-runtime surface everything in this module is built
// on: reference counting, autorelease pools, symbol lookup, and the raw
// message send. The darwin implementation lives in package native; package
// objctest provides an in-process simulation for tests.
//
// Arguments and results of Send are raw ABI words. Interpreting a result as
// an object handle versus a scalar, and the reference-count convention of
// that handle, is the caller's declared knowledge of the API being bound;
// see the conversion helpers in package objc.
//
// Implementations must be safe for concurrent use: symbol lookups race at
// first use, and distinct goroutines may each hold their own pools.
type Runtime interface {
	// Retain increments the object's reference count and returns the object.
	Retain(h Handle) Handle
	// Release decrements the object's reference count, deallocating at zero.
	Release(h Handle)
	// Autorelease registers the object with the innermost active pool.
	Autorelease(h Handle)
	// RetainAutoreleasedReturnValue claims an autoreleased return value at
	// +1. When h is the value most recently autoreleased into the active
	// pool, the pending release is handed over instead of performing a
	// retain/release pair. This is the combined fast path used by
	// objc.RetainAutoreleasedResult.
	RetainAutoreleasedReturnValue(h Handle) Handle

	// PoolPush activates a new autorelease pool and returns its token.
	PoolPush() PoolToken
	// PoolPop drains the pool identified by token. Pools drain in strict
	// LIFO order; popping out of order is unrecoverable and implementations
	// abort rather than continue with corrupt ownership state.
	PoolPop(token PoolToken)

	// LookUpClass resolves a class by name, or zero if no such class is
	// registered with the runtime.
	LookUpClass(name string) Handle
	// RegisterSelector interns a selector name and returns its handle.
	// Selector registration cannot fail.
	RegisterSelector(name string) Handle
	// InternString materializes an immortal (+1, never released) string
	// object for s, or zero if the runtime cannot build one.
	InternString(s string) Handle

	// Send performs the foreign call [recv sel args...] and returns the raw
	// result word. A nil recv returns zero without calling out, matching
	// messaging-nil semantics.
	Send(recv Handle, sel Handle, args ...uintptr) uintptr
}
