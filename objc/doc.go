// Package objc implements the ownership core of the bindings: smart
// pointers typed by reference-count state, autorelease pool scoping, and
// the call-result conversions between them.
//
// # Cells
//
// A reference to an Objective-C object is held in exactly one of three cell
// types, corresponding to the three ownership states the runtime's
// conventions produce:
//
//	Strong        owns +1; Release exactly once (usually deferred)
//	Autoreleased  +0, vouched for by a pool token; dies with the pool
//	Unretained    +0, no proof; the caller guarantees liveness
//
// Ownership transitions consume the source cell and return a new typed
// value. The consumed cell's handle is cleared and any later use panics
// with a structured ownership error, so a double release is unreachable:
//
//	strong := auto.Retain()     // Autoreleased -> Strong, one retain
//	view := strong.Leak()       // Strong -> Unretained, release suppressed
//	owned := view.Retain(rt)    // Unretained -> Strong, one retain
//
// # Pools
//
// WithPool scopes an autorelease pool and passes the proof token to its
// body. Any API able to return a pool-scoped reference takes the token as a
// parameter, which is how "a pool must be active here" is checked at
// compile time rather than discovered as a leak in production:
//
//	err := objc.WithPool(rt, func(pool *objc.Pool) error {
//	    desc := objc.AutoreleasedResult(objr.Handle(raw), pool)
//	    ...
//	    return nil
//	})
//
// # Conversions
//
// The conversion helpers take a raw call result plus the method's declared
// return convention and produce the correctly typed cell with the minimum
// reference-count traffic. In particular RetainAutoreleasedResult claims an
// autoreleased return value at +1 through the runtime's handover fast path,
// eliding the retain/release pair a naive wrapper would perform on every
// call. Nil raw results always convert to the absent value (nil pointer or
// nil-valued Unretained); a non-nil cell never wraps a nil handle.
package objc
