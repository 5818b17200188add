package objc

import (
	"go.uber.org/zap"

	objr "github.com/drewcrawford/objr"
)

// ReturnConvention declares the reference-count state of an object returned
// by a foreign call. The Objective-C ABI carries no ownership information;
// the convention is documentation the binding author attaches to each bound
// method, and the conversion helpers below turn it into the correctly typed
// cell with the minimum reference-count traffic.
type ReturnConvention int

const (
	// ReturnsRetained: the result is +1 and the caller owns it. Methods in
	// the alloc/new/copy/mutableCopy families.
	ReturnsRetained ReturnConvention = iota
	// ReturnsAutoreleased: the result is +0, registered with the active
	// pool. The default convention for value-returning methods.
	ReturnsAutoreleased
	// ReturnsBorrowed: the result is +0 and not pool-registered; some other
	// object owns it. Never implicitly upgraded.
	ReturnsBorrowed
)

func (c ReturnConvention) String() string {
	switch c {
	case ReturnsRetained:
		return "retained"
	case ReturnsAutoreleased:
		return "autoreleased"
	case ReturnsBorrowed:
		return "borrowed"
	default:
		return "unknown"
	}
}

// RetainedResult wraps a +1 call result as an owned reference, with no
// additional retain. A nil result converts to a nil *Strong.
func RetainedResult(rt objr.Runtime, raw objr.Handle) *Strong {
	if raw.IsNil() {
		return nil
	}
	return &Strong{rt: rt, h: raw}
}

// AutoreleasedResult wraps a +0 autoreleased call result as a pool-scoped
// reference. This is the cheapest conversion: no reference-count traffic at
// all, valid only within pool's scope. A nil result converts to a nil
// *Autoreleased.
func AutoreleasedResult(raw objr.Handle, pool *Pool) *Autoreleased {
	pool.require()
	if raw.IsNil() {
		return nil
	}
	return &Autoreleased{h: raw, pool: pool}
}

// RetainAutoreleasedResult claims a +0 autoreleased call result directly at
// +1. When the result is the value most recently autoreleased into the
// active pool, the runtime hands over the pending release instead of
// performing a retain/release pair; this is cheaper than AutoreleasedResult
// followed by Retain and is the conversion to use when the call site wants
// ownership. A nil result converts to a nil *Strong.
func RetainAutoreleasedResult(raw objr.Handle, pool *Pool) *Strong {
	pool.require()
	if raw.IsNil() {
		return nil
	}
	rt := pool.rt
	h := rt.RetainAutoreleasedReturnValue(raw)
	Logger().Debug("claimed autoreleased return value", zap.Stringer("object", h))
	return &Strong{rt: rt, h: h}
}

// BorrowedResult wraps a +0 borrowed call result. Borrowed results are
// never implicitly upgraded; call Retain on the result to own it.
func BorrowedResult(raw objr.Handle) Unretained {
	return Unretained{h: raw}
}

// StrongResult converts a raw call result of the declared convention into
// an owned reference, performing the minimum work for that convention:
//
//	retained      wrap only, no traffic
//	autoreleased  single claim via the autoreleased-return fast path
//	borrowed      one explicit retain
//
// pool is required only for the autoreleased convention. A nil result
// converts to a nil *Strong.
func StrongResult(rt objr.Runtime, raw objr.Handle, conv ReturnConvention, pool *Pool) *Strong {
	if raw.IsNil() {
		return nil
	}
	switch conv {
	case ReturnsRetained:
		return RetainedResult(rt, raw)
	case ReturnsAutoreleased:
		return RetainAutoreleasedResult(raw, pool)
	default:
		return BorrowedResult(raw).Retain(rt)
	}
}
