package objc

import (
	"fmt"

	"go.uber.org/zap"

	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/errors"
)

// The three ownership states, one concrete type each. Transitions between
// them consume the source value: the old value's handle is cleared and any
// later use panics, so a double release cannot be expressed by accident.
//
//	Strong        +1, Release must be called exactly once
//	Autoreleased  +0, valid while its pool token is live
//	Unretained    +0, no liveness proof at all

// Strong owns a +1 reference. On construction the handle is assumed to
// already be at +1; Release issues exactly one release. There is no shared
// ownership within Go: duplicating a Strong is an explicit Retain producing
// a second, independently owned Strong.
//
// The usual discipline is scoped:
//
//	date := foundation.AllocInit(rt, cls, pool)
//	defer date.Release()
type Strong struct {
	rt objr.Runtime
	h  objr.Handle
}

// AssumeRetained takes ownership of a handle already at +1, the convention
// of methods named alloc, new, copy, and of RetainAutoreleasedResult.
//
// Trusted: the handle must be a live object actually owned at +1 by the
// caller. Panics on a nil handle; absence is expressed as a nil *Strong,
// never a Strong wrapping nil.
func AssumeRetained(rt objr.Runtime, h objr.Handle) *Strong {
	if h.IsNil() {
		panic(errors.NilHandle(errors.PhaseOwnership, "AssumeRetained of nil handle"))
	}
	return &Strong{rt: rt, h: h}
}

func (s *Strong) handle(op string) objr.Handle {
	if s == nil || s.h.IsNil() {
		panic(errors.Consumed("strong reference (" + op + ")"))
	}
	return s.h
}

// take consumes the cell.
func (s *Strong) take(op string) objr.Handle {
	h := s.handle(op)
	s.h = 0
	return h
}

// Handle returns the underlying handle without affecting ownership.
func (s *Strong) Handle() objr.Handle {
	return s.handle("Handle")
}

// Release gives up ownership, decrementing the reference count exactly
// once. The cell is consumed; a second Release panics rather than
// over-release the object.
func (s *Strong) Release() {
	if s == nil {
		return
	}
	if s.h.IsNil() {
		panic(errors.DoubleRelease("<consumed>"))
	}
	h := s.h
	s.h = 0
	Logger().Debug("strong release", zap.Stringer("object", h))
	s.rt.Release(h)
}

// Retain duplicates the reference, producing a second Strong at +1. The
// receiver remains owned and must still be released.
func (s *Strong) Retain() *Strong {
	h := s.handle("Retain")
	s.rt.Retain(h)
	return &Strong{rt: s.rt, h: h}
}

// Autoreleasing downgrades to a pool-scoped reference by registering the
// object with pool. The receiver is consumed: once the pending release is
// the pool's, holding a Strong too would release twice.
func (s *Strong) Autoreleasing(pool *Pool) *Autoreleased {
	pool.require()
	h := s.take("Autoreleasing")
	s.rt.Autorelease(h)
	return &Autoreleased{h: h, pool: pool}
}

// Leak discards the release obligation without releasing, handing back an
// unretained view. Used to implement a +1 return convention from Go, or to
// lend a reference whose liveness the caller guarantees by other means.
func (s *Strong) Leak() Unretained {
	return Unretained{h: s.take("Leak")}
}

// Send performs [self sel args...] and returns the raw result word. The
// result's ownership follows the method's documented convention; see the
// conversion helpers.
func (s *Strong) Send(sel objr.Handle, args ...uintptr) uintptr {
	return s.rt.Send(s.handle("Send"), sel, args...)
}

func (s *Strong) String() string {
	if s == nil {
		return "Strong(nil)"
	}
	if s.h.IsNil() {
		return "Strong(consumed)"
	}
	return fmt.Sprintf("Strong(%s)", s.h)
}

// Autoreleased is a +0 reference registered with an autorelease pool. It is
// valid exactly as long as the pool token that vouched for it; every access
// re-checks the token, so use after drain panics instead of dangling.
type Autoreleased struct {
	h    objr.Handle
	pool *Pool
}

// AssumeAutoreleased wraps a handle the caller knows is autoreleased into
// pool's scope, the convention of most value-returning Objective-C methods.
//
// Trusted: panics on a nil handle; absence is a nil *Autoreleased.
func AssumeAutoreleased(h objr.Handle, pool *Pool) *Autoreleased {
	pool.require()
	if h.IsNil() {
		panic(errors.NilHandle(errors.PhaseOwnership, "AssumeAutoreleased of nil handle"))
	}
	return &Autoreleased{h: h, pool: pool}
}

func (a *Autoreleased) handle(op string) objr.Handle {
	if a == nil || a.h.IsNil() {
		panic(errors.Consumed("autoreleased reference (" + op + ")"))
	}
	a.pool.require()
	return a.h
}

// Handle returns the underlying handle, verifying the pool is still live.
func (a *Autoreleased) Handle() objr.Handle {
	return a.handle("Handle")
}

// Pool returns the token vouching for this reference.
func (a *Autoreleased) Pool() *Pool {
	return a.pool
}

// Retain upgrades to an owned +1 reference via an explicit retain. The
// receiver is consumed. When the producing call's convention is known at
// the call site, prefer RetainAutoreleasedResult, which claims the value
// without any reference-count traffic.
func (a *Autoreleased) Retain() *Strong {
	h := a.handle("Retain")
	a.h = 0
	a.pool.rt.Retain(h)
	return &Strong{rt: a.pool.rt, h: h}
}

// Borrow returns an unretained view without consuming the receiver. The
// view carries no liveness proof; it dangles once the pool drains.
func (a *Autoreleased) Borrow() Unretained {
	return Unretained{h: a.handle("Borrow")}
}

// Send performs [self sel args...] and returns the raw result word.
func (a *Autoreleased) Send(sel objr.Handle, args ...uintptr) uintptr {
	h := a.handle("Send")
	return a.pool.rt.Send(h, sel, args...)
}

func (a *Autoreleased) String() string {
	if a == nil {
		return "Autoreleased(nil)"
	}
	if a.h.IsNil() {
		return "Autoreleased(consumed)"
	}
	return fmt.Sprintf("Autoreleased(%s)", a.h)
}

// Unretained is a raw +0 reference with no liveness proof: the caller is
// responsible for the object being alive at every use. It is the
// representation for borrowed call arguments and for handles whose
// ownership has been deliberately leaked.
//
// Unlike the other cells it is a plain value: it owns nothing and there is
// nothing to consume.
type Unretained struct {
	h objr.Handle
}

// UnretainedHandle wraps a handle with no ownership claim. A nil handle is
// permitted; IsNil reports it.
func UnretainedHandle(h objr.Handle) Unretained {
	return Unretained{h: h}
}

// IsNil reports whether this is the "no object" value.
func (u Unretained) IsNil() bool {
	return u.h.IsNil()
}

// Handle returns the underlying handle.
func (u Unretained) Handle() objr.Handle {
	return u.h
}

// Retain upgrades to an owned +1 reference via an explicit retain. Always
// safe to request, never elided. Returns nil for a nil receiver, since
// retaining nil yields nothing to own.
func (u Unretained) Retain(rt objr.Runtime) *Strong {
	if u.h.IsNil() {
		return nil
	}
	rt.Retain(u.h)
	return &Strong{rt: rt, h: u.h}
}

// AssumeAutoreleased reinterprets the reference as pool-scoped, when the
// caller knows it was in fact autoreleased into pool. Trusted. Returns nil
// for a nil receiver.
func (u Unretained) AssumeAutoreleased(pool *Pool) *Autoreleased {
	pool.require()
	if u.h.IsNil() {
		return nil
	}
	return &Autoreleased{h: u.h, pool: pool}
}

// Send performs [self sel args...] and returns the raw result word.
func (u Unretained) Send(rt objr.Runtime, sel objr.Handle, args ...uintptr) uintptr {
	return rt.Send(u.h, sel, args...)
}

func (u Unretained) String() string {
	return fmt.Sprintf("Unretained(%s)", u.h)
}
