package exception

import (
	"fmt"

	"go.uber.org/zap"

	objr "github.com/drewcrawford/objr"
)

// Trapper is implemented by runtimes that can install a foreign exception
// handler around a call. The simulated runtime in objctest implements it;
// the native backend does not, because unwinding an Objective-C exception
// into Go frames is undefined behavior that no handler written in Go can
// make safe.
type Trapper interface {
	// Trap invokes fn and converts a foreign exception raised during it
	// into an error. Panics that are not foreign exceptions propagate.
	Trap(fn func()) error
}

// Catch runs fn with the foreign-exception boundary in its degraded,
// recoverable mode: if rt can trap exceptions, one raised inside fn is
// converted to a structured error instead of terminating the process.
//
// This costs a handler installation per call and is intended for debugging
// and for fencing known-throwing APIs, not for routine control flow. When
// rt cannot trap, fn runs unprotected after a logged warning and the
// default policy applies: a foreign exception crossing the boundary is
// fatal, because partially unwound foreign frames leave ownership state
// unrecoverable.
func Catch(rt objr.Runtime, fn func()) error {
	if t, ok := rt.(Trapper); ok {
		return t.Trap(fn)
	}
	objr.Logger().Warn("exception trapping unsupported by runtime, running unprotected",
		zap.String("runtime", fmt.Sprintf("%T", rt)))
	fn()
	return nil
}

// Supported reports whether rt can trap foreign exceptions.
func Supported(rt objr.Runtime) bool {
	_, ok := rt.(Trapper)
	return ok
}
