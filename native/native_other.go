//go:build !darwin

package native

import (
	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/errors"
)

// Runtime is a placeholder on platforms without an Objective-C runtime.
// New always fails here, so no method is ever reached.
type Runtime struct{}

// New reports that the Objective-C runtime is unavailable on this platform.
func New() (*Runtime, error) {
	return nil, errors.Unsupported(errors.PhaseLoad, "Objective-C runtime (darwin only)")
}

func unavailable() error {
	return errors.Unsupported(errors.PhaseLoad, "Objective-C runtime (darwin only)")
}

func (rt *Runtime) Send(recv objr.Handle, sel objr.Handle, args ...uintptr) uintptr {
	panic(unavailable())
}

func (rt *Runtime) Retain(h objr.Handle) objr.Handle { panic(unavailable()) }

func (rt *Runtime) Release(h objr.Handle) { panic(unavailable()) }

func (rt *Runtime) Autorelease(h objr.Handle) { panic(unavailable()) }

func (rt *Runtime) RetainAutoreleasedReturnValue(h objr.Handle) objr.Handle {
	panic(unavailable())
}

func (rt *Runtime) PoolPush() objr.PoolToken { panic(unavailable()) }

func (rt *Runtime) PoolPop(token objr.PoolToken) { panic(unavailable()) }

func (rt *Runtime) LookUpClass(name string) objr.Handle { panic(unavailable()) }

func (rt *Runtime) RegisterSelector(name string) objr.Handle { panic(unavailable()) }

func (rt *Runtime) InternString(s string) objr.Handle { panic(unavailable()) }
