//go:build darwin

package native

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/errors"
)

const (
	libobjcPath    = "/usr/lib/libobjc.A.dylib"
	foundationPath = "/System/Library/Frameworks/Foundation.framework/Foundation"
	dlopenMode     = purego.RTLD_NOW | purego.RTLD_GLOBAL
)

// Runtime is the Objective-C runtime of the host process, reached through
// dlopen/dlsym. It implements objr.Runtime.
type Runtime struct {
	msgSend            uintptr
	retain             uintptr
	release            uintptr
	autorelease        uintptr
	retainAutoreleased uintptr
	poolPush           uintptr
	poolPop            uintptr
	lookUpClass        uintptr
	selRegisterName    uintptr

	mu       sync.Mutex
	interned map[string]objr.Handle
}

// New loads libobjc and Foundation and resolves the entry points the package
// needs. Loading Foundation up front makes its classes visible to
// LookUpClass.
func New() (*Runtime, error) {
	if _, err := purego.Dlopen(libobjcPath, dlopenMode); err != nil {
		return nil, errors.Load("dlopen "+libobjcPath, err)
	}
	if _, err := purego.Dlopen(foundationPath, dlopenMode); err != nil {
		return nil, errors.Load("dlopen "+foundationPath, err)
	}

	rt := &Runtime{interned: make(map[string]objr.Handle)}
	for _, s := range []struct {
		name string
		dst  *uintptr
	}{
		{"objc_msgSend", &rt.msgSend},
		{"objc_retain", &rt.retain},
		{"objc_release", &rt.release},
		{"objc_autorelease", &rt.autorelease},
		{"objc_retainAutoreleasedReturnValue", &rt.retainAutoreleased},
		{"objc_autoreleasePoolPush", &rt.poolPush},
		{"objc_autoreleasePoolPop", &rt.poolPop},
		{"objc_lookUpClass", &rt.lookUpClass},
		{"sel_registerName", &rt.selRegisterName},
	} {
		addr, err := purego.Dlsym(purego.RTLD_DEFAULT, s.name)
		if err != nil {
			return nil, errors.Load("dlsym "+s.name, err)
		}
		*s.dst = addr
	}

	objr.Logger().Debug("objc runtime loaded", zap.String("library", libobjcPath))
	return rt, nil
}

// Send implements objr.Runtime. Arguments and the result are raw ABI words;
// floats go through math.Float64bits.
func (rt *Runtime) Send(recv objr.Handle, sel objr.Handle, args ...uintptr) uintptr {
	words := make([]uintptr, 0, 2+len(args))
	words = append(words, uintptr(recv), uintptr(sel))
	words = append(words, args...)
	r1, _, _ := purego.SyscallN(rt.msgSend, words...)
	return r1
}

// Retain implements objr.Runtime.
func (rt *Runtime) Retain(h objr.Handle) objr.Handle {
	r1, _, _ := purego.SyscallN(rt.retain, uintptr(h))
	return objr.Handle(r1)
}

// Release implements objr.Runtime.
func (rt *Runtime) Release(h objr.Handle) {
	purego.SyscallN(rt.release, uintptr(h))
}

// Autorelease implements objr.Runtime.
func (rt *Runtime) Autorelease(h objr.Handle) {
	purego.SyscallN(rt.autorelease, uintptr(h))
}

// RetainAutoreleasedReturnValue implements objr.Runtime.
func (rt *Runtime) RetainAutoreleasedReturnValue(h objr.Handle) objr.Handle {
	r1, _, _ := purego.SyscallN(rt.retainAutoreleased, uintptr(h))
	return objr.Handle(r1)
}

// PoolPush implements objr.Runtime.
func (rt *Runtime) PoolPush() objr.PoolToken {
	r1, _, _ := purego.SyscallN(rt.poolPush)
	return objr.PoolToken(r1)
}

// PoolPop implements objr.Runtime.
func (rt *Runtime) PoolPop(token objr.PoolToken) {
	purego.SyscallN(rt.poolPop, uintptr(token))
}

// LookUpClass implements objr.Runtime. Returns the nil handle when the class
// is not registered.
func (rt *Runtime) LookUpClass(name string) objr.Handle {
	buf := nulTerminated(name)
	r1, _, _ := purego.SyscallN(rt.lookUpClass, uintptr(unsafe.Pointer(&buf[0])))
	runtime.KeepAlive(buf)
	return objr.Handle(r1)
}

// RegisterSelector implements objr.Runtime.
func (rt *Runtime) RegisterSelector(name string) objr.Handle {
	buf := nulTerminated(name)
	r1, _, _ := purego.SyscallN(rt.selRegisterName, uintptr(unsafe.Pointer(&buf[0])))
	runtime.KeepAlive(buf)
	return objr.Handle(r1)
}

// InternString implements objr.Runtime. The NSString is built inside a
// private pool, retained out of it, and cached so each literal maps to one
// immortal instance per process.
func (rt *Runtime) InternString(s string) objr.Handle {
	rt.mu.Lock()
	if h, ok := rt.interned[s]; ok {
		rt.mu.Unlock()
		return h
	}
	rt.mu.Unlock()

	token := rt.PoolPush()
	defer rt.PoolPop(token)

	cls := rt.LookUpClass("NSString")
	if cls.IsNil() {
		return 0
	}
	buf := nulTerminated(s)
	raw := rt.Send(cls, rt.RegisterSelector("stringWithUTF8String:"),
		uintptr(unsafe.Pointer(&buf[0])))
	runtime.KeepAlive(buf)
	if raw == 0 {
		return 0
	}
	h := rt.Retain(objr.Handle(raw))

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if prior, ok := rt.interned[s]; ok {
		// Lost the race; drop the duplicate.
		rt.Release(h)
		return prior
	}
	rt.interned[s] = h
	return h
}

func nulTerminated(s string) []byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return buf
}
