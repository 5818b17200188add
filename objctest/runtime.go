package objctest

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/errors"
)

// Handle spaces. Synthetic addresses keep object, class, and selector
// handles disjoint so dispatch can tell them apart.
const (
	objectBase   = 0x0001_0000
	classBase    = 0x0100_0000
	selectorBase = 0x0200_0000
	handleStride = 0x10
)

// Method implements one Objective-C method of a simulated class.
// Arguments and the result are raw ABI words, exactly as objr.Runtime.Send
// presents them.
type Method func(rt *Runtime, self objr.Handle, args []uintptr) uintptr

// Class is a simulated Objective-C class.
type Class struct {
	Name   string
	Super  *Class
	handle objr.Handle

	rt              *Runtime
	instanceMethods map[objr.Handle]Method
	classMethods    map[objr.Handle]Method
}

// Exception is the panic payload of a simulated Objective-C exception.
// It crosses the call boundary as a Go panic; exception.Catch converts it
// into an error when the runtime traps it.
type Exception struct {
	Name   string
	Reason string
}

func (e *Exception) String() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

type entry struct {
	class    *Class
	rc       int
	payload  any
	cbuf     []byte // pinned NUL-terminated buffer for UTF8String results
	dead     bool   // tombstone; entries are never reused
	immortal bool   // interned strings are never deallocated
}

type counts struct {
	retains  int
	releases int
	claims   int // RetainAutoreleasedReturnValue fast-path handovers
}

type poolFrame struct {
	token    objr.PoolToken
	deferred []objr.Handle
}

// Runtime is an in-process simulation of the Objective-C runtime, used as
// the objr.Runtime test double. It keeps tombstones for deallocated objects
// so use-after-free is detected deterministically, counts every
// retain/release/claim per handle, and counts symbol lookups per name so
// tests can assert resolve-once behavior.
//
// All methods are safe for concurrent use.
type Runtime struct {
	mu sync.Mutex

	objects    map[objr.Handle]*entry
	nextObject uintptr

	classes       map[string]*Class
	classByHandle map[objr.Handle]*Class
	nextClass     uintptr

	selectors     map[string]objr.Handle
	selectorNames map[objr.Handle]string
	nextSelector  uintptr

	interned map[string]objr.Handle

	pools     []*poolFrame
	nextToken uintptr

	counters        map[objr.Handle]*counts
	classLookups    map[string]int
	selectorLookups map[string]int
	stringInterns   map[string]int
}

// New creates a simulated runtime with the built-in classes NSObject,
// NSString, NSDate, and NSError registered.
func New() *Runtime {
	rt := &Runtime{
		objects:         make(map[objr.Handle]*entry),
		classes:         make(map[string]*Class),
		classByHandle:   make(map[objr.Handle]*Class),
		selectors:       make(map[string]objr.Handle),
		selectorNames:   make(map[objr.Handle]string),
		interned:        make(map[string]objr.Handle),
		counters:        make(map[objr.Handle]*counts),
		classLookups:    make(map[string]int),
		selectorLookups: make(map[string]int),
		stringInterns:   make(map[string]int),
	}
	rt.registerBuiltins()
	return rt
}

// DefineClass registers a new simulated class. superName may be empty for a
// root class; otherwise it must already be defined.
func (rt *Runtime) DefineClass(name, superName string) *Class {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.defineClassLocked(name, superName)
}

func (rt *Runtime) defineClassLocked(name, superName string) *Class {
	if _, ok := rt.classes[name]; ok {
		panic(errors.New(errors.PhaseResolve, errors.KindUnsupported).
			Symbol(name).Detail("class defined twice").Build())
	}
	var super *Class
	if superName != "" {
		super = rt.classes[superName]
		if super == nil {
			panic(errors.UnknownClass("objctest", superName))
		}
	}
	c := &Class{
		Name:            name,
		Super:           super,
		handle:          objr.Handle(classBase + rt.nextClass*handleStride),
		rt:              rt,
		instanceMethods: make(map[objr.Handle]Method),
		classMethods:    make(map[objr.Handle]Method),
	}
	rt.nextClass++
	rt.classes[name] = c
	rt.classByHandle[c.handle] = c
	return c
}

// Handle returns the class object's handle.
func (c *Class) Handle() objr.Handle {
	return c.handle
}

// InstanceMethod installs fn as the implementation of sel on instances of c.
func (c *Class) InstanceMethod(sel string, fn Method) *Class {
	c.rt.mu.Lock()
	defer c.rt.mu.Unlock()
	c.instanceMethods[c.rt.selectorLocked(sel)] = fn
	return c
}

// ClassMethod installs fn as the implementation of sel on the class object.
func (c *Class) ClassMethod(sel string, fn Method) *Class {
	c.rt.mu.Lock()
	defer c.rt.mu.Unlock()
	c.classMethods[c.rt.selectorLocked(sel)] = fn
	return c
}

// NewObject allocates an instance of the named class at +1 with the given
// payload, bypassing alloc/init. Intended for test setup.
func (rt *Runtime) NewObject(className string, payload any) objr.Handle {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	c := rt.classes[className]
	if c == nil {
		panic(errors.UnknownClass("objctest", className))
	}
	return rt.newObjectLocked(c, payload)
}

func (rt *Runtime) newObjectLocked(c *Class, payload any) objr.Handle {
	h := objr.Handle(objectBase + rt.nextObject*handleStride)
	rt.nextObject++
	rt.objects[h] = &entry{class: c, rc: 1, payload: payload}
	return h
}

func (rt *Runtime) entryOf(h objr.Handle, sel string) *entry {
	e := rt.objects[h]
	if e == nil {
		panic(errors.New(errors.PhaseCall, errors.KindNilHandle).
			Selector(sel).Detail("unknown object handle %s", h).Build())
	}
	if e.dead {
		panic(errors.UseAfterFree(h.String(), sel))
	}
	return e
}

func (rt *Runtime) countsOf(h objr.Handle) *counts {
	c := rt.counters[h]
	if c == nil {
		c = &counts{}
		rt.counters[h] = c
	}
	return c
}

// Retain implements objr.Runtime.
func (rt *Runtime) Retain(h objr.Handle) objr.Handle {
	if h.IsNil() {
		return h
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	e := rt.entryOf(h, "retain")
	e.rc++
	rt.countsOf(h).retains++
	objr.Logger().Debug("retain", zap.Stringer("object", h), zap.Int("rc", e.rc))
	return h
}

// Release implements objr.Runtime.
func (rt *Runtime) Release(h objr.Handle) {
	if h.IsNil() {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.releaseLocked(h)
}

func (rt *Runtime) releaseLocked(h objr.Handle) {
	e := rt.objects[h]
	if e == nil || e.dead {
		panic(errors.DoubleRelease(h.String()))
	}
	rt.countsOf(h).releases++
	e.rc--
	objr.Logger().Debug("release", zap.Stringer("object", h), zap.Int("rc", e.rc))
	if e.rc > 0 {
		return
	}
	if e.immortal {
		panic(errors.DoubleRelease(h.String()))
	}
	// Deallocate but keep a tombstone so later use panics.
	e.dead = true
	e.payload = nil
	e.cbuf = nil
}

// Autorelease implements objr.Runtime. With no active pool the release is
// leaked, matching the real runtime's behavior (with a logged warning).
func (rt *Runtime) Autorelease(h objr.Handle) {
	if h.IsNil() {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.entryOf(h, "autorelease")
	if len(rt.pools) == 0 {
		objr.Logger().Warn("autorelease with no pool in place, leaking",
			zap.Stringer("object", h))
		return
	}
	top := rt.pools[len(rt.pools)-1]
	top.deferred = append(top.deferred, h)
}

// RetainAutoreleasedReturnValue implements objr.Runtime. When h is the most
// recently autoreleased value in the innermost pool, the pending release is
// handed over to the caller and no reference-count traffic occurs at all;
// otherwise it degrades to a plain retain.
func (rt *Runtime) RetainAutoreleasedReturnValue(h objr.Handle) objr.Handle {
	if h.IsNil() {
		return h
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.entryOf(h, "retainAutoreleasedReturnValue")
	if n := len(rt.pools); n > 0 {
		top := rt.pools[n-1]
		if m := len(top.deferred); m > 0 && top.deferred[m-1] == h {
			top.deferred = top.deferred[:m-1]
			rt.countsOf(h).claims++
			return h
		}
	}
	rt.objects[h].rc++
	rt.countsOf(h).retains++
	return h
}

// PoolPush implements objr.Runtime.
func (rt *Runtime) PoolPush() objr.PoolToken {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.nextToken++
	f := &poolFrame{token: objr.PoolToken(rt.nextToken)}
	rt.pools = append(rt.pools, f)
	return f.token
}

// PoolPop implements objr.Runtime. Non-LIFO pops panic: a partially drained
// pool leaves ownership state unrecoverable.
func (rt *Runtime) PoolPop(token objr.PoolToken) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	n := len(rt.pools)
	if n == 0 {
		panic(errors.PoolOrder("pop with no active pool"))
	}
	top := rt.pools[n-1]
	if top.token != token {
		panic(errors.PoolOrder(fmt.Sprintf("pop of pool %d while pool %d is innermost", token, top.token)))
	}
	rt.pools = rt.pools[:n-1]
	for i := len(top.deferred) - 1; i >= 0; i-- {
		rt.releaseLocked(top.deferred[i])
	}
}

// LookUpClass implements objr.Runtime.
func (rt *Runtime) LookUpClass(name string) objr.Handle {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.classLookups[name]++
	c := rt.classes[name]
	if c == nil {
		return 0
	}
	return c.handle
}

// RegisterSelector implements objr.Runtime.
func (rt *Runtime) RegisterSelector(name string) objr.Handle {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.selectorLookups[name]++
	return rt.selectorLocked(name)
}

func (rt *Runtime) selectorLocked(name string) objr.Handle {
	if h, ok := rt.selectors[name]; ok {
		return h
	}
	rt.nextSelector++
	h := objr.Handle(selectorBase + rt.nextSelector*handleStride)
	rt.selectors[name] = h
	rt.selectorNames[h] = name
	return h
}

// InternString implements objr.Runtime. Interned strings are immortal
// NSString instances shared per literal.
func (rt *Runtime) InternString(s string) objr.Handle {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.stringInterns[s]++
	if h, ok := rt.interned[s]; ok {
		return h
	}
	h := rt.newObjectLocked(rt.classes["NSString"], s)
	rt.objects[h].immortal = true
	rt.interned[s] = h
	return h
}

// Send implements objr.Runtime. Messages to nil return zero. Messages to
// deallocated objects panic. An unimplemented selector raises the simulated
// NSInvalidArgumentException, which is fatal unless trapped via Trap.
func (rt *Runtime) Send(recv objr.Handle, sel objr.Handle, args ...uintptr) uintptr {
	if recv.IsNil() {
		return 0
	}

	var name string
	var cls *Class
	var fn Method
	func() {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		name = rt.selectorNames[sel]
		if name == "" {
			panic(errors.New(errors.PhaseCall, errors.KindUnknownSelector).
				Detail("send with unregistered selector handle %s", sel).Build())
		}

		var table func(*Class) map[objr.Handle]Method
		if c, ok := rt.classByHandle[recv]; ok {
			cls = c
			table = func(c *Class) map[objr.Handle]Method { return c.classMethods }
		} else {
			cls = rt.entryOf(recv, name).class
			table = func(c *Class) map[objr.Handle]Method { return c.instanceMethods }
		}

		for c := cls; c != nil; c = c.Super {
			if m, ok := table(c)[sel]; ok {
				fn = m
				break
			}
		}
	}()

	if fn == nil {
		rt.Raise("NSInvalidArgumentException",
			fmt.Sprintf("-[%s %s]: unrecognized selector sent to %s", cls.Name, name, recv))
	}
	return fn(rt, recv, args)
}

// Raise throws a simulated Objective-C exception. It never returns.
func (rt *Runtime) Raise(name, reason string) {
	panic(&Exception{Name: name, Reason: reason})
}

// Trap invokes fn and converts a simulated Objective-C exception raised
// during it into an error. Go panics that are not simulated exceptions
// propagate unchanged. This makes the runtime usable with exception.Catch.
func (rt *Runtime) Trap(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ex, ok := r.(*Exception)
			if !ok {
				panic(r)
			}
			err = errors.ForeignException(ex.Name, ex.Reason)
		}
	}()
	fn()
	return nil
}
