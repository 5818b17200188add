package objctest

import (
	objr "github.com/drewcrawford/objr"
)

// Probes for test assertions. These inspect simulation state that real
// Objective-C only exposes indirectly (retainCount, Instruments, zombies).

// RetainCount returns the current reference count of h, or zero if h was
// deallocated or never existed.
func (rt *Runtime) RetainCount(h objr.Handle) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	e := rt.objects[h]
	if e == nil || e.dead {
		return 0
	}
	return e.rc
}

// Retains returns how many explicit retain calls h has received.
func (rt *Runtime) Retains(h objr.Handle) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.countsOf(h).retains
}

// Releases returns how many release calls h has received, including those
// performed by pool drains.
func (rt *Runtime) Releases(h objr.Handle) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.countsOf(h).releases
}

// Claims returns how many times ownership of h was handed over through the
// RetainAutoreleasedReturnValue fast path. A claim transfers the pool's
// pending release to the caller; no retain or release is performed.
func (rt *Runtime) Claims(h objr.Handle) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.countsOf(h).claims
}

// Deallocated reports whether h once existed and has since been deallocated.
func (rt *Runtime) Deallocated(h objr.Handle) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	e := rt.objects[h]
	return e != nil && e.dead
}

// Live returns the number of live (allocated, not deallocated) objects,
// excluding immortal interned strings.
func (rt *Runtime) Live() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	n := 0
	for _, e := range rt.objects {
		if !e.dead && !e.immortal {
			n++
		}
	}
	return n
}

// PoolDepth returns the number of active autorelease pools.
func (rt *Runtime) PoolDepth() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.pools)
}

// PendingAutoreleases returns the number of releases deferred in the
// innermost pool.
func (rt *Runtime) PendingAutoreleases() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if len(rt.pools) == 0 {
		return 0
	}
	return len(rt.pools[len(rt.pools)-1].deferred)
}

// ClassLookups returns how many times LookUpClass was called for name.
func (rt *Runtime) ClassLookups(name string) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.classLookups[name]
}

// SelectorLookups returns how many times RegisterSelector was called for name.
func (rt *Runtime) SelectorLookups(name string) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.selectorLookups[name]
}

// StringInterns returns how many times InternString was called for s.
func (rt *Runtime) StringInterns(s string) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.stringInterns[s]
}

// Payload returns the simulated object's backing value, for test assertions.
func (rt *Runtime) Payload(h objr.Handle) (any, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	e := rt.objects[h]
	if e == nil || e.dead {
		return nil, false
	}
	return e.payload, true
}
