// Package objctest provides an in-process simulation of the Objective-C
// runtime for testing bindings without a real libobjc.
//
// The simulated Runtime implements objr.Runtime: reference counting with
// deallocation, autorelease pools with strict LIFO drain checking, class and
// selector tables, and word-based message dispatch over scripted classes.
// NSObject, NSString, NSDate, and NSError come built in; tests can define
// further classes:
//
//	rt := objctest.New()
//	rt.DefineClass("MYWidget", "NSObject").
//		InstanceMethod("spin", func(rt *objctest.Runtime, self objr.Handle, args []uintptr) uintptr {
//			return 0
//		})
//
// # Probes
//
// The simulation exposes state real Objective-C hides, so tests can assert
// the exact reference-count traffic a binding performs:
//
//	rt.RetainCount(h)    current count
//	rt.Retains(h)        explicit retains charged
//	rt.Releases(h)       releases charged (pool drains included)
//	rt.Claims(h)         autoreleased-return-value fast-path handovers
//	rt.Live()            live object census
//	rt.ClassLookups(n)   resolve-once assertions for the symbol registry
//
// # Failure injection
//
// Deallocated objects leave tombstones: any later message, retain, or
// release panics with a structured error instead of corrupting state.
// Unrecognized selectors and explicit rt.Raise calls throw a simulated
// exception (*Exception) that is fatal unless trapped; the runtime
// implements the Trap method used by package exception.
package objctest
