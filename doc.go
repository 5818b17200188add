// Package objr provides low-level Go bindings to the Objective-C runtime,
// the de facto ABI of Apple platforms.
//
// The hard part of binding Objective-C is not the call mechanism but the
// ownership model: object lifetime is governed by convention-based
// retain/release/autorelease calls and scoped autorelease pools. This module
// maps that discipline onto explicit Go types so that misuse is either
// impossible to express or fails loudly, while eliding the retain/release
// traffic a naive wrapper would add.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct
// responsibilities:
//
//	objr/            Root package: Handle and the Runtime collaborator interface
//	├── objc/        Smart pointers, autorelease pool scoping, call-result conversion
//	├── sym/         Static symbol groups: classes, selectors, and interned strings
//	├── foundation/  Hand-written bindings: NSObject, NSString, NSDate, NSError
//	├── exception/   Foreign-exception boundary (fatal by default, opt-in trap)
//	├── native/      Real runtime backend for darwin (dlopen of libobjc, no cgo)
//	├── objctest/    Simulated Objective-C runtime with reference-count probes
//	└── errors/      Structured error types for debugging
//
// # Quick Start
//
// Declare symbols once, then call inside a pool scope:
//
//	var syms = sym.NewGroup("myapp")
//	var clsNSDate = syms.Class("NSDate")
//	var selAdd = syms.Selector("dateByAddingTimeInterval:")
//
//	rt, err := native.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = objc.WithPool(rt, func(pool *objc.Pool) error {
//	    date := foundation.AllocInit(clsNSDate, pool)
//	    defer date.Release()
//	    raw := rt.Send(date.Handle(), selAdd.Handle(rt), math.Float64bits(23.5))
//	    later := objc.RetainAutoreleasedResult(objr.Handle(raw), pool)
//	    defer later.Release()
//	    return nil
//	})
//
// # Ownership States
//
// A reference is always in exactly one of three states, each a distinct type:
//
//	objc.Strong       +1, owner must call Release exactly once
//	objc.Autoreleased +0, valid only while its pool scope is live
//	objc.Unretained   +0, no liveness proof, caller's responsibility
//
// Transitions between states consume the source value and perform the
// minimum reference-count traffic; see package objc.
//
// # Threading
//
// This layer imposes no scheduling model. Calls are synchronous on whichever
// goroutine makes them. The Objective-C runtime's own threading rules (main
// thread affinity of AppKit, per-object thread safety) remain the caller's
// responsibility. Pools and smart pointers are not safe for concurrent
// mutation; the symbol registry is the only process-wide shared state and is
// safe for concurrent first use.
package objr
