// Package sym implements the static symbol registry: classes, selectors,
// and interned string literals declared once and resolved to runtime
// handles exactly once per process.
//
// A naive binding looks up its class and registers its selectors on every
// call. Declaring them as package-level symbols amortizes that work to a
// single lookup at first use:
//
//	var (
//	    syms       = sym.NewGroup("myapp")
//	    clsNSDate  = syms.Class("NSDate")
//	    selAdd     = syms.Selector("dateByAddingTimeInterval:")
//	    litGreeting = syms.Literal("hello")
//	)
//
//	h := clsNSDate.Handle(rt) // resolves on first call, cached after
//
// Resolution is race-safe: concurrent first use performs the underlying
// foreign lookup once, and every caller observes the same handle. An
// unknown class name is a fatal configuration error surfaced at first use
// (resolution depends on which frameworks are loaded, so it cannot be
// checked at declaration time); Handle panics with a structured error,
// TryHandle returns it.
//
// Snapshot and Group.Resolve exist for diagnostics: eager warm-up at
// startup and registry inspection in tooling.
package sym
