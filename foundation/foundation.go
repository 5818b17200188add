package foundation

import (
	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/objc"
	"github.com/drewcrawford/objr/sym"
)

// Symbols is the symbol group for the Foundation bindings in this package.
var Symbols = sym.NewGroup("foundation")

// Class symbols.
var (
	ClassNSObject = Symbols.Class("NSObject")
	ClassNSString = Symbols.Class("NSString")
	ClassNSDate   = Symbols.Class("NSDate")
	ClassNSError  = Symbols.Class("NSError")
)

// Selector symbols.
var (
	selAlloc                = Symbols.Selector("alloc")
	selInit                 = Symbols.Selector("init")
	selDescription          = Symbols.Selector("description")
	selRespondsToSelector   = Symbols.Selector("respondsToSelector:")
	selCopy                 = Symbols.Selector("copy")
	selUTF8String           = Symbols.Selector("UTF8String")
	selInitWithBytes        = Symbols.Selector("initWithBytes:length:encoding:")
	selIsEqualToString      = Symbols.Selector("isEqualToString:")
	selHash                 = Symbols.Selector("hash")
	selLength               = Symbols.Selector("length")
	selDateByAdding         = Symbols.Selector("dateByAddingTimeInterval:")
	selTimeIntervalSince70  = Symbols.Selector("timeIntervalSince1970")
	selCode                 = Symbols.Selector("code")
	selDomain               = Symbols.Selector("domain")
	selLocalizedDescription = Symbols.Selector("localizedDescription")
)

// Reference is any smart pointer exposing its underlying handle: Strong,
// Autoreleased, or Unretained. The bindings below accept any of them as the
// receiver; the reference-count contract of the receiver is unaffected by
// sending it a message.
type Reference interface {
	Handle() objr.Handle
}

// AllocInit performs [[cls alloc] init] and returns the owned instance.
// init may return a different pointer than alloc did; the returned Strong
// owns whatever init produced. Returns nil if init failed.
//
// The pool token is required because initializers are free to autorelease
// internally.
func AllocInit(cls *sym.Class, pool *objc.Pool) *objc.Strong {
	rt := pool.Runtime()
	raw := rt.Send(cls.Handle(rt), selAlloc.Handle(rt))
	inited := rt.Send(objr.Handle(raw), selInit.Handle(rt))
	return objc.RetainedResult(rt, objr.Handle(inited))
}

// Description returns the object's description as an owned NSString,
// claimed from the autoreleased return through the fast path.
func Description(obj Reference, pool *objc.Pool) *objc.Strong {
	rt := pool.Runtime()
	raw := rt.Send(obj.Handle(), selDescription.Handle(rt))
	return objc.RetainAutoreleasedResult(objr.Handle(raw), pool)
}

// DescriptionString returns the object's description as a Go string.
func DescriptionString(obj Reference, pool *objc.Pool) string {
	desc := Description(obj, pool)
	if desc == nil {
		return ""
	}
	defer desc.Release()
	return GoString(desc, pool)
}

// RespondsToSelector reports whether the object implements sel.
func RespondsToSelector(rt objr.Runtime, obj Reference, sel *sym.Selector) bool {
	return rt.Send(obj.Handle(), selRespondsToSelector.Handle(rt), uintptr(sel.Handle(rt))) != 0
}

// Copy performs [obj copy], which returns +1 by convention.
func Copy(rt objr.Runtime, obj Reference) *objc.Strong {
	raw := rt.Send(obj.Handle(), selCopy.Handle(rt))
	return objc.RetainedResult(rt, objr.Handle(raw))
}
