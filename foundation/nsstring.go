package foundation

import (
	"runtime"
	"unsafe"

	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/objc"
)

// NSUTF8StringEncoding is the NSStringEncoding constant for UTF-8.
const NSUTF8StringEncoding = 4

// NewString copies a Go string into an owned NSString via
// initWithBytes:length:encoding:. Returns nil if the initializer rejected
// the bytes.
func NewString(pool *objc.Pool, s string) *objc.Strong {
	rt := pool.Runtime()
	raw := rt.Send(ClassNSString.Handle(rt), selAlloc.Handle(rt))

	buf := []byte(s)
	var ptr uintptr
	if len(buf) > 0 {
		ptr = uintptr(unsafe.Pointer(&buf[0]))
	}
	inited := rt.Send(objr.Handle(raw), selInitWithBytes.Handle(rt),
		ptr, uintptr(len(buf)), NSUTF8StringEncoding)
	runtime.KeepAlive(buf)

	return objc.RetainedResult(rt, objr.Handle(inited))
}

// GoString copies an NSString's UTF-8 contents into a Go string. The
// UTF8String buffer is only guaranteed to outlive the receiver within the
// current pool scope, hence the token.
func GoString(str Reference, pool *objc.Pool) string {
	rt := pool.Runtime()
	cstr := rt.Send(str.Handle(), selUTF8String.Handle(rt))
	return goStringFromC(cstr)
}

// StringsEqual performs [a isEqualToString:b].
func StringsEqual(rt objr.Runtime, a, b Reference) bool {
	return rt.Send(a.Handle(), selIsEqualToString.Handle(rt), uintptr(b.Handle())) != 0
}

// StringHash returns [s hash].
func StringHash(rt objr.Runtime, s Reference) uint64 {
	return uint64(rt.Send(s.Handle(), selHash.Handle(rt)))
}

// StringLength returns [s length], the number of UTF-16 code units.
func StringLength(rt objr.Runtime, s Reference) int {
	return int(rt.Send(s.Handle(), selLength.Handle(rt)))
}

// goStringFromC copies a NUL-terminated C string.
func goStringFromC(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}
