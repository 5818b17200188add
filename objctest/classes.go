package objctest

import (
	"fmt"
	"hash/fnv"
	"math"
	"time"
	"unsafe"

	objr "github.com/drewcrawford/objr"
)

// NSUTF8StringEncoding is the only encoding the simulated NSString accepts.
const NSUTF8StringEncoding = 4

type errorPayload struct {
	domain string
	code   int
	desc   string
}

// allocInstance creates a +1 instance of the class identified by classHandle.
func (rt *Runtime) allocInstance(classHandle objr.Handle, payload any) uintptr {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	c := rt.classByHandle[classHandle]
	return uintptr(rt.newObjectLocked(c, payload))
}

// autoreleasedObject creates an instance of the named class at +1 and
// registers it with the innermost pool, the +0 return convention.
func (rt *Runtime) autoreleasedObject(className string, payload any) uintptr {
	h := objr.Handle(0)
	func() {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		h = rt.newObjectLocked(rt.classes[className], payload)
	}()
	rt.Autorelease(h)
	return uintptr(h)
}

func (rt *Runtime) classOf(h objr.Handle) *Class {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if c, ok := rt.classByHandle[h]; ok {
		return c
	}
	return rt.entryOf(h, "class").class
}

func (rt *Runtime) setPayload(h objr.Handle, payload any) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	e := rt.entryOf(h, "setPayload")
	e.payload = payload
	e.cbuf = nil
}

// cString pins a NUL-terminated copy of the object's string payload and
// returns its address. The buffer stays alive as long as the object does.
func (rt *Runtime) cString(h objr.Handle) uintptr {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	e := rt.entryOf(h, "UTF8String")
	if e.cbuf == nil {
		s, _ := e.payload.(string)
		buf := make([]byte, len(s)+1)
		copy(buf, s)
		e.cbuf = buf
	}
	return uintptr(unsafe.Pointer(&e.cbuf[0]))
}

func readCString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}

func readBytes(ptr, n uintptr) []byte {
	if ptr == 0 || n == 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
	return out
}

func (rt *Runtime) respondsTo(h objr.Handle, sel objr.Handle) uintptr {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	var cls *Class
	instance := true
	if c, ok := rt.classByHandle[h]; ok {
		cls = c
		instance = false
	} else {
		cls = rt.entryOf(h, "respondsToSelector:").class
	}
	for c := cls; c != nil; c = c.Super {
		table := c.instanceMethods
		if !instance {
			table = c.classMethods
		}
		if _, ok := table[sel]; ok {
			return 1
		}
	}
	return 0
}

func (rt *Runtime) registerBuiltins() {
	nsobject := rt.defineClassLocked("NSObject", "")
	nsstring := rt.defineClassLocked("NSString", "NSObject")
	nsdate := rt.defineClassLocked("NSDate", "NSObject")
	nserror := rt.defineClassLocked("NSError", "NSObject")

	install := func(c *Class, instance bool, sel string, fn Method) {
		h := rt.selectorLocked(sel)
		if instance {
			c.instanceMethods[h] = fn
		} else {
			c.classMethods[h] = fn
		}
	}

	// NSObject
	install(nsobject, false, "alloc", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		return rt.allocInstance(self, nil)
	})
	install(nsobject, false, "new", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		return rt.Send(objr.Handle(rt.allocInstance(self, nil)), rt.RegisterSelector("init"))
	})
	install(nsobject, true, "init", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		return uintptr(self)
	})
	install(nsobject, true, "description", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		desc := fmt.Sprintf("<%s: %s>", rt.classOf(self).Name, self)
		return rt.autoreleasedString(desc)
	})
	install(nsobject, true, "respondsToSelector:", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		return rt.respondsTo(self, objr.Handle(args[0]))
	})
	install(nsobject, true, "copy", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		payload, _ := rt.Payload(self)
		return uintptr(rt.NewObject(rt.classOf(self).Name, payload))
	})
	install(nsobject, true, "retainCount", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		return uintptr(rt.RetainCount(self))
	})
	install(nsobject, true, "isEqual:", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		if uintptr(self) == args[0] {
			return 1
		}
		return 0
	})

	// NSString
	install(nsstring, false, "stringWithUTF8String:", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		return rt.autoreleasedObject("NSString", readCString(args[0]))
	})
	install(nsstring, true, "initWithBytes:length:encoding:", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		if args[2] != NSUTF8StringEncoding {
			// Unsupported encoding: init fails, returning nil by convention.
			rt.Release(self)
			return 0
		}
		rt.setPayload(self, string(readBytes(args[0], args[1])))
		return uintptr(self)
	})
	install(nsstring, true, "UTF8String", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		return rt.cString(self)
	})
	install(nsstring, true, "isEqualToString:", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		a, _ := rt.Payload(self)
		b, ok := rt.Payload(objr.Handle(args[0]))
		if ok && a == b {
			return 1
		}
		return 0
	})
	install(nsstring, true, "hash", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		s, _ := rt.Payload(self)
		str, _ := s.(string)
		f := fnv.New64a()
		f.Write([]byte(str))
		return uintptr(f.Sum64())
	})
	install(nsstring, true, "length", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		s, _ := rt.Payload(self)
		str, _ := s.(string)
		return uintptr(len(str))
	})

	// NSDate
	install(nsdate, false, "date", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		return rt.autoreleasedObject("NSDate", float64(time.Now().UnixNano())/1e9)
	})
	install(nsdate, true, "init", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		rt.setPayload(self, float64(time.Now().UnixNano())/1e9)
		return uintptr(self)
	})
	install(nsdate, true, "timeIntervalSince1970", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		v, _ := rt.Payload(self)
		t, _ := v.(float64)
		return uintptr(math.Float64bits(t))
	})
	install(nsdate, true, "dateByAddingTimeInterval:", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		v, _ := rt.Payload(self)
		t, _ := v.(float64)
		interval := math.Float64frombits(uint64(args[0]))
		return rt.autoreleasedObject("NSDate", t+interval)
	})

	// NSError
	install(nserror, true, "code", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		v, _ := rt.Payload(self)
		p, _ := v.(errorPayload)
		return uintptr(p.code)
	})
	install(nserror, true, "domain", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		v, _ := rt.Payload(self)
		p, _ := v.(errorPayload)
		return rt.autoreleasedString(p.domain)
	})
	install(nserror, true, "localizedDescription", func(rt *Runtime, self objr.Handle, args []uintptr) uintptr {
		v, _ := rt.Payload(self)
		p, _ := v.(errorPayload)
		return rt.autoreleasedString(p.desc)
	})
}

func (rt *Runtime) autoreleasedString(s string) uintptr {
	return rt.autoreleasedObject("NSString", s)
}

// NewError allocates a simulated NSError at +1. Intended for test setup.
func (rt *Runtime) NewError(domain string, code int, desc string) objr.Handle {
	return rt.NewObject("NSError", errorPayload{domain: domain, code: code, desc: desc})
}
