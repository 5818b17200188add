// Package native binds objr.Runtime to the Objective-C runtime of the host
// process on darwin, using dlopen/dlsym rather than cgo.
//
// New resolves objc_msgSend and the reference-counting entry points once at
// startup. Send passes arguments as raw machine words, so callers encode
// pointers as uintptr and floats with math.Float64bits, and no type
// marshaling happens on this level.
//
// The native runtime cannot trap Objective-C exceptions (that would require
// an @try frame, which needs compiled Objective-C code); exception.Catch
// therefore runs bodies unprotected against it and a raised exception
// terminates the process, same as it would in a plain Objective-C program
// without a handler.
//
// On non-darwin platforms New returns an error and the package is inert.
package native
