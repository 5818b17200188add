// Package foundation provides hand-written bindings for a small set of
// Foundation classes: NSObject, NSString, NSDate, and NSError.
//
// The bindings are intentionally thin. Each function declares the symbols it
// needs in the package's shared group, sends the message through the raw
// runtime, and converts the result with the objc conversion helpers so that
// every returned object arrives in the correct ownership state. They double
// as the reference pattern for writing bindings to other classes.
//
// Functions returning objects autoreleased by convention (Description,
// DateByAddingTimeInterval, the NSError string accessors) claim them through
// the elision fast path and hand back owned values, so callers only ever see
// Strong results and are free to keep them past the pool scope.
package foundation
