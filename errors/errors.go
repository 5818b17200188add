package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad      Phase = "load"      // runtime library loading
	PhaseResolve   Phase = "resolve"   // symbol resolution
	PhasePool      Phase = "pool"      // autorelease pool scoping
	PhaseCall      Phase = "call"      // message send
	PhaseConvert   Phase = "convert"   // call-result conversion
	PhaseOwnership Phase = "ownership" // smart pointer state transitions
	PhaseException Phase = "exception" // foreign exception boundary
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownClass     Kind = "unknown_class"
	KindUnknownSelector  Kind = "unknown_selector"
	KindInternFailed     Kind = "intern_failed"
	KindNilHandle        Kind = "nil_handle"
	KindPoolDrained      Kind = "pool_drained"
	KindPoolOrder        Kind = "pool_order"
	KindDoubleRelease    Kind = "double_release"
	KindConsumed         Kind = "consumed"
	KindUseAfterFree     Kind = "use_after_free"
	KindForeignException Kind = "foreign_exception"
	KindUnsupported      Kind = "unsupported"
	KindLoadFailed       Kind = "load_failed"
)

// Error is the structured error type used throughout the module.
//
// Fatal ownership and pool violations are raised as panics carrying an
// *Error value, so tests and debug tooling can identify the exact violation
// with errors.Is.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Group    string // symbol group name, when resolution is involved
	Symbol   string // class/selector/string name, when resolution is involved
	Selector string // selector of the offending message send, if any
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Group != "" || e.Symbol != "" {
		b.WriteString(": ")
		if e.Group != "" {
			b.WriteString("group ")
			b.WriteString(e.Group)
			if e.Symbol != "" {
				b.WriteString(", ")
			}
		}
		if e.Symbol != "" {
			b.WriteString("symbol ")
			b.WriteString(e.Symbol)
		}
	}

	if e.Selector != "" {
		b.WriteString(" in ")
		b.WriteString(e.Selector)
	}

	if e.Detail != "" {
		if e.Group != "" || e.Symbol != "" || e.Selector != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Group sets the symbol group name
func (b *Builder) Group(g string) *Builder {
	b.err.Group = g
	return b
}

// Symbol sets the symbol name
func (b *Builder) Symbol(s string) *Builder {
	b.err.Symbol = s
	return b
}

// Selector sets the selector of the offending message send
func (b *Builder) Selector(s string) *Builder {
	b.err.Selector = s
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownClass reports a class name the runtime could not resolve.
func UnknownClass(group, name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnknownClass,
		Group:  group,
		Symbol: name,
		Detail: "class not registered with the runtime; is the framework linked?",
	}
}

// UnknownSelector reports a selector name the runtime could not intern.
func UnknownSelector(group, name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnknownSelector,
		Group:  group,
		Symbol: name,
	}
}

// InternFailed reports a string literal the runtime could not materialize.
func InternFailed(group, literal string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindInternFailed,
		Group:  group,
		Symbol: literal,
	}
}

// PoolDrained reports use of a pool-scoped value after its pool drained.
func PoolDrained(detail string) *Error {
	return &Error{
		Phase:  PhasePool,
		Kind:   KindPoolDrained,
		Detail: detail,
	}
}

// PoolOrder reports a non-LIFO pool drain.
func PoolOrder(detail string) *Error {
	return &Error{
		Phase:  PhasePool,
		Kind:   KindPoolOrder,
		Detail: detail,
	}
}

// DoubleRelease reports a second release of an owned reference.
func DoubleRelease(handle string) *Error {
	return &Error{
		Phase:  PhaseOwnership,
		Kind:   KindDoubleRelease,
		Detail: fmt.Sprintf("strong reference %s released twice", handle),
	}
}

// Consumed reports use of a smart pointer after an ownership transition
// consumed it.
func Consumed(what string) *Error {
	return &Error{
		Phase:  PhaseOwnership,
		Kind:   KindConsumed,
		Detail: fmt.Sprintf("%s used after being consumed by an ownership transition", what),
	}
}

// NilHandle reports a nil handle where a live object was required.
func NilHandle(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilHandle,
		Detail: detail,
	}
}

// UseAfterFree reports a message to a deallocated object.
func UseAfterFree(handle, selector string) *Error {
	return &Error{
		Phase:    PhaseCall,
		Kind:     KindUseAfterFree,
		Selector: selector,
		Detail:   fmt.Sprintf("message sent to deallocated object %s", handle),
	}
}

// ForeignException wraps an Objective-C exception caught at the boundary.
func ForeignException(name, reason string) *Error {
	return &Error{
		Phase:  PhaseException,
		Kind:   KindForeignException,
		Symbol: name,
		Detail: reason,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Load reports a failure to load or bind the foreign runtime library.
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindLoadFailed,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
