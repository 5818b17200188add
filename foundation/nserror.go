package foundation

import (
	"fmt"

	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/objc"
)

// Error is a Go view of an NSError, detached from the runtime object so it
// can outlive the pool scope it was read in. It implements the error
// interface.
type Error struct {
	Code        int64
	Domain      string
	Description string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Domain, e.Code, e.Description)
}

// ErrorCode returns [err code].
func ErrorCode(rt objr.Runtime, err Reference) int64 {
	return int64(rt.Send(err.Handle(), selCode.Handle(rt)))
}

// ErrorDomain returns the error's domain as a Go string.
func ErrorDomain(err Reference, pool *objc.Pool) string {
	rt := pool.Runtime()
	raw := rt.Send(err.Handle(), selDomain.Handle(rt))
	domain := objc.RetainAutoreleasedResult(objr.Handle(raw), pool)
	if domain == nil {
		return ""
	}
	defer domain.Release()
	return GoString(domain, pool)
}

// LocalizedDescription returns the error's localized description as a Go
// string.
func LocalizedDescription(err Reference, pool *objc.Pool) string {
	rt := pool.Runtime()
	raw := rt.Send(err.Handle(), selLocalizedDescription.Handle(rt))
	desc := objc.RetainAutoreleasedResult(objr.Handle(raw), pool)
	if desc == nil {
		return ""
	}
	defer desc.Release()
	return GoString(desc, pool)
}

// WrapError reads an NSError's code, domain, and localized description into
// a detached Error. Returns nil if err is nil.
func WrapError(err Reference, pool *objc.Pool) *Error {
	if err == nil || err.Handle().IsNil() {
		return nil
	}
	return &Error{
		Code:        ErrorCode(pool.Runtime(), err),
		Domain:      ErrorDomain(err, pool),
		Description: LocalizedDescription(err, pool),
	}
}
