package foundation

import (
	"math"

	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/objc"
)

// NewDate returns an owned NSDate initialized to the current time.
func NewDate(pool *objc.Pool) *objc.Strong {
	return AllocInit(ClassNSDate, pool)
}

// DateByAddingTimeInterval returns an owned NSDate offset from date by the
// given number of seconds, claimed from the autoreleased return.
func DateByAddingTimeInterval(date Reference, pool *objc.Pool, seconds float64) *objc.Strong {
	rt := pool.Runtime()
	raw := rt.Send(date.Handle(), selDateByAdding.Handle(rt),
		uintptr(math.Float64bits(seconds)))
	return objc.RetainAutoreleasedResult(objr.Handle(raw), pool)
}

// TimeIntervalSince1970 returns the date's offset from the Unix epoch in
// seconds.
func TimeIntervalSince1970(rt objr.Runtime, date Reference) float64 {
	return math.Float64frombits(uint64(rt.Send(date.Handle(), selTimeIntervalSince70.Handle(rt))))
}
