package objc

import (
	"go.uber.org/zap"

	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/errors"
)

// Pool is the capability proving an autorelease pool is active. Every
// operation that can yield a pool-scoped reference takes a *Pool argument,
// making the dependency visible in the signature instead of hiding it in
// thread-local state.
//
// Pools are created by WithPool and drained when its body returns. A Pool
// must not be stored past its body, shared across goroutines, or drained
// out of order with a nested pool; the first two are rejected at use time
// (every access checks the pool is still live), the last is detected by the
// runtime and is fatal.
type Pool struct {
	rt      objr.Runtime
	token   objr.PoolToken
	assumed bool
	drained bool
}

// WithPool pushes an autorelease pool, invokes body with the live token,
// and drains the pool on every exit path, including panics. Nesting is
// legal: an inner WithPool drains before the outer one, preserving the
// runtime's LIFO pool discipline.
//
// Autoreleased references obtained with the token become unusable the
// moment body returns; retain them into Strong references to keep them.
func WithPool(rt objr.Runtime, body func(pool *Pool) error) error {
	pool := &Pool{rt: rt, token: rt.PoolPush()}
	Logger().Debug("pool push", zap.Uint64("token", uint64(pool.token)))
	defer pool.drain()
	return body(pool)
}

// AssumePool constructs a pool token without pushing a pool, for call sites
// that know a pool is already active but cannot reach its token (callbacks
// invoked by the foreign runtime, for example).
//
// This is trusted: if no pool is actually active, autoreleased references
// vouched for by this token leak or dangle. The returned token never drains.
func AssumePool(rt objr.Runtime) *Pool {
	return &Pool{rt: rt, assumed: true}
}

func (p *Pool) drain() {
	if p.drained || p.assumed {
		return
	}
	p.drained = true
	Logger().Debug("pool drain", zap.Uint64("token", uint64(p.token)))
	p.rt.PoolPop(p.token)
}

// Runtime returns the runtime this pool was pushed on.
func (p *Pool) Runtime() objr.Runtime {
	return p.rt
}

// Drained reports whether the pool's scope has exited.
func (p *Pool) Drained() bool {
	return p.drained
}

// require panics unless p is a live pool token. Autoreleased references
// call this on every access, so use-after-drain fails here instead of in
// the foreign runtime.
func (p *Pool) require() {
	if p == nil {
		panic(errors.NilHandle(errors.PhasePool, "operation requires an active autorelease pool token"))
	}
	if p.drained {
		panic(errors.PoolDrained("pool token used after its scope exited"))
	}
}
