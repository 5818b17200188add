package objc

import (
	"testing"

	"github.com/drewcrawford/objr/errors"
	"github.com/drewcrawford/objr/objctest"
)

func wantPanicKind(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic of kind %q", kind)
		}
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("panic value %v (%T), want *errors.Error", r, r)
		}
		if err.Kind != kind {
			t.Fatalf("panic kind %q, want %q", err.Kind, kind)
		}
	}()
	fn()
}

func TestStrongReleasesExactlyOnce(t *testing.T) {
	rt := objctest.New()
	h := rt.NewObject("NSObject", nil)

	s := AssumeRetained(rt, h)
	s.Release()

	if !rt.Deallocated(h) {
		t.Fatal("object not deallocated after Release")
	}
	if got := rt.Releases(h); got != 1 {
		t.Fatalf("releases = %d, want 1", got)
	}

	wantPanicKind(t, errors.KindDoubleRelease, s.Release)
}

func TestStrongUseAfterConsume(t *testing.T) {
	rt := objctest.New()
	h := rt.NewObject("NSObject", nil)

	s := AssumeRetained(rt, h)
	u := s.Leak()
	if u.Handle() != h {
		t.Fatalf("leaked handle %s, want %s", u.Handle(), h)
	}

	wantPanicKind(t, errors.KindConsumed, func() { s.Handle() })
	wantPanicKind(t, errors.KindConsumed, func() { s.Retain() })

	// The leaked reference is still live; clean up through it.
	u.Retain(rt).Release()
	rt.Release(h)
}

func TestStrongRetainDuplicates(t *testing.T) {
	rt := objctest.New()
	h := rt.NewObject("NSObject", nil)

	a := AssumeRetained(rt, h)
	b := a.Retain()

	if rt.RetainCount(h) != 2 {
		t.Fatalf("retain count = %d, want 2", rt.RetainCount(h))
	}

	a.Release()
	if rt.Deallocated(h) {
		t.Fatal("deallocated while a duplicate is still owned")
	}
	b.Release()
	if !rt.Deallocated(h) {
		t.Fatal("not deallocated after both owners released")
	}
}

func TestAssumeRetainedNilPanics(t *testing.T) {
	rt := objctest.New()
	wantPanicKind(t, errors.KindNilHandle, func() { AssumeRetained(rt, 0) })
}

func TestNilStrongReleaseIsNoop(t *testing.T) {
	var s *Strong
	s.Release()
}

func TestAutoreleasingDowngrade(t *testing.T) {
	rt := objctest.New()
	h := rt.NewObject("NSObject", nil)

	var a *Autoreleased
	err := WithPool(rt, func(pool *Pool) error {
		s := AssumeRetained(rt, h)
		a = s.Autoreleasing(pool)
		if a.Handle() != h {
			t.Fatalf("handle %s, want %s", a.Handle(), h)
		}

		// The Strong was consumed by the downgrade.
		wantPanicKind(t, errors.KindDoubleRelease, s.Release)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if !rt.Deallocated(h) {
		t.Fatal("pool drain did not release the downgraded reference")
	}
	wantPanicKind(t, errors.KindPoolDrained, func() { a.Handle() })
}

func TestAutoreleasedRetainUpgrade(t *testing.T) {
	rt := objctest.New()
	h := rt.NewObject("NSObject", nil)

	var s *Strong
	err := WithPool(rt, func(pool *Pool) error {
		rt.Autorelease(h)
		a := AssumeAutoreleased(h, pool)
		s = a.Retain()

		// Retain consumed the pool-scoped cell.
		wantPanicKind(t, errors.KindConsumed, func() { a.Handle() })
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	// The upgrade keeps the object alive past the pool drain.
	if rt.Deallocated(h) {
		t.Fatal("deallocated despite the retained upgrade")
	}
	if got := rt.Retains(h); got != 1 {
		t.Fatalf("retains = %d, want 1", got)
	}
	s.Release()
	if !rt.Deallocated(h) {
		t.Fatal("not deallocated after final release")
	}
}

func TestUpgradeThenLeakChargesOneRetain(t *testing.T) {
	rt := objctest.New()
	h := rt.NewObject("NSObject", nil)

	err := WithPool(rt, func(pool *Pool) error {
		rt.Autorelease(h)

		// PoolScoped -> Owned -> Unretained: one retain total, no release.
		u := AssumeAutoreleased(h, pool).Retain().Leak()
		if u.Handle() != h {
			t.Fatalf("handle %s, want %s", u.Handle(), h)
		}
		if got := rt.Retains(h); got != 1 {
			t.Fatalf("retains = %d, want 1", got)
		}
		if got := rt.Releases(h); got != 0 {
			t.Fatalf("releases = %d, want 0", got)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	// Pool drain consumed the pending autorelease; the leaked +1 remains.
	if rt.Deallocated(h) {
		t.Fatal("leaked reference should keep the object alive")
	}
	rt.Release(h)
	if !rt.Deallocated(h) {
		t.Fatal("not deallocated after the final release")
	}
}

func TestAutoreleasedBorrowDoesNotConsume(t *testing.T) {
	rt := objctest.New()
	h := rt.NewObject("NSObject", nil)
	defer rt.Release(h)

	err := WithPool(rt, func(pool *Pool) error {
		rt.Retain(h)
		rt.Autorelease(h)
		a := AssumeAutoreleased(h, pool)

		u := a.Borrow()
		if u.Handle() != h {
			t.Fatalf("borrowed %s, want %s", u.Handle(), h)
		}
		if a.Handle() != h {
			t.Fatal("Borrow consumed the receiver")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAssumeAutoreleasedNilPanics(t *testing.T) {
	rt := objctest.New()
	err := WithPool(rt, func(pool *Pool) error {
		wantPanicKind(t, errors.KindNilHandle, func() { AssumeAutoreleased(0, pool) })
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestUnretained(t *testing.T) {
	rt := objctest.New()

	var zero Unretained
	if !zero.IsNil() {
		t.Fatal("zero Unretained should be nil")
	}
	if zero.Retain(rt) != nil {
		t.Fatal("retaining nil should yield nil")
	}

	h := rt.NewObject("NSObject", nil)
	defer rt.Release(h)

	u := UnretainedHandle(h)
	if u.IsNil() || u.Handle() != h {
		t.Fatalf("unexpected view %s", u)
	}

	s := u.Retain(rt)
	if rt.RetainCount(h) != 2 {
		t.Fatalf("retain count = %d, want 2", rt.RetainCount(h))
	}
	s.Release()
}

func TestCellStrings(t *testing.T) {
	rt := objctest.New()
	h := rt.NewObject("NSObject", nil)

	s := AssumeRetained(rt, h)
	if s.String() == "" {
		t.Fatal("empty String()")
	}
	s.Leak()
	if got := s.String(); got != "Strong(consumed)" {
		t.Fatalf("String() after consume = %q", got)
	}
	var nilStrong *Strong
	if got := nilStrong.String(); got != "Strong(nil)" {
		t.Fatalf("nil String() = %q", got)
	}
	rt.Release(h)
}
