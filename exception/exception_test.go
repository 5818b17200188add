package exception

import (
	stderrors "errors"
	"testing"

	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/errors"
	"github.com/drewcrawford/objr/objctest"
)

func TestCatchTrapsSimulatedException(t *testing.T) {
	rt := objctest.New()

	err := Catch(rt, func() {
		rt.Raise("NSRangeException", "index 9 beyond bounds [0 .. 3]")
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !stderrors.Is(err, errors.ForeignException("", "")) {
		t.Fatalf("err = %v, want foreign exception", err)
	}

	var fe *errors.Error
	if !stderrors.As(err, &fe) {
		t.Fatalf("err %T is not *errors.Error", err)
	}
	if fe.Symbol != "NSRangeException" {
		t.Fatalf("exception name = %q", fe.Symbol)
	}
}

func TestCatchPassesCleanRuns(t *testing.T) {
	rt := objctest.New()

	ran := false
	if err := Catch(rt, func() { ran = true }); err != nil {
		t.Fatalf("Catch: %v", err)
	}
	if !ran {
		t.Fatal("body did not run")
	}
}

func TestCatchLetsGoPanicsThrough(t *testing.T) {
	rt := objctest.New()

	defer func() {
		if recover() == nil {
			t.Fatal("Go panic should propagate through Catch")
		}
	}()
	_ = Catch(rt, func() { panic("plain Go panic") })
}

// bareRuntime cannot trap; Catch must degrade to an unprotected run.
type bareRuntime struct {
	objr.Runtime
}

func TestCatchDegradesWithoutTrapper(t *testing.T) {
	rt := bareRuntime{objctest.New()}

	if Supported(rt) {
		t.Fatal("embedding should not leak Trapper through the interface")
	}
	ran := false
	if err := Catch(rt, func() { ran = true }); err != nil {
		t.Fatalf("Catch: %v", err)
	}
	if !ran {
		t.Fatal("body did not run unprotected")
	}
}

func TestSupported(t *testing.T) {
	if !Supported(objctest.New()) {
		t.Fatal("simulated runtime should support trapping")
	}
}
