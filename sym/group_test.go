package sym

import (
	stderrors "errors"
	"sync"
	"testing"

	objr "github.com/drewcrawford/objr"
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

func TestClassResolvesOnceUnderContention(t *testing.T) {
	rt := objctest.New()
	g := NewGroup("test_contention")
	c := g.Class("NSDate")

	handles := make([]objr.Handle, 16)
	var wg sync.WaitGroup
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = c.Handle(rt)
		}(i)
	}
	wg.Wait()

	for _, h := range handles {
		if h != handles[0] || h.IsNil() {
			t.Fatalf("inconsistent handles: %v", handles)
		}
	}
	if got := rt.ClassLookups("NSDate"); got != 1 {
		t.Fatalf("class lookups = %d, want 1", got)
	}
	if !c.Resolved() {
		t.Fatal("class should report resolved")
	}
}

func TestUnknownClassStaysFailed(t *testing.T) {
	rt := objctest.New()
	g := NewGroup("test_unknown")
	c := g.Class("NSNoSuchClass")

	if _, err := c.TryHandle(rt); err == nil {
		t.Fatal("expected resolution error")
	}
	// Resolution fires at most once even when it fails; the declaration is
	// presumed statically wrong, not transiently unavailable.
	if _, err := c.TryHandle(rt); err == nil {
		t.Fatal("failure should be sticky")
	}
	if got := rt.ClassLookups("NSNoSuchClass"); got != 1 {
		t.Fatalf("class lookups = %d, want 1", got)
	}
	if c.Resolved() {
		t.Fatal("failed symbol should not report resolved")
	}

	wantPanicKind(t, errors.KindUnknownClass, func() { c.Handle(rt) })
}

func TestSelectorResolvesOnce(t *testing.T) {
	rt := objctest.New()
	g := NewGroup("test_selector")
	s := g.Selector("probeWithOptions:")

	h1 := s.Handle(rt)
	h2 := s.Handle(rt)
	if h1 != h2 || h1.IsNil() {
		t.Fatalf("handles %s, %s", h1, h2)
	}
	if got := rt.SelectorLookups("probeWithOptions:"); got != 1 {
		t.Fatalf("selector lookups = %d, want 1", got)
	}
}

func TestLiteralInternsOnce(t *testing.T) {
	rt := objctest.New()
	g := NewGroup("test_literal")
	l := g.Literal("com.example.domain")

	h1 := l.Handle(rt)
	h2 := l.Handle(rt)
	if h1 != h2 || h1.IsNil() {
		t.Fatalf("handles %s, %s", h1, h2)
	}
	if got := rt.StringInterns("com.example.domain"); got != 1 {
		t.Fatalf("string interns = %d, want 1", got)
	}

	// The interned object is immortal; it must not count as a leak.
	if rt.Live() != 0 {
		t.Fatalf("live = %d, want 0", rt.Live())
	}
}

func TestDeclarationsAreIdempotent(t *testing.T) {
	g := NewGroup("test_idempotent")
	if g.Class("NSObject") != g.Class("NSObject") {
		t.Fatal("redeclared class should be the same symbol")
	}
	if g.Selector("init") != g.Selector("init") {
		t.Fatal("redeclared selector should be the same symbol")
	}
	if g.Literal("x") != g.Literal("x") {
		t.Fatal("redeclared literal should be the same symbol")
	}
}

func TestDuplicateGroupPanics(t *testing.T) {
	NewGroup("test_duplicate")
	wantPanicKind(t, errors.KindUnsupported, func() { NewGroup("test_duplicate") })
}

func TestGroupResolveEager(t *testing.T) {
	rt := objctest.New()

	g := NewGroup("test_eager")
	g.Class("NSString")
	g.Selector("length")
	g.Literal("eager")
	if err := g.Resolve(rt); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	bad := NewGroup("test_eager_bad")
	bad.Class("NSNoSuchClass")
	err := bad.Resolve(rt)
	if err == nil {
		t.Fatal("expected resolution error")
	}
	if !stderrors.Is(err, errors.UnknownClass("", "")) {
		t.Fatalf("err = %v, want unknown class", err)
	}
}

func TestSnapshotAndLookup(t *testing.T) {
	rt := objctest.New()
	g := NewGroup("test_snapshot")
	g.Class("NSDate")
	sel := g.Selector("timeIntervalSince1970")
	sel.Handle(rt)

	var mine []Info
	for _, info := range Snapshot() {
		if info.Group == "test_snapshot" {
			mine = append(mine, info)
		}
	}
	if len(mine) != 2 {
		t.Fatalf("snapshot entries = %d, want 2", len(mine))
	}
	// Sorted by kind, then name: class before selector.
	if mine[0].Kind != KindClass || mine[0].Name != "NSDate" || mine[0].Resolved {
		t.Fatalf("unexpected first entry %+v", mine[0])
	}
	if mine[1].Kind != KindSelector || !mine[1].Resolved {
		t.Fatalf("unexpected second entry %+v", mine[1])
	}

	if got, ok := Lookup("test_snapshot"); !ok || got != g {
		t.Fatal("Lookup should find the declared group")
	}
	if _, ok := Lookup("test_never_declared"); ok {
		t.Fatal("Lookup should miss undeclared groups")
	}
}
