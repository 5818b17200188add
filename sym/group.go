package sym

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	objr "github.com/drewcrawford/objr"
	"github.com/drewcrawford/objr/errors"
)

// Process-wide group table. Groups are declared once (package init,
// typically) and live for the process; entries only ever move from
// unresolved to resolved.
var (
	groupsMu sync.RWMutex
	groups   = make(map[string]*Group)
)

// Group is a named namespace of symbols declared together, usually one per
// package of bindings. Declaring a symbol is cheap and performs no foreign
// work; each symbol resolves its runtime handle lazily, exactly once, on
// first use.
type Group struct {
	name string

	mu        sync.Mutex
	classes   map[string]*Class
	selectors map[string]*Selector
	literals  map[string]*Literal
}

// NewGroup declares a symbol group. Group names are process-unique;
// redeclaring one is a configuration error and panics.
func NewGroup(name string) *Group {
	groupsMu.Lock()
	defer groupsMu.Unlock()
	if _, ok := groups[name]; ok {
		panic(errors.New(errors.PhaseResolve, errors.KindUnsupported).
			Group(name).Detail("symbol group declared twice").Build())
	}
	g := &Group{
		name:      name,
		classes:   make(map[string]*Class),
		selectors: make(map[string]*Selector),
		literals:  make(map[string]*Literal),
	}
	groups[name] = g
	return g
}

// Name returns the group's name.
func (g *Group) Name() string {
	return g.name
}

// Class declares a class symbol. Declaring the same name twice returns the
// same *Class.
func (g *Group) Class(name string) *Class {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.classes[name]; ok {
		return c
	}
	c := &Class{group: g, name: name}
	g.classes[name] = c
	return c
}

// Selector declares a selector symbol. Declaring the same name twice
// returns the same *Selector.
func (g *Group) Selector(name string) *Selector {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.selectors[name]; ok {
		return s
	}
	s := &Selector{group: g, name: name}
	g.selectors[name] = s
	return s
}

// Literal declares an interned string symbol. Declaring the same literal
// twice returns the same *Literal.
func (g *Group) Literal(value string) *Literal {
	g.mu.Lock()
	defer g.mu.Unlock()
	if l, ok := g.literals[value]; ok {
		return l
	}
	l := &Literal{group: g, value: value}
	g.literals[value] = l
	return l
}

// Resolve eagerly resolves every symbol declared in the group, returning
// the first failure. Useful at startup to surface misdeclared bindings
// before first use, and by diagnostic tooling.
func (g *Group) Resolve(rt objr.Runtime) error {
	for _, s := range g.snapshot() {
		if _, err := s.resolve(rt); err != nil {
			return err
		}
	}
	return nil
}

// slot is the shared one-shot resolution guard: unresolved until the single
// foreign lookup stores a handle. A zero stored value after the guard fired
// means resolution failed and stays failed; the program's declarations are
// presumed statically wrong.
type slot struct {
	once sync.Once
	h    atomic.Uintptr
}

func (s *slot) resolve(lookup func() objr.Handle) objr.Handle {
	s.once.Do(func() {
		s.h.Store(uintptr(lookup()))
	})
	return objr.Handle(s.h.Load())
}

func (s *slot) resolved() bool {
	return s.h.Load() != 0
}

// Class is a declared class symbol.
type Class struct {
	group *Group
	name  string
	slot  slot
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Resolved reports whether the symbol has successfully resolved.
func (c *Class) Resolved() bool { return c.slot.resolved() }

// TryHandle resolves the class, performing the foreign lookup at most once
// process-wide, and returns an error if the class is unknown to the runtime.
func (c *Class) TryHandle(rt objr.Runtime) (objr.Handle, error) {
	h := c.slot.resolve(func() objr.Handle { return rt.LookUpClass(c.name) })
	if h.IsNil() {
		return 0, errors.UnknownClass(c.group.name, c.name)
	}
	return h, nil
}

// Handle resolves the class. An unknown class name is a fatal configuration
// error: it is logged and panics. Use TryHandle to probe.
func (c *Class) Handle(rt objr.Runtime) objr.Handle {
	h, err := c.TryHandle(rt)
	if err != nil {
		objr.Logger().Error("class resolution failed",
			zap.String("group", c.group.name),
			zap.String("class", c.name))
		panic(err)
	}
	return h
}

// Selector is a declared selector symbol.
type Selector struct {
	group *Group
	name  string
	slot  slot
}

// Name returns the selector name.
func (s *Selector) Name() string { return s.name }

// Resolved reports whether the symbol has successfully resolved.
func (s *Selector) Resolved() bool { return s.slot.resolved() }

// TryHandle interns the selector, performing the foreign registration at
// most once process-wide.
func (s *Selector) TryHandle(rt objr.Runtime) (objr.Handle, error) {
	h := s.slot.resolve(func() objr.Handle { return rt.RegisterSelector(s.name) })
	if h.IsNil() {
		return 0, errors.UnknownSelector(s.group.name, s.name)
	}
	return h, nil
}

// Handle interns the selector, panicking on failure. Selector registration
// only fails if the runtime itself is broken.
func (s *Selector) Handle(rt objr.Runtime) objr.Handle {
	h, err := s.TryHandle(rt)
	if err != nil {
		objr.Logger().Error("selector resolution failed",
			zap.String("group", s.group.name),
			zap.String("selector", s.name))
		panic(err)
	}
	return h
}

// Literal is a declared interned-string symbol. The resolved object is
// immortal: created once at +1 and never released.
type Literal struct {
	group *Group
	value string
	slot  slot
}

// Value returns the literal's contents.
func (l *Literal) Value() string { return l.value }

// Resolved reports whether the symbol has successfully resolved.
func (l *Literal) Resolved() bool { return l.slot.resolved() }

// TryHandle materializes the interned string, at most once process-wide.
func (l *Literal) TryHandle(rt objr.Runtime) (objr.Handle, error) {
	h := l.slot.resolve(func() objr.Handle { return rt.InternString(l.value) })
	if h.IsNil() {
		return 0, errors.InternFailed(l.group.name, l.value)
	}
	return h, nil
}

// Handle materializes the interned string, panicking on failure.
func (l *Literal) Handle(rt objr.Runtime) objr.Handle {
	h, err := l.TryHandle(rt)
	if err != nil {
		objr.Logger().Error("string intern failed",
			zap.String("group", l.group.name),
			zap.String("literal", l.value))
		panic(err)
	}
	return h
}

// SymbolKind distinguishes the three symbol flavors in registry snapshots.
type SymbolKind string

const (
	KindClass    SymbolKind = "class"
	KindSelector SymbolKind = "selector"
	KindLiteral  SymbolKind = "literal"
)

// Info describes one declared symbol's state for diagnostics.
type Info struct {
	Group    string
	Kind     SymbolKind
	Name     string
	Resolved bool
}

type resolvable struct {
	info    Info
	resolve func(objr.Runtime) (objr.Handle, error)
}

func (g *Group) snapshot() []resolvable {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []resolvable
	for _, c := range g.classes {
		c := c
		out = append(out, resolvable{
			info:    Info{Group: g.name, Kind: KindClass, Name: c.name, Resolved: c.Resolved()},
			resolve: c.TryHandle,
		})
	}
	for _, s := range g.selectors {
		s := s
		out = append(out, resolvable{
			info:    Info{Group: g.name, Kind: KindSelector, Name: s.name, Resolved: s.Resolved()},
			resolve: s.TryHandle,
		})
	}
	for _, l := range g.literals {
		l := l
		out = append(out, resolvable{
			info:    Info{Group: g.name, Kind: KindLiteral, Name: l.value, Resolved: l.Resolved()},
			resolve: l.TryHandle,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].info, out[j].info
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Name < b.Name
	})
	return out
}

// Snapshot reports every declared symbol across all groups, sorted by
// group, kind, and name. It performs no resolution.
func Snapshot() []Info {
	groupsMu.RLock()
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	groupsMu.RUnlock()
	sort.Strings(names)

	var out []Info
	for _, name := range names {
		groupsMu.RLock()
		g := groups[name]
		groupsMu.RUnlock()
		for _, r := range g.snapshot() {
			out = append(out, r.info)
		}
	}
	return out
}

// Lookup returns a declared group by name.
func Lookup(name string) (*Group, bool) {
	groupsMu.RLock()
	defer groupsMu.RUnlock()
	g, ok := groups[name]
	return g, ok
}
