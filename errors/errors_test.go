package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseResolve,
				Kind:   KindUnknownClass,
				Group:  "foundation",
				Symbol: "NSDtae",
				Detail: "class not registered",
			},
			contains: []string{"[resolve]", "unknown_class", "group foundation", "symbol NSDtae", "class not registered"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhasePool,
				Kind:  KindPoolDrained,
			},
			contains: []string{"[pool]", "pool_drained"},
		},
		{
			name: "error with selector and cause",
			err: &Error{
				Phase:    PhaseCall,
				Kind:     KindUseAfterFree,
				Selector: "description",
				Detail:   "message sent to deallocated object",
				Cause:    errors.New("underlying error"),
			},
			contains: []string{"[call]", "use_after_free", "in description", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindLoadFailed,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnknownClass,
		Group:  "foundation",
		Symbol: "NSFoo",
	}

	// Same phase and kind match regardless of other fields
	if !errors.Is(err, &Error{Phase: PhaseResolve, Kind: KindUnknownClass}) {
		t.Error("expected match on phase+kind")
	}

	// Different kind does not match
	if errors.Is(err, &Error{Phase: PhaseResolve, Kind: KindUnknownSelector}) {
		t.Error("unexpected match on different kind")
	}

	// Different phase does not match
	if errors.Is(err, &Error{Phase: PhaseCall, Kind: KindUnknownClass}) {
		t.Error("unexpected match on different phase")
	}

	// Non-Error target does not match
	if errors.Is(err, errors.New("plain")) {
		t.Error("unexpected match on plain error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("dlopen failed")
	err := New(PhaseResolve, KindUnknownSelector).
		Group("foundation").
		Symbol("dateByAddingTimeInterval:").
		Selector("dateByAddingTimeInterval:").
		Detail("runtime returned %v", 0).
		Cause(cause).
		Build()

	if err.Phase != PhaseResolve || err.Kind != KindUnknownSelector {
		t.Fatalf("builder lost phase/kind: %v / %v", err.Phase, err.Kind)
	}
	if err.Group != "foundation" {
		t.Errorf("Group = %q", err.Group)
	}
	if err.Symbol != "dateByAddingTimeInterval:" {
		t.Errorf("Symbol = %q", err.Symbol)
	}
	if err.Detail != "runtime returned 0" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if !errors.Is(err, &Error{Phase: PhaseResolve, Kind: KindUnknownSelector}) {
		t.Error("built error does not match phase+kind")
	}
	if !errors.Is(err, cause) {
		t.Error("built error does not unwrap to cause")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
	}{
		{"UnknownClass", UnknownClass("g", "NSFoo"), PhaseResolve, KindUnknownClass},
		{"UnknownSelector", UnknownSelector("g", "foo:"), PhaseResolve, KindUnknownSelector},
		{"InternFailed", InternFailed("g", "lit"), PhaseResolve, KindInternFailed},
		{"PoolDrained", PoolDrained("x"), PhasePool, KindPoolDrained},
		{"PoolOrder", PoolOrder("x"), PhasePool, KindPoolOrder},
		{"DoubleRelease", DoubleRelease("0x1"), PhaseOwnership, KindDoubleRelease},
		{"Consumed", Consumed("strong reference"), PhaseOwnership, KindConsumed},
		{"NilHandle", NilHandle(PhaseConvert, "x"), PhaseConvert, KindNilHandle},
		{"UseAfterFree", UseAfterFree("0x1", "init"), PhaseCall, KindUseAfterFree},
		{"ForeignException", ForeignException("NSRangeException", "index out of bounds"), PhaseException, KindForeignException},
		{"Unsupported", Unsupported(PhaseException, "x"), PhaseException, KindUnsupported},
		{"Load", Load("dlopen", errors.New("no such file")), PhaseLoad, KindLoadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(PhaseCall, KindForeignException, cause, "while sending description")

	if !errors.Is(err, cause) {
		t.Error("wrapped error does not match cause")
	}
	if !strings.Contains(err.Error(), "while sending description") {
		t.Errorf("detail missing from %q", err.Error())
	}
}
