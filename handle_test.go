package objr

import "testing"

func TestHandleString(t *testing.T) {
	if got := Handle(0).String(); got != "<nil>" {
		t.Fatalf("nil handle = %q", got)
	}
	if got := Handle(0x10a0).String(); got != "0x10a0" {
		t.Fatalf("handle = %q", got)
	}
}

func TestHandleRawRoundTrip(t *testing.T) {
	h := HandleFromRaw(0xdeadbeef)
	if h.IsNil() {
		t.Fatal("non-zero handle reported nil")
	}
	if h.Raw() != 0xdeadbeef {
		t.Fatalf("raw = %#x", h.Raw())
	}
	if !Handle(0).IsNil() {
		t.Fatal("zero handle should be nil")
	}
}
