package answer

import "testing"

func TestAvailable(t *testing.T) {
	a := Available("give oxygen")
	if !a.IsAvailable() {
		t.Fatal("expected available")
	}
	if p := a.Ptr(); p == nil || *p != "give oxygen" {
		t.Errorf("unexpected ptr %v", p)
	}
}

func TestUnavailable(t *testing.T) {
	a := Unavailable("timeout")
	if a.IsAvailable() {
		t.Fatal("expected unavailable")
	}
	if a.Ptr() != nil {
		t.Error("expected nil ptr")
	}
	if a.Reason() != "timeout" {
		t.Errorf("unexpected reason %q", a.Reason())
	}
}

func TestZeroValue_IsUnavailable(t *testing.T) {
	var a Answer
	if a.IsAvailable() || a.Ptr() != nil {
		t.Error("zero value should be unavailable")
	}
}
