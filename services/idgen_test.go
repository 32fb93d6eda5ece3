package services

import "testing"

func TestMaxPlusOne(t *testing.T) {
	var gen MaxPlusOne

	if got := gen.NextID(nil); got != 1 {
		t.Errorf("empty set: got %d, want 1", got)
	}
	if got := gen.NextID([]uint{3, 7, 2}); got != 8 {
		t.Errorf("got %d, want 8", got)
	}
	// Gaps are never reused.
	if got := gen.NextID([]uint{1, 5}); got != 6 {
		t.Errorf("got %d, want 6", got)
	}
}

func TestDefaultPoolName(t *testing.T) {
	if got := DefaultPoolName(MaxPlusOne{}, nil); got != "pool-1" {
		t.Errorf("got %q, want pool-1", got)
	}
	if got := DefaultPoolName(MaxPlusOne{}, []uint{2, 9}); got != "pool-10" {
		t.Errorf("got %q, want pool-10", got)
	}
}
