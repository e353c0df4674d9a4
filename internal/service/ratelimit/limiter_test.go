package ratelimit

import "testing"

func TestAllowExhaustsCapacity(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		if !l.Allow("SPX", 3, 0) {
			t.Fatalf("token %d should be available", i)
		}
	}
	if l.Allow("SPX", 3, 0) {
		t.Fatal("bucket should be empty")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()

	if !l.Allow("SPX", 1, 0) {
		t.Fatal("first key should have a token")
	}
	if !l.Allow("NDX", 1, 0) {
		t.Fatal("second key should have its own bucket")
	}
	if l.Allow("SPX", 1, 0) {
		t.Fatal("first bucket should be empty")
	}
}

func TestForgetResetsBucket(t *testing.T) {
	l := New()

	l.Allow("SPX", 1, 0)
	if l.Allow("SPX", 1, 0) {
		t.Fatal("bucket should be empty")
	}
	l.Forget("SPX")
	if !l.Allow("SPX", 1, 0) {
		t.Fatal("forgotten bucket should start full")
	}
}
