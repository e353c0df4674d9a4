package cache

import (
	"context"
	"testing"
	"time"
)

// fakeL2 serves a fixed value for every Get and counts the hits.
type fakeL2 struct {
	value []byte
	gets  int
}

func (f *fakeL2) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (f *fakeL2) Get(_ context.Context, _ string, dest interface{}) error {
	f.gets++
	return decodeInto(f.value, dest)
}

func (f *fakeL2) Delete(context.Context, ...string) error          { return nil }
func (f *fakeL2) DeleteByPattern(context.Context, string) error    { return nil }
func (f *fakeL2) Exists(context.Context, ...string) (bool, error)  { return false, nil }
func (f *fakeL2) Increment(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeL2) Expire(context.Context, string, time.Duration) (bool, error) {
	return false, nil
}
func (f *fakeL2) MSet(context.Context, map[string]interface{}, time.Duration) error { return nil }
func (f *fakeL2) MGet(context.Context, ...string) (map[string]string, error) {
	return map[string]string{}, nil
}
func (f *fakeL2) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (f *fakeL2) Unlock(context.Context, string) error                         { return nil }

func TestLayeredGetPromotesWithBoundedTTL(t *testing.T) {
	l2 := &fakeL2{value: []byte("0.42")}
	lc := &LayeredCache{
		mem:        NewMemoryCache(),
		l2:         l2,
		promoteTTL: time.Minute,
	}
	defer lc.mem.Close()
	ctx := context.Background()

	var got string
	if err := lc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "0.42" {
		t.Fatalf("got %q want %q", got, "0.42")
	}

	// The promoted copy must carry the short promotion TTL, not the
	// memory backend's long default.
	e, ok := lc.mem.entries["k"]
	if !ok {
		t.Fatal("hit was not promoted into the memory layer")
	}
	if limit := time.Now().Add(2 * time.Minute); e.expireAt.After(limit) {
		t.Fatalf("promoted entry expires at %v, beyond %v", e.expireAt, limit)
	}

	// Second read is served locally.
	var again string
	if err := lc.Get(ctx, "k", &again); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again != "0.42" {
		t.Fatalf("promoted read got %q want %q", again, "0.42")
	}
	if l2.gets != 1 {
		t.Fatalf("l2 gets = %d, want 1", l2.gets)
	}
}
