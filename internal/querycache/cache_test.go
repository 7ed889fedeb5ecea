package querycache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLookupCachesValue(t *testing.T) {
	c := New()
	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return "v1", nil
	}

	v, pending, err := c.Lookup("clips", true, fetch)
	if err != nil || pending || v != "v1" {
		t.Fatalf("Lookup() = (%v, %v, %v), want (v1, false, nil)", v, pending, err)
	}
	v, pending, _ = c.Lookup("clips", true, fetch)
	if v != "v1" || pending {
		t.Fatalf("second Lookup() = (%v, %v), want cached (v1, false)", v, pending)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestLookupDisabled(t *testing.T) {
	c := New()
	fetch := func() (interface{}, error) {
		t.Fatal("fetch must not run while disabled")
		return nil, nil
	}

	v, pending, err := c.Lookup("clips", false, fetch)
	if v != nil || !pending || err != nil {
		t.Errorf("disabled Lookup() = (%v, %v, %v), want (nil, true, nil)", v, pending, err)
	}

	// A stale value is still served while disabled, with pending set.
	c.Lookup("clips", true, func() (interface{}, error) { return "old", nil })
	c.Invalidate("clips")
	v, pending, _ = c.Lookup("clips", false, fetch)
	if v != "old" || !pending {
		t.Errorf("disabled stale Lookup() = (%v, %v), want (old, true)", v, pending)
	}
}

func TestLookupError(t *testing.T) {
	c := New()
	boom := errors.New("gateway rejected")
	_, _, err := c.Lookup("clips", true, func() (interface{}, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Lookup() error = %v, want %v", err, boom)
	}
	// A failed fetch stores nothing; the next lookup tries again.
	v, _, err := c.Lookup("clips", true, func() (interface{}, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Errorf("Lookup() after failure = (%v, %v), want (ok, nil)", v, err)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := New()
	calls := map[string]int{}
	lookup := func(key string) {
		c.Lookup(key, true, func() (interface{}, error) {
			calls[key]++
			return key, nil
		})
	}
	lookup("clips")
	lookup("clips/category/english")
	lookup("requests")

	c.Invalidate("clips")

	lookup("clips")
	lookup("clips/category/english")
	lookup("requests")
	if calls["clips"] != 2 || calls["clips/category/english"] != 2 {
		t.Errorf("invalidated keys refetched %d/%d times, want 2/2",
			calls["clips"], calls["clips/category/english"])
	}
	if calls["requests"] != 1 {
		t.Errorf("unrelated key refetched %d times, want 1", calls["requests"])
	}
}

func TestSingleFlight(t *testing.T) {
	c := New()
	var fetches int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Lookup("clips", true, func() (interface{}, error) {
				atomic.AddInt32(&fetches, 1)
				<-release
				return "v", nil
			})
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Errorf("concurrent lookups ran %d fetches, want 1", n)
	}
}

func TestSubscribeTransitions(t *testing.T) {
	c := New()
	var mu sync.Mutex
	var seen []State
	unsubscribe := c.Subscribe(func(key string, state State) {
		mu.Lock()
		seen = append(seen, state)
		mu.Unlock()
	})

	c.Lookup("clips", true, func() (interface{}, error) { return "v", nil })
	c.Invalidate("clips")

	mu.Lock()
	got := append([]State(nil), seen...)
	mu.Unlock()
	want := []State{StateLoading, StateSettled, StateInvalidated}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", got, want)
		}
	}

	unsubscribe()
	c.Lookup("requests", true, func() (interface{}, error) { return "v", nil })
	mu.Lock()
	n := len(seen)
	mu.Unlock()
	if n != len(want) {
		t.Errorf("unsubscribed subscriber still notified, %d notifications", n)
	}
}
