package search

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	commits []string
}

func (r *recorder) commit(text string) {
	r.mu.Lock()
	r.commits = append(r.commits, text)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commits...)
}

func TestDebounceBurstCommitsOnce(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(60*time.Millisecond, rec.commit)
	defer d.Stop()

	// Keystrokes all inside the settle window: only the last survives.
	for _, text := range []string{"d", "de", "dem", "demon"} {
		d.Type(text)
		time.Sleep(10 * time.Millisecond)
	}

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("committed %v before the settle window elapsed", got)
	}

	time.Sleep(120 * time.Millisecond)
	got := rec.snapshot()
	if len(got) != 1 || got[0] != "demon" {
		t.Fatalf("commits = %v, want exactly [demon]", got)
	}
}

func TestDebounceSeparateBursts(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.commit)
	defer d.Stop()

	d.Type("naruto")
	time.Sleep(80 * time.Millisecond)
	d.Type("bleach")
	time.Sleep(80 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 2 || got[0] != "naruto" || got[1] != "bleach" {
		t.Fatalf("commits = %v, want [naruto bleach]", got)
	}
}

func TestDebounceStop(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.commit)

	d.Type("never")
	d.Stop()
	time.Sleep(80 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("commits after Stop() = %v, want none", got)
	}
	if d.Text() != "never" {
		t.Errorf("Text() = %q, want the raw input to survive", d.Text())
	}
}
