package search

import (
	"sync"
	"time"
)

// DefaultSettle is how long input must stay quiet before the search text
// commits.
const DefaultSettle = 300 * time.Millisecond

// Debouncer turns raw keystrokes into committed search text. Every
// keystroke replaces the pending timer, so a burst of typing commits once,
// one settle window after the last keystroke.
type Debouncer struct {
	mu     sync.Mutex
	settle time.Duration
	timer  *time.Timer
	raw    string
	commit func(text string)
}

// NewDebouncer wires commit to be called with the settled text. A
// non-positive settle falls back to DefaultSettle.
func NewDebouncer(settle time.Duration, commit func(text string)) *Debouncer {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Debouncer{settle: settle, commit: commit}
}

// Type records a keystroke. The previous pending commit, if any, is
// cancelled and a fresh settle window starts.
func (d *Debouncer) Type(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.raw = text
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.settle, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	text := d.raw
	commit := d.commit
	d.mu.Unlock()
	if commit != nil {
		commit(text)
	}
}

// Text returns the raw, uncommitted input.
func (d *Debouncer) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw
}

// Stop cancels any pending commit.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
