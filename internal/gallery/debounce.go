package gallery

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet interval a scroll burst must settle for
const DefaultDebounce = 20 * time.Millisecond

// Debouncer collapses a burst of notifications into one call.
// It owns at most one pending timer; each Notify replaces it.
type Debouncer struct {
	wait time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64 // Bumped on every Notify/Stop so a timer that already fired can tell it is stale
}

// NewDebouncer creates a debouncer with the given quiet interval
func NewDebouncer(wait time.Duration) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{wait: wait}
}

// Notify schedules fn after the quiet interval, cancelling any pending call
func (d *Debouncer) Notify(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		current := gen == d.gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()

		if current {
			fn()
		}
	})
}

// Stop cancels the pending call, if any
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
