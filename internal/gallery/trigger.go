package gallery

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPrefetchRows is how close to the bottom (in rows) the viewport must get before loading more
const DefaultPrefetchRows = 10

// Viewport describes the visible window over the rendered content, in rows
type Viewport struct {
	Offset  int // First visible row
	Visible int // Rows that fit on screen
	Total   int // Rows of content
}

// Remaining returns the number of content rows below the visible window
func (v Viewport) Remaining() int {
	r := v.Total - (v.Offset + v.Visible)
	if r < 0 {
		return 0
	}
	return r
}

// Loader is the part of the controller the trigger drives
type Loader interface {
	CanLoad() bool
	LoadNext(ctx context.Context) Result
}

// Observer receives the result of every load the trigger starts
type Observer interface {
	OnLoad(result Result)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Result)

// OnLoad calls f
func (f ObserverFunc) OnLoad(result Result) { f(result) }

// ScrollTrigger turns scroll movement into LoadNext calls.
// Scroll positions are debounced; only the last position of a burst is evaluated.
type ScrollTrigger struct {
	loader    Loader
	threshold int
	debouncer *Debouncer
	observer  Observer
	logger    *slog.Logger

	mu       sync.Mutex
	attached bool
}

// NewScrollTrigger creates a detached trigger
func NewScrollTrigger(loader Loader, threshold int, quiet time.Duration, observer Observer, logger *slog.Logger) *ScrollTrigger {
	if logger == nil {
		logger = slog.Default()
	}
	// A threshold of 0 could never be met: Remaining is never negative
	if threshold < 1 {
		threshold = DefaultPrefetchRows
	}
	return &ScrollTrigger{
		loader:    loader,
		threshold: threshold,
		debouncer: NewDebouncer(quiet),
		observer:  observer,
		logger:    logger,
	}
}

// Attach starts listening for scroll positions. The returned function detaches.
func (t *ScrollTrigger) Attach() (detach func()) {
	t.mu.Lock()
	t.attached = true
	t.mu.Unlock()
	return t.Detach
}

// Detach stops listening and drops any pending evaluation.
// A load already in flight still completes and is reported.
func (t *ScrollTrigger) Detach() {
	t.mu.Lock()
	t.attached = false
	t.mu.Unlock()
	t.debouncer.Stop()
}

// Attached reports whether the trigger is listening
func (t *ScrollTrigger) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attached
}

// Notify records a new scroll position
func (t *ScrollTrigger) Notify(vp Viewport) {
	if !t.Attached() {
		return
	}
	t.debouncer.Notify(func() { t.evaluate(vp) })
}

// NearBottom reports whether vp is within the prefetch threshold of the end of the content
func (t *ScrollTrigger) NearBottom(vp Viewport) bool {
	return vp.Remaining() < t.threshold
}

func (t *ScrollTrigger) evaluate(vp Viewport) {
	if !t.Attached() || !t.NearBottom(vp) || !t.loader.CanLoad() {
		return
	}

	t.logger.Debug("near bottom, loading next page", "remaining", vp.Remaining(), "threshold", t.threshold)

	// Loads are not cancelled on detach
	result := t.loader.LoadNext(context.Background())
	if result.Outcome == OutcomeSkipped {
		return
	}
	if t.observer != nil {
		t.observer.OnLoad(result)
	}
}
