package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// DefaultPageSize matches the page size the photo feed has always been requested with
const DefaultPageSize = 15

// Record is anything the controller can deduplicate by identifier
type Record interface {
	GetID() string
}

// PageFetcher loads one page of records. page is 1-based.
type PageFetcher[T Record] interface {
	FetchPage(ctx context.Context, page, perPage int) ([]T, error)
}

// PageFetcherFunc adapts a plain function to PageFetcher
type PageFetcherFunc[T Record] func(ctx context.Context, page, perPage int) ([]T, error)

// FetchPage calls f
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, page, perPage int) ([]T, error) {
	return f(ctx, page, perPage)
}

// Outcome describes what a LoadNext call did
type Outcome int

const (
	// OutcomeSkipped means a load was already in flight or the feed is exhausted; nothing was requested
	OutcomeSkipped Outcome = iota
	// OutcomeAppended means a non-empty page was merged and the cursor advanced.
	// Added may be zero when every record on the page was already loaded.
	OutcomeAppended
	// OutcomeExhausted means the page was empty; no further pages will be requested
	OutcomeExhausted
	// OutcomeFailed means the request failed; the same page will be requested on retry
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeAppended:
		return "appended"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports a single LoadNext call
type Result struct {
	Outcome Outcome
	Page    int   // Page that was requested (0 when skipped)
	Added   int   // Records appended
	Err     error // Same value recorded as the state's LastError on failure
}

// State is a point-in-time view of the pagination state.
// Items shares storage with the controller and must not be modified.
type State[T Record] struct {
	Items       []T
	Cursor      int
	IsLoading   bool
	IsExhausted bool
	LastError   error
}

// Controller owns the accumulated record set and the pagination cursor.
// All mutation goes through LoadNext; readers take snapshots.
type Controller[T Record] struct {
	fetcher  PageFetcher[T]
	pageSize int
	logger   *slog.Logger

	mu        sync.Mutex
	items     []T
	seen      map[string]struct{}
	cursor    int
	loading   bool
	exhausted bool
	lastErr   error
}

// NewController creates a controller positioned at page 1
func NewController[T Record](fetcher PageFetcher[T], pageSize int, logger *slog.Logger) *Controller[T] {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller[T]{
		fetcher:  fetcher,
		pageSize: pageSize,
		logger:   logger,
		seen:     make(map[string]struct{}),
		cursor:   1,
	}
}

// PageSize returns the fixed number of records requested per page
func (c *Controller[T]) PageSize() int {
	return c.pageSize
}

// LoadNext requests the page at the cursor and merges it into the record set.
// It is a no-op while another load is in flight or once the feed is exhausted,
// so it is safe to call from any number of goroutines.
func (c *Controller[T]) LoadNext(ctx context.Context) Result {
	page, ok := c.begin()
	if !ok {
		return Result{Outcome: OutcomeSkipped}
	}
	defer c.release()

	c.logger.Debug("loading page", "page", page, "perPage", c.pageSize)

	records, err := c.fetch(ctx, page)
	return c.apply(page, records, err)
}

// begin checks the guard and marks a load in flight
func (c *Controller[T]) begin() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading || c.exhausted {
		return 0, false
	}
	c.loading = true
	c.lastErr = nil
	return c.cursor, true
}

// release clears the in-flight flag. Deferred so it runs on every exit path.
func (c *Controller[T]) release() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

// fetch calls the fetcher, turning a panic into an ordinary failure
func (c *Controller[T]) fetch(ctx context.Context, page int) (records []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d fetch panicked: %v", page, r)
		}
	}()
	return c.fetcher.FetchPage(ctx, page, c.pageSize)
}

func (c *Controller[T]) apply(page int, records []T, err error) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = err
		c.logger.Error("failed to load page", "page", page, "error", err)
		return Result{Outcome: OutcomeFailed, Page: page, Err: err}
	}

	added := 0
	for _, record := range records {
		id := record.GetID()
		if _, dup := c.seen[id]; dup {
			continue
		}
		c.seen[id] = struct{}{}
		c.items = append(c.items, record)
		added++
	}

	if len(records) == 0 {
		c.exhausted = true
		c.logger.Info("photo feed exhausted", "page", page, "total", len(c.items))
		return Result{Outcome: OutcomeExhausted, Page: page}
	}

	// A page of already-seen records still advances: the live feed shifts as photos are published
	if added == 0 {
		c.logger.Info("page held only known records", "page", page, "received", len(records))
	}

	c.cursor++
	c.logger.Debug("loaded page", "page", page, "received", len(records), "added", added, "total", len(c.items))
	return Result{Outcome: OutcomeAppended, Page: page, Added: added}
}

// Snapshot returns the current state for rendering
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State[T]{
		Items:       slices.Clip(c.items),
		Cursor:      c.cursor,
		IsLoading:   c.loading,
		IsExhausted: c.exhausted,
		LastError:   c.lastErr,
	}
}

// CanLoad reports whether a LoadNext call would issue a request right now
func (c *Controller[T]) CanLoad() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.loading && !c.exhausted
}

// Len returns the number of accumulated records
func (c *Controller[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
