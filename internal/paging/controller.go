// Package paging drives incremental fetching of a paginated catalog query.
package paging

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// State of a controller
type State int

const (
	Idle State = iota
	Fetching
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// OffsetPolicy decides the start index of the next page
type OffsetPolicy int

const (
	// RunningTotal starts the next page after every item received so far
	RunningTotal OffsetPolicy = iota
	// PageMultiple uses len(last page) × pages fetched. A short page in the
	// middle of the sequence makes the next offset overlap or skip items.
	PageMultiple
)

// ParseOffsetPolicy reads the configuration spelling of a policy.
// Unknown values select RunningTotal.
func ParseOffsetPolicy(s string) OffsetPolicy {
	if s == "page-multiple" {
		return PageMultiple
	}
	return RunningTotal
}

// Fetcher executes one page request
type Fetcher func(ctx context.Context, d domain.PageDescriptor) (domain.ResultPage, error)

// ProgressFunc reports loaded and total item counts while draining
type ProgressFunc func(loaded, total int)

// Ticket is an in-flight page request. It is only honoured by Complete while
// the controller still serves the identity the ticket was issued for.
type Ticket struct {
	Request    domain.PageDescriptor
	generation uint64
}

// Controller tracks the pages of one query identity at a time.
// At most one page request is in flight; responses for a replaced
// identity are discarded.
type Controller struct {
	fetch  Fetcher
	policy OffsetPolicy
	logger *slog.Logger

	mu         sync.Mutex
	key        domain.QueryKey
	base       domain.PageDescriptor
	pages      []domain.ResultPage
	total      int
	state      State
	err        error
	generation uint64
	active     bool
}

// NewController creates a controller. It serves nothing until Reset.
func NewController(fetch Fetcher, policy OffsetPolicy, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{fetch: fetch, policy: policy, logger: logger}
}

// Reset switches to a new query identity, dropping accumulated pages and
// restarting at offset 0. Resetting to the current key is a no-op and
// reports false.
func (c *Controller) Reset(key domain.QueryKey, base domain.PageDescriptor) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active && c.key.Equal(key) {
		return false
	}

	c.key = append(domain.QueryKey(nil), key...)
	c.base = base.WithOffset(0)
	c.pages = nil
	c.total = 0
	c.state = Idle
	c.err = nil
	c.generation++
	c.active = true

	c.logger.Debug("pagination reset", "key", key.String(), "generation", c.generation)
	return true
}

// Begin claims the next page request. It fails unless the controller is Idle.
func (c *Controller) Begin() (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active || c.state != Idle {
		return Ticket{}, false
	}
	c.state = Fetching
	return Ticket{
		Request:    c.base.WithOffset(c.nextOffsetLocked()),
		generation: c.generation,
	}, true
}

// Complete delivers the outcome of a ticket. It returns false when the
// ticket is stale and the outcome was discarded.
func (c *Controller) Complete(t Ticket, page domain.ResultPage, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.generation != c.generation || c.state != Fetching {
		c.logger.Debug("discarding stale page", "generation", t.generation, "current", c.generation, "offset", t.Request.Offset)
		return false
	}

	if err != nil {
		c.state = Idle
		c.err = err
		c.logger.Warn("page fetch failed", "key", c.key.String(), "offset", t.Request.Offset, "error", err)
		return true
	}

	c.err = nil
	c.pages = append(c.pages, page)
	c.total = page.TotalRecordCount

	switch {
	case page.TotalRecordCount <= 0, len(page.Items) == 0, c.accumulatedLocked() >= page.TotalRecordCount:
		c.state = Exhausted
	default:
		c.state = Idle
	}
	return true
}

// FetchMore requests the next page and waits for it. It reports whether a
// page outcome was applied; a call while a request is in flight or after the
// query is exhausted does nothing.
func (c *Controller) FetchMore(ctx context.Context) (bool, error) {
	t, ok := c.Begin()
	if !ok {
		return false, nil
	}
	page, err := c.fetch(ctx, t.Request)
	if !c.Complete(t, page, err) {
		return false, nil
	}
	return true, err
}

// Drain fetches pages until the query is exhausted
func (c *Controller) Drain(ctx context.Context, onProgress ProgressFunc) error {
	for c.HasMore() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		applied, err := c.FetchMore(ctx)
		if err != nil {
			return err
		}
		if !applied {
			// Another caller holds the in-flight request or the identity changed
			return nil
		}
		if onProgress != nil {
			onProgress(len(c.Items()), c.Total())
		}
	}
	return nil
}

func (c *Controller) accumulatedLocked() int {
	n := 0
	for _, p := range c.pages {
		n += len(p.Items)
	}
	return n
}

func (c *Controller) nextOffsetLocked() int {
	if len(c.pages) == 0 {
		return 0
	}
	if c.policy == PageMultiple {
		return len(c.pages[len(c.pages)-1].Items) * len(c.pages)
	}
	return c.accumulatedLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HasMore reports whether another page may exist
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active && c.state != Exhausted
}

func (c *Controller) IsFetching() bool {
	return c.State() == Fetching
}

// IsLoading reports whether the first page is in flight
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Fetching && len(c.pages) == 0
}

// Items returns every item received so far, in page order
func (c *Controller) Items() []domain.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]domain.Item, 0, c.accumulatedLocked())
	for _, p := range c.pages {
		items = append(items, p.Items...)
	}
	return items
}

func (c *Controller) Pages() []domain.ResultPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ResultPage(nil), c.pages...)
}

// Total is the server-reported record count from the latest page
func (c *Controller) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// NextOffset is the start index the next Begin would request
func (c *Controller) NextOffset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextOffsetLocked()
}

// Err is the error of the last failed fetch, cleared by the next success or Reset
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) Key() domain.QueryKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(domain.QueryKey(nil), c.key...)
}
