package listing

import (
	"context"
	"strings"
	"sync"
)

// Controller holds one view over a Collection: the current QueryState, the
// ResultState derived from it and the event stream describing what happened.
//
// Every derivation takes a generation number and cancels the context of the
// one before it. A result is applied only if its generation is still the
// newest, so a slow response can never overwrite a newer one.
//
// Setters do not debounce. Callers feeding SetSearch from keystrokes should
// wrap it in a Debouncer (see SearchDebounce).
type Controller[T Record] struct {
	coll *Collection[T]

	mu       sync.Mutex
	query    QueryState
	lastGood QueryState
	state    ResultState[T]
	loaded   bool
	gen      uint64
	cancel   context.CancelFunc

	events emitter
}

// NewController starts at q (normalized). Nothing is loaded until the first
// call that derives, typically Refresh.
func NewController[T Record](coll *Collection[T], q QueryState) *Controller[T] {
	q = q.Normalize()
	return &Controller[T]{
		coll:     coll,
		query:    q,
		lastGood: q,
		state: ResultState[T]{
			Items:       []T{},
			CurrentPage: q.Page,
			PageSize:    q.PageSize,
			TotalPages:  1,
		},
	}
}

// SetSearch replaces the search term and returns to page 1. Surrounding
// whitespace is trimmed, so "  laptop " and "laptop" are the same search and
// a blank term clears it.
func (c *Controller[T]) SetSearch(ctx context.Context, term string) ResultState[T] {
	next := c.Query()
	term = strings.TrimSpace(term)
	if c.settled() && term == next.Search {
		return c.State()
	}
	next.Search = term
	next.Page = 1
	return c.apply(ctx, next, false)
}

// SetFilters merges partial into the filters and returns to page 1. An empty
// value removes that filter.
func (c *Controller[T]) SetFilters(ctx context.Context, partial map[string]string) ResultState[T] {
	cur := c.Query()
	next := cur.WithFilters(partial)
	if c.settled() && filtersEqual(cur, next) {
		return c.State()
	}
	next.Page = 1
	return c.apply(ctx, next, false)
}

// SetOrdering replaces the ordering. The page is kept.
func (c *Controller[T]) SetOrdering(ctx context.Context, field string, dir Direction) ResultState[T] {
	next := c.Query()
	next.Ordering = Ordering{Field: field, Direction: dir}
	return c.apply(ctx, next, false)
}

// ChangePage moves to page. The derivation clamps it into [1, TotalPages]
// against the fresh total, so it works before the first load too.
func (c *Controller[T]) ChangePage(ctx context.Context, page int) ResultState[T] {
	next := c.Query()
	next.Page = page
	return c.apply(ctx, next, false)
}

// ChangePageSize sets the page size and returns to page 1.
func (c *Controller[T]) ChangePageSize(ctx context.Context, size int) ResultState[T] {
	next := c.Query()
	if c.settled() && size == next.PageSize {
		return c.State()
	}
	next.PageSize = size
	next.Page = 1
	return c.apply(ctx, next, false)
}

// Refresh re-derives with the current QueryState.
func (c *Controller[T]) Refresh(ctx context.Context) ResultState[T] {
	return c.apply(ctx, c.Query(), true)
}

// Create inserts item and refreshes with the last successful QueryState.
func (c *Controller[T]) Create(ctx context.Context, item T) (T, error) {
	created, err := c.coll.Create(ctx, item)
	if err != nil {
		c.fail(OpCreate, 0, err)
		return created, err
	}
	c.emit(Event{Type: EventCreated, Op: OpCreate, ID: created.RecordID()})
	c.refreshLastGood(ctx)
	return created, nil
}

// Update merges partial into record id and refreshes.
func (c *Controller[T]) Update(ctx context.Context, id int64, partial map[string]any) (T, error) {
	updated, err := c.coll.Update(ctx, id, partial)
	if err != nil {
		c.fail(OpUpdate, id, err)
		return updated, err
	}
	c.emit(Event{Type: EventUpdated, Op: OpUpdate, ID: id})
	c.refreshLastGood(ctx)
	return updated, nil
}

// Delete removes record id and refreshes.
func (c *Controller[T]) Delete(ctx context.Context, id int64) error {
	if err := c.coll.Delete(ctx, id); err != nil {
		c.fail(OpDelete, id, err)
		return err
	}
	c.emit(Event{Type: EventDeleted, Op: OpDelete, ID: id})
	c.refreshLastGood(ctx)
	return nil
}

// BulkDelete deletes each id, tolerating individual failures, and refreshes
// once. It emits EventBatchBegin and EventBatchEnd only, whatever the number
// of ids; per-item outcomes are carried on EventBatchEnd.
func (c *Controller[T]) BulkDelete(ctx context.Context, ids []int64) BulkResult {
	c.emit(Event{Type: EventBatchBegin, Op: OpDelete, Total: len(ids)})
	res := c.coll.BulkDelete(ctx, ids)
	c.emit(Event{
		Type:      EventBatchEnd,
		Op:        OpDelete,
		Total:     res.Total,
		Succeeded: res.Succeeded,
		Deleted:   res.Deleted,
		Failed:    res.Failed,
	})
	c.refreshLastGood(ctx)
	return res
}

// Matching returns every record matching the current search and filters, in
// the current order, across all pages.
func (c *Controller[T]) Matching(ctx context.Context) ([]T, error) {
	return c.coll.Matching(ctx, c.Query())
}

// Query returns the most recently requested QueryState. After a failed
// derivation it is the failed one; State still holds the last good result
// and Refresh retries it.
func (c *Controller[T]) Query() QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.Clone()
}

func (c *Controller[T]) State() ResultState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe returns a buffered event channel. It is closed by Close.
func (c *Controller[T]) Subscribe() <-chan Event {
	return c.events.subscribe()
}

// Close cancels an in-flight derivation and closes subscriber channels.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.mu.Unlock()
	c.events.close()
}

// settled reports whether the current query has been derived without error.
// After a failure the same query may be issued again to retry it.
func (c *Controller[T]) settled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded && c.state.Error == ""
}

func (c *Controller[T]) refreshLastGood(ctx context.Context) {
	c.mu.Lock()
	q := c.lastGood.Clone()
	c.mu.Unlock()
	c.apply(ctx, q, true)
}

func (c *Controller[T]) apply(ctx context.Context, next QueryState, force bool) ResultState[T] {
	next = next.Normalize()

	c.mu.Lock()
	if !force && c.loaded && c.state.Error == "" && next.Equal(c.query) {
		st := c.state.clone()
		c.mu.Unlock()
		return st
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	dctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.query = next
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	c.coll.rec.Derivation(c.coll.schema.Kind)
	page, err := c.coll.Query(dctx, next)
	cancel()

	c.mu.Lock()
	if gen != c.gen {
		st := c.state.clone()
		c.mu.Unlock()
		c.coll.rec.StaleDiscarded(c.coll.schema.Kind)
		c.coll.log.Debug("discarded stale result")
		return st
	}
	c.cancel = nil
	if err != nil {
		c.state.Loading = false
		c.state.Error = Message(err)
		st := c.state.clone()
		c.mu.Unlock()
		c.fail(OpQuery, 0, err)
		return st
	}

	c.query.Page = page.Page
	c.lastGood = c.query.Clone()
	c.loaded = true
	items := page.Items
	if items == nil {
		items = []T{}
	}
	c.state = ResultState[T]{
		Items:       items,
		TotalCount:  page.TotalCount,
		CurrentPage: page.Page,
		PageSize:    page.PageSize,
		TotalPages:  page.TotalPages,
	}
	st := c.state.clone()
	c.mu.Unlock()

	c.emit(Event{Type: EventLoaded, Op: OpQuery, Total: page.TotalCount})
	return st
}

func (c *Controller[T]) fail(op string, id int64, err error) {
	c.emit(Event{Type: EventFailed, Op: op, ID: id, Err: err, Failure: FailureOf(err)})
}

func (c *Controller[T]) emit(ev Event) {
	s := c.coll.schema
	ev.Kind = s.Kind
	ev.Label = s.Label
	ev.Plural = s.Plural
	c.events.emit(ev)
}

func filtersEqual(a, b QueryState) bool {
	a.Search, a.Ordering, a.Page, a.PageSize = "", Ordering{}, 0, 0
	b.Search, b.Ordering, b.Page, b.PageSize = "", Ordering{}, 0, 0
	return a.Equal(b)
}
