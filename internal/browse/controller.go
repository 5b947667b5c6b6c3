// file: internal/browse/controller.go
// version: 2.0.0
// guid: 3b4c5d6e-7f8a-9b0c-1d2e-3f4a5b6c7d80

// Package browse drives paginated catalog listings for the interactive
// admin commands. A Controller owns the current page, ordering and search
// state, debounces search input, and discards responses that arrive after
// a newer request has been issued.
package browse

import (
	"context"
	"sync"
	"time"

	"github.com/obodeflix/obodeflix/internal/client"
	"github.com/obodeflix/obodeflix/internal/models"
)

// SearchDebounce is how long search input must be quiet before a request
// is sent.
const SearchDebounce = 300 * time.Millisecond

// Fetcher loads one page. Controllers are generic over the entity so the
// same machinery serves series, seasons, episodes, tags and comments.
type Fetcher[T any] func(ctx context.Context, opts client.ListOptions) (models.Page[T], error)

// State is the snapshot handed to the change listener after every
// transition.
type State[T any] struct {
	Loading bool
	Page    models.Page[T]
	Err     error
}

// Controller serializes fetches for one listing. Every request carries a
// sequence number; only the newest outstanding request may publish its
// result, so a slow page 1 can never overwrite a fast page 2.
type Controller[T any] struct {
	mu       sync.Mutex
	fetch    Fetcher[T]
	opts     client.ListOptions
	seq      uint64
	cancel   context.CancelFunc
	timer    *time.Timer
	debounce time.Duration
	state    State[T]
	onChange func(State[T])
}

// Option configures a Controller.
type Option[T any] func(*Controller[T])

// WithQuantity sets the initial page size.
func WithQuantity[T any](quantity int) Option[T] {
	return func(c *Controller[T]) { c.opts.Quantity = quantity }
}

// WithOrder sets the initial ordering.
func WithOrder[T any](column string, direction models.OrderBy) Option[T] {
	return func(c *Controller[T]) {
		c.opts.OrderColumn = column
		c.opts.OrderBy = direction
	}
}

// WithFilter pins entity filters, e.g. the seasons of one series.
func WithFilter[T any](apply func(*client.ListOptions)) Option[T] {
	return func(c *Controller[T]) { apply(&c.opts) }
}

// WithDebounce overrides the search debounce, mainly for tests.
func WithDebounce[T any](d time.Duration) Option[T] {
	return func(c *Controller[T]) { c.debounce = d }
}

// NewController builds a controller around fetch. onChange is called with a
// state snapshot after every transition, always without the internal lock
// held. It may be called from multiple goroutines but never concurrently
// for the same sequence number.
func NewController[T any](fetch Fetcher[T], onChange func(State[T]), options ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		fetch:    fetch,
		onChange: onChange,
		debounce: SearchDebounce,
		opts:     client.ListOptions{Page: 1, Quantity: models.DefaultQuantity},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Options returns the current listing parameters.
func (c *Controller[T]) Options() client.ListOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// State returns the last published state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load fetches the current page. Used for the initial load and after
// mutations.
func (c *Controller[T]) Load() {
	c.mu.Lock()
	c.startLocked()
	c.mu.Unlock()
}

// SetPage jumps to a page and fetches it.
func (c *Controller[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.opts.Page = page
	c.startLocked()
	c.mu.Unlock()
}

// NextPage advances one page unless already on the last known page.
func (c *Controller[T]) NextPage() {
	c.mu.Lock()
	if c.state.Page.LastPage == 0 || c.opts.Page < c.state.Page.LastPage {
		c.opts.Page++
		c.startLocked()
	}
	c.mu.Unlock()
}

// PrevPage goes back one page.
func (c *Controller[T]) PrevPage() {
	c.mu.Lock()
	if c.opts.Page > 1 {
		c.opts.Page--
		c.startLocked()
	}
	c.mu.Unlock()
}

// SetQuantity changes the page size and resets to page 1.
func (c *Controller[T]) SetQuantity(quantity int) {
	c.mu.Lock()
	c.opts.Quantity = quantity
	c.opts.Page = 1
	c.startLocked()
	c.mu.Unlock()
}

// SetOrder changes the ordering and resets to page 1.
func (c *Controller[T]) SetOrder(column string, direction models.OrderBy) {
	c.mu.Lock()
	c.opts.OrderColumn = column
	c.opts.OrderBy = direction
	c.opts.Page = 1
	c.startLocked()
	c.mu.Unlock()
}

// SetSearch updates the search term. The fetch fires only after the input
// has been quiet for the debounce window; every keystroke restarts the
// timer. The page resets to 1 because the old offset is meaningless for a
// new term.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opts.Search == term {
		return
	}
	c.opts.Search = term
	c.opts.Page = 1
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		c.startLocked()
		c.mu.Unlock()
	})
}

// DeleteAndRefresh runs del and reloads the current page, so the listing
// never shows a row that is already gone. The reload happens even when the
// delete failed: the list is unchanged server-side, so re-fetching is
// harmless and keeps the view honest. The delete error is returned to the
// caller.
func (c *Controller[T]) DeleteAndRefresh(del func() error) error {
	defer c.Load()
	return del()
}

// Stop cancels any in-flight fetch and pending debounce timer.
func (c *Controller[T]) Stop() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
}

// startLocked launches a fetch for the current options. Callers hold c.mu.
func (c *Controller[T]) startLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.seq++
	seq := c.seq
	opts := c.opts

	c.state.Loading = true
	c.publishLocked()

	go func() {
		page, err := c.fetch(ctx, opts)
		cancel()

		c.mu.Lock()
		if seq != c.seq {
			// A newer request superseded this one; its answer is stale.
			c.mu.Unlock()
			return
		}
		if err != nil {
			if ctx.Err() == context.Canceled {
				c.mu.Unlock()
				return
			}
			c.state = State[T]{Err: err, Page: c.state.Page}
			c.publishLocked()
			c.mu.Unlock()
			return
		}

		// The requested page can be past the end after deletes or a
		// narrowed search. The server echoes it with no rows, so fall
		// back to the first page instead of showing an empty screen.
		if len(page.Data) == 0 && page.CurrentPage > 1 {
			c.opts.Page = 1
			c.startLocked()
			c.mu.Unlock()
			return
		}

		c.opts.Page = page.CurrentPage
		c.state = State[T]{Page: page}
		c.publishLocked()
		c.mu.Unlock()
	}()
}

// publishLocked invokes the listener outside the lock with a snapshot.
func (c *Controller[T]) publishLocked() {
	if c.onChange == nil {
		return
	}
	snapshot := c.state
	go c.onChange(snapshot)
}

// NewSeriesController wires a controller to the API client's series
// listing.
func NewSeriesController(api *client.Client, onChange func(State[models.Series]), options ...Option[models.Series]) *Controller[models.Series] {
	return NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		return api.ListSeries(ctx, opts)
	}, onChange, options...)
}

// NewSeasonController wires a controller to the seasons listing.
func NewSeasonController(api *client.Client, onChange func(State[models.Season]), options ...Option[models.Season]) *Controller[models.Season] {
	return NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Season], error) {
		return api.ListSeasons(ctx, opts)
	}, onChange, options...)
}

// NewEpisodeController wires a controller to the episodes listing.
func NewEpisodeController(api *client.Client, onChange func(State[models.Episode]), options ...Option[models.Episode]) *Controller[models.Episode] {
	return NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Episode], error) {
		return api.ListEpisodes(ctx, opts)
	}, onChange, options...)
}

// NewTagController wires a controller to the tags listing.
func NewTagController(api *client.Client, onChange func(State[models.Tag]), options ...Option[models.Tag]) *Controller[models.Tag] {
	return NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Tag], error) {
		return api.ListTags(ctx, opts)
	}, onChange, options...)
}

// NewCommentController wires a controller to the comments listing.
func NewCommentController(api *client.Client, onChange func(State[models.Comment]), options ...Option[models.Comment]) *Controller[models.Comment] {
	return NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Comment], error) {
		return api.ListComments(ctx, opts)
	}, onChange, options...)
}
