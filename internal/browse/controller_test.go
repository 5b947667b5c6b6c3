// file: internal/browse/controller_test.go
// version: 2.0.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e90

package browse

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obodeflix/obodeflix/internal/client"
	"github.com/obodeflix/obodeflix/internal/models"
)

// collector records every published state so tests can wait for a
// condition instead of sleeping fixed amounts.
type collector struct {
	mu     sync.Mutex
	states []State[models.Series]
}

func (r *collector) add(s State[models.Series]) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *collector) waitFor(t *testing.T, cond func(State[models.Series]) bool) State[models.Series] {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		for _, s := range r.states {
			if cond(s) {
				r.mu.Unlock()
				return s
			}
		}
		r.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never published")
	return State[models.Series]{}
}

func seriesPage(page, quantity, total int, names ...string) models.Page[models.Series] {
	items := make([]models.Series, len(names))
	for i, name := range names {
		items[i] = models.Series{ID: int64(i + 1), MainName: name}
	}
	return models.NewPage(items, total, page, quantity)
}

func TestLoadPublishesLoadingThenData(t *testing.T) {
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		return seriesPage(opts.Page, opts.Quantity, 1, "Cowboy Bebop"), nil
	}, rec.add)
	defer ctrl.Stop()

	ctrl.Load()
	rec.waitFor(t, func(s State[models.Series]) bool { return s.Loading })
	final := rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading && len(s.Page.Data) == 1 })
	assert.Equal(t, "Cowboy Bebop", final.Page.Data[0].MainName)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	// Page 1 answers slowly, page 2 answers fast. The page 1 answer must
	// not overwrite the page 2 answer even though it arrives later.
	release := make(chan struct{})
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		if opts.Page == 1 {
			select {
			case <-release:
			case <-ctx.Done():
				return models.Page[models.Series]{}, ctx.Err()
			}
			return seriesPage(1, opts.Quantity, 40, "slow page one"), nil
		}
		return seriesPage(2, opts.Quantity, 40, "fast page two"), nil
	}, rec.add)
	defer ctrl.Stop()

	ctrl.Load()
	ctrl.SetPage(2)

	settled := rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading && len(s.Page.Data) > 0 })
	assert.Equal(t, "fast page two", settled.Page.Data[0].MainName)

	close(release)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, ctrl.State().Page.CurrentPage)
	assert.Equal(t, "fast page two", ctrl.State().Page.Data[0].MainName)
}

func TestSearchDebounceCollapsesKeystrokes(t *testing.T) {
	var fetches int32
	var lastSearch atomic.Value
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		atomic.AddInt32(&fetches, 1)
		lastSearch.Store(opts.Search)
		return seriesPage(opts.Page, opts.Quantity, 0), nil
	}, rec.add, WithDebounce[models.Series](30*time.Millisecond))
	defer ctrl.Stop()

	ctrl.SetSearch("c")
	ctrl.SetSearch("co")
	ctrl.SetSearch("cow")

	rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading })
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
	assert.Equal(t, "cow", lastSearch.Load())
}

func TestSearchResetsPage(t *testing.T) {
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		return seriesPage(opts.Page, opts.Quantity, 100, "x"), nil
	}, rec.add, WithDebounce[models.Series](time.Millisecond))
	defer ctrl.Stop()

	ctrl.SetPage(4)
	rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading && s.Page.CurrentPage == 4 })

	ctrl.SetSearch("bebop")
	rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading && s.Page.CurrentPage == 1 })
	assert.Equal(t, 1, ctrl.Options().Page)
}

func TestEmptyPageFallsBackToFirst(t *testing.T) {
	// Page 3 no longer exists after deletes: the server echoes an empty
	// page 3, and the controller recovers with exactly one extra fetch of
	// page 1.
	var fetches int32
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		atomic.AddInt32(&fetches, 1)
		if opts.Page > 1 {
			return models.NewPage([]models.Series{}, 5, opts.Page, opts.Quantity), nil
		}
		return seriesPage(1, opts.Quantity, 5, "survivor"), nil
	}, rec.add)
	defer ctrl.Stop()

	ctrl.SetPage(3)
	final := rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading && len(s.Page.Data) > 0 })
	assert.Equal(t, 1, final.Page.CurrentPage)
	assert.Equal(t, "survivor", final.Page.Data[0].MainName)
	// One fetch for the empty page, one for the reconciliation.
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestDeleteAndRefresh(t *testing.T) {
	var loads int32
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		atomic.AddInt32(&loads, 1)
		return seriesPage(opts.Page, opts.Quantity, 1, "left over"), nil
	}, rec.add)
	defer ctrl.Stop()

	require.NoError(t, ctrl.DeleteAndRefresh(func() error { return nil }))
	rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading && len(s.Page.Data) > 0 })
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestDeleteFailureStillRefreshes(t *testing.T) {
	// A failed inactivate leaves the list unchanged server-side, so the
	// controller re-fetches anyway and the error still reaches the caller.
	var loads int32
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		atomic.AddInt32(&loads, 1)
		return seriesPage(opts.Page, opts.Quantity, 1, "still here"), nil
	}, rec.add)
	defer ctrl.Stop()

	deleteErr := errors.New("resource busy")
	err := ctrl.DeleteAndRefresh(func() error { return deleteErr })
	assert.Equal(t, deleteErr, err)
	rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading && len(s.Page.Data) > 0 })
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestDeleteFlowConfirmAndCancel(t *testing.T) {
	var loads, deletes int32
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		atomic.AddInt32(&loads, 1)
		return seriesPage(opts.Page, opts.Quantity, 1, "survivor"), nil
	}, rec.add)
	defer ctrl.Stop()
	flow := NewDeleteFlow(ctrl)

	// Cancelling deletes nothing and loads nothing.
	flow.Open(models.Series{ID: 7, MainName: "Trigun"})
	staged, ok := flow.Pending()
	require.True(t, ok)
	assert.Equal(t, "Trigun", staged.MainName)
	flow.Cancel()
	_, ok = flow.Pending()
	assert.False(t, ok)
	assert.Equal(t, int32(0), atomic.LoadInt32(&loads))

	// Confirming without an open confirmation is refused.
	err := flow.Confirm(func() error { atomic.AddInt32(&deletes, 1); return nil })
	assert.ErrorIs(t, err, ErrNoPendingDelete)
	assert.Equal(t, int32(0), atomic.LoadInt32(&deletes))

	// Confirming runs the delete, closes the confirmation and reloads.
	flow.Open(models.Series{ID: 7, MainName: "Trigun"})
	require.NoError(t, flow.Confirm(func() error { atomic.AddInt32(&deletes, 1); return nil }))
	_, ok = flow.Pending()
	assert.False(t, ok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&deletes))
	rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading && len(s.Page.Data) > 0 })
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestDeleteFlowRefreshesAfterFailedDelete(t *testing.T) {
	var loads int32
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		atomic.AddInt32(&loads, 1)
		return seriesPage(opts.Page, opts.Quantity, 1, "survivor"), nil
	}, rec.add)
	defer ctrl.Stop()
	flow := NewDeleteFlow(ctrl)

	flow.Open(models.Series{ID: 7})
	deleteErr := errors.New("boom")
	err := flow.Confirm(func() error { return deleteErr })
	assert.Equal(t, deleteErr, err)
	// The confirmation closed and the page reloaded anyway.
	_, ok := flow.Pending()
	assert.False(t, ok)
	rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading && len(s.Page.Data) > 0 })
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestFetchErrorPublished(t *testing.T) {
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		return models.Page[models.Series]{}, errors.New("boom")
	}, rec.add)
	defer ctrl.Stop()

	ctrl.Load()
	failed := rec.waitFor(t, func(s State[models.Series]) bool { return s.Err != nil })
	assert.EqualError(t, failed.Err, "boom")
}

func TestNextPageStopsAtLastPage(t *testing.T) {
	rec := &collector{}
	ctrl := NewController(func(ctx context.Context, opts client.ListOptions) (models.Page[models.Series], error) {
		return seriesPage(opts.Page, opts.Quantity, 25, "row"), nil
	}, rec.add, WithQuantity[models.Series](25))
	defer ctrl.Stop()

	ctrl.Load()
	rec.waitFor(t, func(s State[models.Series]) bool { return !s.Loading && s.Page.LastPage == 1 })

	ctrl.NextPage()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, ctrl.Options().Page)
}
