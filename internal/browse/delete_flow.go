// file: internal/browse/delete_flow.go
// version: 2.0.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e91

package browse

import (
	"errors"
	"sync"
)

// ErrNoPendingDelete is returned when Confirm or Cancel is called without
// an open confirmation.
var ErrNoPendingDelete = errors.New("no delete pending confirmation")

// DeleteFlow walks one entity through confirm, delete, refresh against a
// controller. Opening the flow carries the target entity itself, not just
// its id, so the caller can show identifying info before committing.
// Confirm always closes the confirmation and always reloads the listing,
// even when the delete call failed.
type DeleteFlow[T any] struct {
	mu         sync.Mutex
	controller *Controller[T]
	pending    bool
	entity     T
}

func NewDeleteFlow[T any](controller *Controller[T]) *DeleteFlow[T] {
	return &DeleteFlow[T]{controller: controller}
}

// Open stages entity for deletion and waits for Confirm or Cancel. Opening
// over an earlier confirmation replaces it.
func (f *DeleteFlow[T]) Open(entity T) {
	f.mu.Lock()
	f.pending = true
	f.entity = entity
	f.mu.Unlock()
}

// Pending returns the staged entity, if a confirmation is open.
func (f *DeleteFlow[T]) Pending() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entity, f.pending
}

// Cancel closes the confirmation without deleting anything.
func (f *DeleteFlow[T]) Cancel() {
	f.mu.Lock()
	f.pending = false
	var zero T
	f.entity = zero
	f.mu.Unlock()
}

// Confirm commits the staged delete. The confirmation closes and the
// listing reloads whether del succeeded or not.
func (f *DeleteFlow[T]) Confirm(del func() error) error {
	f.mu.Lock()
	if !f.pending {
		f.mu.Unlock()
		return ErrNoPendingDelete
	}
	f.pending = false
	var zero T
	f.entity = zero
	f.mu.Unlock()

	return f.controller.DeleteAndRefresh(del)
}
