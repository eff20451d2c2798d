package engine

import (
	"context"

	"github.com/dukerupert/choreboard/internal/model"
)

// SetOrder records the user-defined ordering of instance ids within one
// (kid, column) bucket. An empty ids list deletes the bucket instead of
// storing an empty sequence. Ids are not validated against existing
// instances; stale ids are the presentation layer's concern.
func (e *Engine) SetOrder(ctx context.Context, kidID, column string, ids []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	orders, err := e.store.LoadOrders()
	if err != nil {
		return err
	}

	key := model.OrderKey(kidID, column)
	if len(ids) == 0 {
		delete(orders, key)
	} else {
		orders[key] = ids
	}

	return e.store.SaveOrders(orders)
}

// GetOrder returns the stored ordering for a (kid, column) bucket, or
// nil when none has been recorded.
func (e *Engine) GetOrder(ctx context.Context, kidID, column string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	orders, err := e.store.LoadOrders()
	if err != nil {
		return nil, err
	}
	return orders[model.OrderKey(kidID, column)], nil
}
