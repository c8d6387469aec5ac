package inventory

import (
	"context"
	"errors"
	"fmt"
)

// maxConflictAttempts bounds the internal retry loop on serialization or
// deadlock aborts. Not-found, validation, and plain storage failures are
// never retried.
const maxConflictAttempts = 3

type Service struct {
	Store Store
}

// PlacedOrder is the result of a committed placement. Item is the
// post-decrement snapshot; ReorderFlagged reports whether this order pushed
// the stock strictly below the item's reorder threshold.
type PlacedOrder struct {
	Order          Order
	Item           Item
	ReorderFlagged bool
	ReorderLog     ReorderLog
}

// PlaceOrder decrements the item's stock by qty, records the order, and —
// iff the new stock is strictly below the reorder threshold — appends one
// reorder log, all inside one transaction. Either everything commits or
// nothing does.
func (s *Service) PlaceOrder(ctx context.Context, itemID, customerID string, qty int) (PlacedOrder, error) {
	if qty <= 0 {
		return PlacedOrder{}, ErrInvalidQuantity
	}

	var lastErr error
	for attempt := 0; attempt < maxConflictAttempts; attempt++ {
		po, err := s.placeOrderOnce(ctx, itemID, customerID, qty)
		if err == nil {
			return po, nil
		}
		if !errors.Is(err, ErrConflict) {
			return PlacedOrder{}, err
		}
		lastErr = err
	}
	return PlacedOrder{}, lastErr
}

func (s *Service) placeOrderOnce(ctx context.Context, itemID, customerID string, qty int) (PlacedOrder, error) {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return PlacedOrder{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	item, err := tx.FindItemForUpdate(ctx, itemID)
	if err != nil {
		return PlacedOrder{}, err
	}
	ok, err := tx.CustomerExists(ctx, customerID)
	if err != nil {
		return PlacedOrder{}, fmt.Errorf("check customer: %w", err)
	}
	if !ok {
		return PlacedOrder{}, ErrCustomerNotFound
	}

	if item.InStock < qty {
		return PlacedOrder{}, ErrInsufficientStock
	}

	item.InStock -= qty
	if err := tx.UpdateItemStock(ctx, item.ID, item.InStock); err != nil {
		return PlacedOrder{}, fmt.Errorf("update stock: %w", err)
	}

	po := PlacedOrder{Item: item}

	// Strict less-than: landing exactly on the threshold does not flag.
	if item.InStock < item.ReorderQuantity {
		rl, err := tx.InsertReorderLog(ctx, item.ID)
		if err != nil {
			return PlacedOrder{}, fmt.Errorf("insert reorder log: %w", err)
		}
		po.ReorderFlagged = true
		po.ReorderLog = rl
	}

	order, err := tx.InsertOrder(ctx, Order{
		ItemID:        itemID,
		CustomerID:    customerID,
		OrderQuantity: qty,
	})
	if err != nil {
		return PlacedOrder{}, fmt.Errorf("insert order: %w", err)
	}
	po.Order = order

	if err := tx.Commit(ctx); err != nil {
		return PlacedOrder{}, fmt.Errorf("commit: %w", err)
	}
	return po, nil
}
