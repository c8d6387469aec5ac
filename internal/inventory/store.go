package inventory

import "context"

// Store opens units of work against the entity store. The pgx-backed
// implementation lives in pgstore.go; tests substitute an in-memory one.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single unit of work. FindItemForUpdate must hold a per-item
// exclusive lock until Commit or Rollback, so concurrent placements against
// the same item serialize on the stock read.
type Tx interface {
	FindItemForUpdate(ctx context.Context, itemID string) (Item, error)
	CustomerExists(ctx context.Context, customerID string) (bool, error)
	UpdateItemStock(ctx context.Context, itemID string, inStock int) error
	InsertOrder(ctx context.Context, o Order) (Order, error)
	InsertReorderLog(ctx context.Context, itemID string) (ReorderLog, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
