package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements Store on a pgx pool. The FOR UPDATE row lock taken in
// FindItemForUpdate is what serializes concurrent placements per item.
type PgStore struct{ DB *pgxpool.Pool }

func (s *PgStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) FindItemForUpdate(ctx context.Context, itemID string) (Item, error) {
	var it Item
	err := t.tx.QueryRow(ctx, `
		SELECT id, name, description, manufacturer_name, manufacturer_email, in_stock, reorder_quantity
		FROM items WHERE id=$1 FOR UPDATE`, itemID).
		Scan(&it.ID, &it.Name, &it.Description, &it.ManufacturerName, &it.ManufacturerEmail,
			&it.InStock, &it.ReorderQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	if err != nil {
		return Item{}, asConflict(err)
	}
	return it, nil
}

func (t *pgTx) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id=$1)`, customerID).Scan(&ok)
	return ok, err
}

func (t *pgTx) UpdateItemStock(ctx context.Context, itemID string, inStock int) error {
	ct, err := t.tx.Exec(ctx, `UPDATE items SET in_stock=$2 WHERE id=$1`, itemID, inStock)
	if err != nil {
		return asConflict(err)
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("update stock: item %s vanished mid-transaction", itemID)
	}
	return nil
}

func (t *pgTx) InsertOrder(ctx context.Context, o Order) (Order, error) {
	o.ID = uuid.NewString()
	_, err := t.tx.Exec(ctx, `
		INSERT INTO item_orders(id, item_id, customer_id, order_quantity)
		VALUES ($1, $2, $3, $4)`,
		o.ID, o.ItemID, o.CustomerID, o.OrderQuantity)
	if err != nil {
		return Order{}, asConflict(err)
	}
	return o, nil
}

func (t *pgTx) InsertReorderLog(ctx context.Context, itemID string) (ReorderLog, error) {
	rl := ReorderLog{ID: uuid.NewString(), ItemID: itemID}
	err := t.tx.QueryRow(ctx, `
		INSERT INTO item_reorder_logs(id, item_id)
		VALUES ($1, $2) RETURNING created_at`,
		rl.ID, rl.ItemID).Scan(&rl.CreatedAt)
	if err != nil {
		return ReorderLog{}, asConflict(err)
	}
	return rl, nil
}

func (t *pgTx) Commit(ctx context.Context) error   { return asConflict(t.tx.Commit(ctx)) }
func (t *pgTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// asConflict maps serialization failures (40001) and deadlocks (40P01) to
// ErrConflict so the service can retry them; everything else passes through.
func asConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.Code)
	}
	return err
}
