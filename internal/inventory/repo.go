package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// ClampPage normalizes skip/limit pagination values.
func ClampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return skip, limit
}

// Repo covers the plain CRUD surface. Order placement goes through Service,
// not through here.
type Repo struct{ DB *pgxpool.Pool }

// ---- customers ----

func (r *Repo) CreateCustomer(ctx context.Context, c Customer) (Customer, error) {
	c.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO customers(id, name, address, zip_code)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Address, c.ZipCode)
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *Repo) GetCustomer(ctx context.Context, id string) (Customer, error) {
	var c Customer
	err := r.DB.QueryRow(ctx, `SELECT id, name, address, zip_code FROM customers WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Address, &c.ZipCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrCustomerNotFound
	}
	return c, err
}

func (r *Repo) GetCustomerByName(ctx context.Context, name string) (Customer, error) {
	var c Customer
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, address, zip_code FROM customers WHERE name=$1 LIMIT 1`, name).
		Scan(&c.ID, &c.Name, &c.Address, &c.ZipCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrCustomerNotFound
	}
	return c, err
}

func (r *Repo) ListCustomers(ctx context.Context, skip, limit int) ([]Customer, error) {
	skip, limit = ClampPage(skip, limit)
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, address, zip_code FROM customers
		ORDER BY name, id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.ZipCode); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCustomer is a full-record replace.
func (r *Repo) UpdateCustomer(ctx context.Context, id string, c Customer) (Customer, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE customers SET name=$2, address=$3, zip_code=$4 WHERE id=$1`,
		id, c.Name, c.Address, c.ZipCode)
	if err != nil {
		return Customer{}, err
	}
	if ct.RowsAffected() == 0 {
		return Customer{}, ErrCustomerNotFound
	}
	c.ID = id
	return c, nil
}

// ---- items ----

func (r *Repo) CreateItem(ctx context.Context, it Item) (Item, error) {
	it.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO items(id, name, description, manufacturer_name, manufacturer_email, in_stock, reorder_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		it.ID, it.Name, it.Description, it.ManufacturerName, it.ManufacturerEmail, it.InStock, it.ReorderQuantity)
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

func (r *Repo) GetItem(ctx context.Context, id string) (Item, error) {
	var it Item
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, description, manufacturer_name, manufacturer_email, in_stock, reorder_quantity
		FROM items WHERE id=$1`, id).
		Scan(&it.ID, &it.Name, &it.Description, &it.ManufacturerName, &it.ManufacturerEmail,
			&it.InStock, &it.ReorderQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	return it, err
}

// SearchItemByName matches case-insensitively on a substring and returns the
// first hit.
func (r *Repo) SearchItemByName(ctx context.Context, name string) (Item, error) {
	var it Item
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, description, manufacturer_name, manufacturer_email, in_stock, reorder_quantity
		FROM items WHERE name ILIKE '%' || $1 || '%' ORDER BY name, id LIMIT 1`, name).
		Scan(&it.ID, &it.Name, &it.Description, &it.ManufacturerName, &it.ManufacturerEmail,
			&it.InStock, &it.ReorderQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	return it, err
}

func (r *Repo) ListItems(ctx context.Context, skip, limit int) ([]Item, error) {
	skip, limit = ClampPage(skip, limit)
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, description, manufacturer_name, manufacturer_email, in_stock, reorder_quantity
		FROM items ORDER BY name, id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.ManufacturerName,
			&it.ManufacturerEmail, &it.InStock, &it.ReorderQuantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateItem(ctx context.Context, id string, it Item) (Item, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE items SET name=$2, description=$3, manufacturer_name=$4, manufacturer_email=$5,
			in_stock=$6, reorder_quantity=$7
		WHERE id=$1`,
		id, it.Name, it.Description, it.ManufacturerName, it.ManufacturerEmail, it.InStock, it.ReorderQuantity)
	if err != nil {
		return Item{}, err
	}
	if ct.RowsAffected() == 0 {
		return Item{}, ErrItemNotFound
	}
	it.ID = id
	return it, nil
}

// DeleteItem returns the removed record. Orders referencing the item are
// left in place; preventing orphans is the caller's concern.
func (r *Repo) DeleteItem(ctx context.Context, id string) (Item, error) {
	var it Item
	err := r.DB.QueryRow(ctx, `
		DELETE FROM items WHERE id=$1
		RETURNING id, name, description, manufacturer_name, manufacturer_email, in_stock, reorder_quantity`, id).
		Scan(&it.ID, &it.Name, &it.Description, &it.ManufacturerName, &it.ManufacturerEmail,
			&it.InStock, &it.ReorderQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	return it, err
}

// ---- orders (administrative) ----

func (r *Repo) GetOrder(ctx context.Context, id string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, item_id, customer_id, order_quantity FROM item_orders WHERE id=$1`, id).
		Scan(&o.ID, &o.ItemID, &o.CustomerID, &o.OrderQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

// DeleteOrder removes the order row only; stock is not restored.
func (r *Repo) DeleteOrder(ctx context.Context, id string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		DELETE FROM item_orders WHERE id=$1
		RETURNING id, item_id, customer_id, order_quantity`, id).
		Scan(&o.ID, &o.ItemID, &o.CustomerID, &o.OrderQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

// ---- reorder logs ----

func (r *Repo) ListReorderLogs(ctx context.Context, skip, limit int) ([]ReorderLog, error) {
	skip, limit = ClampPage(skip, limit)
	rows, err := r.DB.Query(ctx, `
		SELECT id, item_id, created_at FROM item_reorder_logs
		ORDER BY created_at, id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReorderLog{}
	for rows.Next() {
		var rl ReorderLog
		if err := rows.Scan(&rl.ID, &rl.ItemID, &rl.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rl)
	}
	return out, rows.Err()
}
