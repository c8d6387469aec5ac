package inventory

import "time"

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	ZipCode string `json:"zip_code"`
}

type Item struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	ManufacturerName  string `json:"manufacturer_name"`
	ManufacturerEmail string `json:"manufacturer_email"`
	InStock           int    `json:"in_stock"`
	ReorderQuantity   int    `json:"reorder_quantity"`
}

// Order is immutable once created; there is no update path.
type Order struct {
	ID            string `json:"id"`
	ItemID        string `json:"item_id"`
	CustomerID    string `json:"customer_id"`
	OrderQuantity int    `json:"order_quantity"`
}

// ReorderLog rows are append-only. CreatedAt is assigned by the store at
// commit time.
type ReorderLog struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}
