package inventory

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced    = "OrderPlaced"
	EventReorderFlagged = "ReorderFlagged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "inventory-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload types per event ----

type OrderPlacedPayload struct {
	OrderID       string `json:"order_id"`
	ItemID        string `json:"item_id"`
	CustomerID    string `json:"customer_id"`
	OrderQuantity int    `json:"order_quantity"`
	StockAfter    int    `json:"stock_after"`
}

// ReorderFlaggedPayload carries enough item context for the notifier to act
// without a database round trip.
type ReorderFlaggedPayload struct {
	ReorderLogID      string `json:"reorder_log_id"`
	OrderID           string `json:"order_id"`
	ItemID            string `json:"item_id"`
	ItemName          string `json:"item_name"`
	ManufacturerName  string `json:"manufacturer_name"`
	ManufacturerEmail string `json:"manufacturer_email"`
	StockAfter        int    `json:"stock_after"`
	ReorderQuantity   int    `json:"reorder_quantity"`
}
