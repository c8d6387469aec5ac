package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prasetyod/go-inventory-orders/internal/inventory"
	kafkax "github.com/prasetyod/go-inventory-orders/internal/kafka"
	"github.com/prasetyod/go-inventory-orders/internal/redisx"
	kafkago "github.com/segmentio/kafka-go"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, itemID, customerID string, qty int) (inventory.PlacedOrder, error)
}

type OrderStore interface {
	DeleteOrder(ctx context.Context, id string) (inventory.Order, error)
	ListReorderLogs(ctx context.Context, skip, limit int) ([]inventory.ReorderLog, error)
}

// Publisher matches the async kafka producer; tests substitute a recorder.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Orders        OrderPlacer
	Store         OrderStore
	Cache         redisx.Cache
	OrderEvents   Publisher // inventory.order.placed
	ReorderEvents Publisher // inventory.reorder.flagged
	Service       string
}

type PlaceOrderReq struct {
	ItemID        string `json:"item_id"`
	CustomerID    string `json:"customer_id"`
	OrderQuantity int    `json:"order_quantity"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.placeOrder)
	r.Delete("/orders/{id}", h.deleteOrder)
	r.Get("/reorder_logs", h.listReorderLogs)
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ItemID == "" || req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "item_id and customer_id are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	po, err := h.Orders.PlaceOrder(ctx, req.ItemID, req.CustomerID, req.OrderQuantity)
	if err != nil {
		writePlaceOrderErr(w, err)
		return
	}

	// The stock changed underneath any cached copy.
	_ = h.Cache.Del(ctx, fmt.Sprintf(redisx.KeyItemCache, req.ItemID))

	h.publishPlaced(r, po)
	if po.ReorderFlagged {
		h.publishReorder(r, po)
	}

	writeJSON(w, http.StatusOK, po.Order)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Store.DeleteOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, inventory.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) listReorderLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	skip, limit := pageParams(r)
	logs, err := h.Store.ListReorderLogs(ctx, skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func writePlaceOrderErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, inventory.ErrInvalidQuantity.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, inventory.ErrInsufficientStock.Error())
	case errors.Is(err, inventory.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, inventory.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "customer not found")
	case errors.Is(err, inventory.ErrConflict):
		writeError(w, http.StatusConflict, "stock contention, retry the order")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *OrdersHandler) publishPlaced(r *http.Request, po inventory.PlacedOrder) {
	ev := h.envelope(r, inventory.EventOrderPlaced, po.Order.ID)
	ev.Payload = kafkax.MustMarshal(inventory.OrderPlacedPayload{
		OrderID:       po.Order.ID,
		ItemID:        po.Order.ItemID,
		CustomerID:    po.Order.CustomerID,
		OrderQuantity: po.Order.OrderQuantity,
		StockAfter:    po.Item.InStock,
	})
	h.OrderEvents.Publish(inventory.PartitionKey(po.Order.ItemID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(inventory.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) publishReorder(r *http.Request, po inventory.PlacedOrder) {
	ev := h.envelope(r, inventory.EventReorderFlagged, po.Order.ID)
	ev.Payload = kafkax.MustMarshal(inventory.ReorderFlaggedPayload{
		ReorderLogID:      po.ReorderLog.ID,
		OrderID:           po.Order.ID,
		ItemID:            po.Item.ID,
		ItemName:          po.Item.Name,
		ManufacturerName:  po.Item.ManufacturerName,
		ManufacturerEmail: po.Item.ManufacturerEmail,
		StockAfter:        po.Item.InStock,
		ReorderQuantity:   po.Item.ReorderQuantity,
	})
	h.ReorderEvents.Publish(inventory.PartitionKey(po.Item.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(inventory.EventReorderFlagged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) envelope(r *http.Request, eventType, orderID string) inventory.Envelope {
	return inventory.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
	}
}
