package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyod/go-inventory-orders/internal/inventory"
	"github.com/prasetyod/go-inventory-orders/internal/redisx"
)

type ItemStore interface {
	CreateItem(ctx context.Context, it inventory.Item) (inventory.Item, error)
	GetItem(ctx context.Context, id string) (inventory.Item, error)
	SearchItemByName(ctx context.Context, name string) (inventory.Item, error)
	ListItems(ctx context.Context, skip, limit int) ([]inventory.Item, error)
	UpdateItem(ctx context.Context, id string, it inventory.Item) (inventory.Item, error)
	DeleteItem(ctx context.Context, id string) (inventory.Item, error)
}

type ItemsHandler struct {
	Store ItemStore
	Cache redisx.Cache
}

type ItemReq struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	ManufacturerName  string `json:"manufacturer_name"`
	ManufacturerEmail string `json:"manufacturer_email"`
	InStock           int    `json:"in_stock"`
	ReorderQuantity   int    `json:"reorder_quantity"`
}

func (h *ItemsHandler) Register(r *chi.Mux) {
	r.Post("/items", h.create)
	r.Get("/items", h.list)
	r.Get("/items/{id}", h.get)
	r.Get("/items/by_name/{name}", h.getByName)
	r.Put("/items/{id}", h.update)
	r.Delete("/items/{id}", h.delete)
}

func (h *ItemsHandler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeItem(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	it, err := h.Store.CreateItem(ctx, itemFromReq(req))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemsHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyItemCache, id)
	if s, err := h.Cache.Get(ctx, key); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}

	it, err := h.Store.GetItem(ctx, id)
	if err != nil {
		writeItemErr(w, err)
		return
	}
	b, _ := json.Marshal(it)
	_ = h.Cache.Set(ctx, key, string(b), redisx.TTLItemCache)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *ItemsHandler) getByName(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	it, err := h.Store.SearchItemByName(ctx, chi.URLParam(r, "name"))
	if err != nil {
		writeItemErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	skip, limit := pageParams(r)
	its, err := h.Store.ListItems(ctx, skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, its)
}

func (h *ItemsHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, ok := decodeItem(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	it, err := h.Store.UpdateItem(ctx, id, itemFromReq(req))
	if err != nil {
		writeItemErr(w, err)
		return
	}
	_ = h.Cache.Del(ctx, fmt.Sprintf(redisx.KeyItemCache, id))
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	it, err := h.Store.DeleteItem(ctx, id)
	if err != nil {
		writeItemErr(w, err)
		return
	}
	_ = h.Cache.Del(ctx, fmt.Sprintf(redisx.KeyItemCache, id))
	writeJSON(w, http.StatusOK, it)
}

func itemFromReq(req ItemReq) inventory.Item {
	return inventory.Item{
		Name:              req.Name,
		Description:       req.Description,
		ManufacturerName:  req.ManufacturerName,
		ManufacturerEmail: req.ManufacturerEmail,
		InStock:           req.InStock,
		ReorderQuantity:   req.ReorderQuantity,
	}
}

func decodeItem(w http.ResponseWriter, r *http.Request) (ItemReq, bool) {
	var req ItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return req, false
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return req, false
	}
	if req.InStock < 0 || req.ReorderQuantity < 0 {
		writeError(w, http.StatusBadRequest, "in_stock and reorder_quantity must be non-negative")
		return req, false
	}
	return req, true
}

func writeItemErr(w http.ResponseWriter, err error) {
	if errors.Is(err, inventory.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
