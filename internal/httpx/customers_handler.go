package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyod/go-inventory-orders/internal/inventory"
)

type CustomerStore interface {
	CreateCustomer(ctx context.Context, c inventory.Customer) (inventory.Customer, error)
	GetCustomer(ctx context.Context, id string) (inventory.Customer, error)
	GetCustomerByName(ctx context.Context, name string) (inventory.Customer, error)
	ListCustomers(ctx context.Context, skip, limit int) ([]inventory.Customer, error)
	UpdateCustomer(ctx context.Context, id string, c inventory.Customer) (inventory.Customer, error)
}

type CustomersHandler struct {
	Store CustomerStore
}

type CustomerReq struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	ZipCode string `json:"zip_code"`
}

func (h *CustomersHandler) Register(r *chi.Mux) {
	r.Post("/customers", h.create)
	r.Get("/customers", h.list)
	r.Get("/customers/{id}", h.get)
	r.Get("/customers/by_name/{name}", h.getByName)
	r.Put("/customers/{id}", h.update)
}

func (h *CustomersHandler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCustomer(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Store.CreateCustomer(ctx, inventory.Customer{
		Name: req.Name, Address: req.Address, ZipCode: req.ZipCode,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, ok := decodeCustomer(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Store.UpdateCustomer(ctx, id, inventory.Customer{
		Name: req.Name, Address: req.Address, ZipCode: req.ZipCode,
	})
	if err != nil {
		writeCustomerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Store.GetCustomer(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeCustomerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) getByName(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Store.GetCustomerByName(ctx, chi.URLParam(r, "name"))
	if err != nil {
		writeCustomerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	skip, limit := pageParams(r)
	cs, err := h.Store.ListCustomers(ctx, skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func decodeCustomer(w http.ResponseWriter, r *http.Request) (CustomerReq, bool) {
	var req CustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return req, false
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return req, false
	}
	return req, true
}

func writeCustomerErr(w http.ResponseWriter, err error) {
	if errors.Is(err, inventory.ErrCustomerNotFound) {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
