package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prasetyod/go-inventory-orders/internal/inventory"
	"github.com/stretchr/testify/require"
)

type fakeCustomerStore struct {
	customers map[string]inventory.Customer
}

func newFakeCustomerStore(cs ...inventory.Customer) *fakeCustomerStore {
	s := &fakeCustomerStore{customers: map[string]inventory.Customer{}}
	for _, c := range cs {
		s.customers[c.ID] = c
	}
	return s
}

func (f *fakeCustomerStore) CreateCustomer(ctx context.Context, c inventory.Customer) (inventory.Customer, error) {
	c.ID = "cust-new"
	f.customers[c.ID] = c
	return c, nil
}

func (f *fakeCustomerStore) GetCustomer(ctx context.Context, id string) (inventory.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return inventory.Customer{}, inventory.ErrCustomerNotFound
	}
	return c, nil
}

func (f *fakeCustomerStore) GetCustomerByName(ctx context.Context, name string) (inventory.Customer, error) {
	for _, c := range f.customers {
		if c.Name == name {
			return c, nil
		}
	}
	return inventory.Customer{}, inventory.ErrCustomerNotFound
}

func (f *fakeCustomerStore) ListCustomers(ctx context.Context, skip, limit int) ([]inventory.Customer, error) {
	out := []inventory.Customer{}
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerStore) UpdateCustomer(ctx context.Context, id string, c inventory.Customer) (inventory.Customer, error) {
	if _, ok := f.customers[id]; !ok {
		return inventory.Customer{}, inventory.ErrCustomerNotFound
	}
	c.ID = id
	f.customers[id] = c
	return c, nil
}

func serveCustomers(h *CustomersHandler, method, path, body string) *httptest.ResponseRecorder {
	router := NewRouter()
	h.Register(router)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetCustomer(t *testing.T) {
	store := newFakeCustomerStore()
	h := &CustomersHandler{Store: store}

	rec := serveCustomers(h, http.MethodPost, "/customers",
		`{"name":"Test Customer","address":"123 Test St","zip_code":"12345"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got inventory.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Test Customer", got.Name)
	require.NotEmpty(t, got.ID)

	rec = serveCustomers(h, http.MethodGet, "/customers/"+got.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serveCustomers(h, http.MethodPost, "/customers",
		`{"name":"Alice","address":"9 Elm","zip_code":"99999"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serveCustomers(h, http.MethodGet, "/customers/by_name/Alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateCustomerRequiresName(t *testing.T) {
	h := &CustomersHandler{Store: newFakeCustomerStore()}
	rec := serveCustomers(h, http.MethodPost, "/customers", `{"address":"123 Test St"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCustomer(t *testing.T) {
	store := newFakeCustomerStore(inventory.Customer{ID: "cust-1", Name: "Old"})
	h := &CustomersHandler{Store: store}

	rec := serveCustomers(h, http.MethodPut, "/customers/cust-1",
		`{"name":"Updated Customer","address":"456 Updated St","zip_code":"54321"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Updated Customer", store.customers["cust-1"].Name)

	rec = serveCustomers(h, http.MethodPut, "/customers/ghost",
		`{"name":"Nobody","address":"","zip_code":""}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCustomerNotFound(t *testing.T) {
	h := &CustomersHandler{Store: newFakeCustomerStore()}
	rec := serveCustomers(h, http.MethodGet, "/customers/ghost", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
