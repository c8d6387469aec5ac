package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memStore implements Store in memory. Begin takes the store lock and holds
// it until Commit or Rollback, which mirrors the per-item row lock the pgx
// store relies on.
type memStore struct {
	mu        sync.Mutex
	items     map[string]Item
	customers map[string]bool
	orders    []Order
	logs      []ReorderLog

	begun         int32
	conflictsLeft int32 // Commit fails with ErrConflict while > 0
	commitErr     error // non-conflict commit failure
}

func newMemStore(items ...Item) *memStore {
	s := &memStore{
		items:     map[string]Item{},
		customers: map[string]bool{"cust-1": true},
	}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *memStore) Begin(ctx context.Context) (Tx, error) {
	s.mu.Lock()
	atomic.AddInt32(&s.begun, 1)
	return &memTx{store: s, stagedStock: map[string]int{}}, nil
}

type memTx struct {
	store        *memStore
	done         bool
	stagedStock  map[string]int
	stagedOrders []Order
	stagedLogs   []ReorderLog
}

func (t *memTx) FindItemForUpdate(_ context.Context, itemID string) (Item, error) {
	it, ok := t.store.items[itemID]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return it, nil
}

func (t *memTx) CustomerExists(_ context.Context, customerID string) (bool, error) {
	return t.store.customers[customerID], nil
}

func (t *memTx) UpdateItemStock(_ context.Context, itemID string, inStock int) error {
	t.stagedStock[itemID] = inStock
	return nil
}

func (t *memTx) InsertOrder(_ context.Context, o Order) (Order, error) {
	o.ID = fmt.Sprintf("order-%d", len(t.store.orders)+len(t.stagedOrders)+1)
	t.stagedOrders = append(t.stagedOrders, o)
	return o, nil
}

func (t *memTx) InsertReorderLog(_ context.Context, itemID string) (ReorderLog, error) {
	rl := ReorderLog{
		ID:        fmt.Sprintf("log-%d", len(t.store.logs)+len(t.stagedLogs)+1),
		ItemID:    itemID,
		CreatedAt: time.Now(),
	}
	t.stagedLogs = append(t.stagedLogs, rl)
	return rl, nil
}

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return errors.New("tx already closed")
	}
	t.done = true
	defer t.store.mu.Unlock()

	if atomic.LoadInt32(&t.store.conflictsLeft) > 0 {
		atomic.AddInt32(&t.store.conflictsLeft, -1)
		return fmt.Errorf("%w: injected", ErrConflict)
	}
	if t.store.commitErr != nil {
		return t.store.commitErr
	}

	for id, stock := range t.stagedStock {
		it := t.store.items[id]
		it.InStock = stock
		t.store.items[id] = it
	}
	t.store.orders = append(t.store.orders, t.stagedOrders...)
	t.store.logs = append(t.store.logs, t.stagedLogs...)
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func testItem(stock, reorder int) Item {
	return Item{
		ID:                "item-1",
		Name:              "Widget",
		ManufacturerName:  "Acme",
		ManufacturerEmail: "orders@acme.test",
		InStock:           stock,
		ReorderQuantity:   reorder,
	}
}

func TestPlaceOrderDecrementsStockAndFlagsReorder(t *testing.T) {
	store := newMemStore(testItem(100, 20))
	svc := &Service{Store: store}

	po, err := svc.PlaceOrder(context.Background(), "item-1", "cust-1", 85)
	require.NoError(t, err)

	require.Equal(t, 15, store.items["item-1"].InStock)
	require.Equal(t, 15, po.Item.InStock)
	require.True(t, po.ReorderFlagged)
	require.Len(t, store.orders, 1)
	require.Len(t, store.logs, 1)
	require.Equal(t, "item-1", store.logs[0].ItemID)
	require.Equal(t, 85, store.orders[0].OrderQuantity)
	require.NotEmpty(t, po.Order.ID)
}

func TestPlaceOrderNoLogAtExactThreshold(t *testing.T) {
	store := newMemStore(testItem(100, 20))
	svc := &Service{Store: store}

	po, err := svc.PlaceOrder(context.Background(), "item-1", "cust-1", 80)
	require.NoError(t, err)

	// 20 is not strictly below 20
	require.Equal(t, 20, store.items["item-1"].InStock)
	require.False(t, po.ReorderFlagged)
	require.Empty(t, store.logs)
	require.Len(t, store.orders, 1)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	store := newMemStore(testItem(5, 0))
	svc := &Service{Store: store}

	_, err := svc.PlaceOrder(context.Background(), "item-1", "cust-1", 10)
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, 5, store.items["item-1"].InStock)
	require.Empty(t, store.orders)
	require.Empty(t, store.logs)
}

func TestPlaceOrderAllowsStockToReachZero(t *testing.T) {
	store := newMemStore(testItem(5, 3))
	svc := &Service{Store: store}

	po, err := svc.PlaceOrder(context.Background(), "item-1", "cust-1", 5)
	require.NoError(t, err)
	require.Equal(t, 0, store.items["item-1"].InStock)
	require.True(t, po.ReorderFlagged)
}

func TestPlaceOrderRejectsNonPositiveQuantity(t *testing.T) {
	store := newMemStore(testItem(100, 20))
	svc := &Service{Store: store}

	for _, qty := range []int{0, -3} {
		_, err := svc.PlaceOrder(context.Background(), "item-1", "cust-1", qty)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
	require.Zero(t, atomic.LoadInt32(&store.begun), "no transaction should be opened")
}

func TestPlaceOrderUnknownItem(t *testing.T) {
	store := newMemStore()
	svc := &Service{Store: store}

	_, err := svc.PlaceOrder(context.Background(), "ghost", "cust-1", 1)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestPlaceOrderUnknownCustomer(t *testing.T) {
	store := newMemStore(testItem(100, 20))
	svc := &Service{Store: store}

	_, err := svc.PlaceOrder(context.Background(), "item-1", "ghost", 1)
	require.ErrorIs(t, err, ErrCustomerNotFound)
	require.Equal(t, 100, store.items["item-1"].InStock)
	require.Empty(t, store.orders)
}

func TestPlaceOrderRetriesConflicts(t *testing.T) {
	store := newMemStore(testItem(100, 20))
	store.conflictsLeft = 2
	svc := &Service{Store: store}

	_, err := svc.PlaceOrder(context.Background(), "item-1", "cust-1", 10)
	require.NoError(t, err)

	// exactly one decrement survives the retries
	require.Equal(t, 90, store.items["item-1"].InStock)
	require.Len(t, store.orders, 1)
	require.EqualValues(t, 3, store.begun)
}

func TestPlaceOrderGivesUpAfterBoundedConflicts(t *testing.T) {
	store := newMemStore(testItem(100, 20))
	store.conflictsLeft = 100
	svc := &Service{Store: store}

	_, err := svc.PlaceOrder(context.Background(), "item-1", "cust-1", 10)
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, 100, store.items["item-1"].InStock)
	require.Empty(t, store.orders)
	require.EqualValues(t, maxConflictAttempts, store.begun)
}

func TestPlaceOrderStorageFailureLeavesNoPartialEffects(t *testing.T) {
	store := newMemStore(testItem(100, 90))
	store.commitErr = errors.New("connection reset")
	svc := &Service{Store: store}

	_, err := svc.PlaceOrder(context.Background(), "item-1", "cust-1", 50)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrConflict)

	require.Equal(t, 100, store.items["item-1"].InStock)
	require.Empty(t, store.orders)
	require.Empty(t, store.logs)
	require.EqualValues(t, 1, store.begun, "storage failures are not retried")
}

func TestPlaceOrderConcurrentConservation(t *testing.T) {
	const (
		initialStock = 100
		requests     = 50
		qty          = 3
	)
	store := newMemStore(testItem(initialStock, 0))
	svc := &Service{Store: store}

	var wg sync.WaitGroup
	var successes atomic.Int32
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), "item-1", "cust-1", qty)
			if err == nil {
				successes.Add(1)
			} else if !errors.Is(err, ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	final := store.items["item-1"].InStock
	require.GreaterOrEqual(t, final, 0, "stock must never go negative")
	require.Equal(t, initialStock, final+int(successes.Load())*qty,
		"sum of accepted decrements plus final stock must equal initial stock")
	require.Len(t, store.orders, int(successes.Load()))
}

func TestPlaceOrderConcurrentOverdraw(t *testing.T) {
	store := newMemStore(testItem(100, 20))
	svc := &Service{Store: store}

	var wg sync.WaitGroup
	var successes atomic.Int32
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.PlaceOrder(context.Background(), "item-1", "cust-1", 60); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, successes.Load(), "only one of two 60-unit orders fits in 100")
	require.Equal(t, 40, store.items["item-1"].InStock)
}
