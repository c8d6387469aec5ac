package inventory

import "errors"

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("order quantity exceeds available stock")
	ErrInvalidQuantity   = errors.New("order quantity must be positive")

	// ErrConflict marks a serialization/deadlock abort from the store.
	// PlaceOrder retries these internally before giving up.
	ErrConflict = errors.New("concurrent stock update conflict")
)
