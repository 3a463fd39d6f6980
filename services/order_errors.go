package services

import (
	"errors"
	"fmt"
)

// ErrOrderTotalOverflow signals that an order total exceeded the int64
// range. Treated as an internal error: totals this size never come from
// a legitimate cart, and silent wraparound must never reach storage.
var ErrOrderTotalOverflow = errors.New("order total overflows supported range")

// InvalidCartError rejects a malformed cart before any storage work.
type InvalidCartError struct {
	Reason string
}

func (e *InvalidCartError) Error() string {
	return e.Reason
}

// ProductNotFoundError identifies the cart line whose product reference
// resolved to nothing.
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ProductID)
}

// InsufficientStockError carries available vs requested counts plus the
// product title for caller display.
type InsufficientStockError struct {
	ProductID uint
	Title     string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d left for %s", e.Available, e.Title)
}
