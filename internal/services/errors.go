// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cellcare/pos-backend/internal/models"
)

// Expected outcomes surfaced verbatim to the caller. None of these are
// retried automatically.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("item not found in cart")
	ErrOrderNotFound    = errors.New("order not found")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrEmptySale        = errors.New("sale must contain at least one item")
	ErrInvalidQuantity  = errors.New("quantity must be greater than 0")
	ErrInvalidStatus    = errors.New("invalid order status")
)

// InsufficientStockError reports which product lacked stock at validation
// time. It matches models.ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
			e.Name, e.Available, e.Requested)
	}
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == models.ErrInsufficientStock
}

func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
