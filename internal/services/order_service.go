// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cellcare/pos-backend/internal/models"
	"github.com/cellcare/pos-backend/internal/utils"
)

// OrderService converts a cart into a committed order. Validation and
// deduction run as one unit under the cart owner's lock plus the stock
// guards of every product in the cart, inside a single database
// transaction, so two concurrent checkouts can never both pass validation
// against stale stock.
type OrderService struct {
	db    *gorm.DB
	guard *StockGuard
	carts *CartService
}

type CreateOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address" validate:"required"`
}

func NewOrderService(db *gorm.DB, guard *StockGuard, carts *CartService) *OrderService {
	return &OrderService{db: db, guard: guard, carts: carts}
}

// CreateOrder checks out the owner's cart. Either every line's stock is
// deducted and the order persisted, or nothing changes: a single
// under-stocked line fails the whole operation before any deduction.
func (s *OrderService) CreateOrder(ownerID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Hold the cart still for the duration of checkout.
	unlockCart := s.carts.carts.Lock(ownerID)
	defer unlockCart()

	cart, err := s.carts.GetCart(ownerID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	productIDs := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	// Per-product exclusion, acquired in ascending id order.
	unlockStock := s.guard.Lock(productIDs)
	defer unlockStock()

	var order *models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Pass 1: validate every line against current stock. No deduction
		// happens until all lines pass.
		products := make([]*models.Product, 0, len(cart.Items))
		for _, item := range cart.Items {
			product, err := findProductByIDAndOwner(tx, item.ProductID, ownerID)
			if err != nil {
				return err
			}
			if available := product.AggregateStock(); available < item.Quantity {
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: item.Quantity,
					Available: available,
				}
			}
			products = append(products, product)
		}

		// Pass 2: deduct. The transaction rolls every delta back if any
		// write fails, so no half-applied checkout is ever observable.
		for i, item := range cart.Items {
			if err := products[i].ApplyStockDelta(-item.Quantity); err != nil {
				return err
			}
			if err := tx.Model(products[i]).Update("variants", products[i].Variants).Error; err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}
		}

		items := make(models.OrderItemList, 0, len(cart.Items))
		for _, item := range cart.Items {
			items = append(items, models.OrderItem(item))
		}

		order = &models.Order{
			OwnerID:         ownerID,
			Items:           items,
			Total:           cart.Total,
			Status:          models.OrderStatusPending,
			ShippingAddress: req.ShippingAddress,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		// Clear the cart as part of the same transaction; a failed
		// checkout must never leave the cart emptied.
		if err := tx.Model(cart).Updates(map[string]interface{}{
			"items": models.CartItemList{},
			"total": 0.0,
		}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *OrderService) GetOrders(ownerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(id, ownerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// UpdateOrderStatus overwrites the status. Transitions are staff-driven and
// intentionally unvalidated beyond the value set; any status may follow any
// other.
func (s *OrderService) UpdateOrderStatus(id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&order).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return &order, nil
}
