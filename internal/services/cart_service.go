// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cellcare/pos-backend/internal/models"
)

// CartService is the staging area per customer. Every mutation recomputes
// the cached total before the cart is persisted; the total stored from a
// prior read is never trusted. Mutations to one owner's cart are serialized.
type CartService struct {
	db    *gorm.DB
	carts *ownerGuard
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db, carts: newOwnerGuard()}
}

// GetCart returns the owner's cart, creating an empty one on first access.
func (s *CartService) GetCart(ownerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Where("owner_id = ?", ownerID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	cart = models.Cart{OwnerID: ownerID, Items: models.CartItemList{}}
	if err := s.db.Create(&cart).Error; err != nil {
		// Lost a race with a concurrent first access; re-read.
		var existing models.Cart
		if retryErr := s.db.Where("owner_id = ?", ownerID).First(&existing).Error; retryErr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

// AddToCart increments an existing line or appends a new one at the
// product's current default selling price. The snapshot is not refreshed
// when the product's price later changes.
func (s *CartService) AddToCart(ownerID uuid.UUID, req *AddToCartRequest) (*models.Cart, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	unlock := s.carts.Lock(ownerID)
	defer unlock()

	product, err := findProductByIDAndOwner(s.db, req.ProductID, ownerID)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetCart(ownerID)
	if err != nil {
		return nil, err
	}

	totalStock := product.AggregateStock()
	requested := req.Quantity
	idx := cart.FindItem(req.ProductID)
	if idx >= 0 {
		requested += cart.Items[idx].Quantity
	}
	if totalStock < requested {
		return nil, &InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: requested,
			Available: totalStock,
		}
	}

	if idx >= 0 {
		cart.Items[idx].Quantity = requested
		// Re-adding a product refreshes its price snapshot.
		cart.Items[idx].Price = product.DefaultSellingPrice()
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: product.ID,
			Quantity:  req.Quantity,
			Price:     product.DefaultSellingPrice(),
		})
	}

	return s.saveCart(cart)
}

// UpdateCartItem sets a line to an absolute quantity, validated against the
// product's current aggregate stock.
func (s *CartService) UpdateCartItem(ownerID, productID uuid.UUID, req *UpdateCartItemRequest) (*models.Cart, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	unlock := s.carts.Lock(ownerID)
	defer unlock()

	product, err := findProductByIDAndOwner(s.db, productID, ownerID)
	if err != nil {
		return nil, err
	}

	totalStock := product.AggregateStock()
	if totalStock < req.Quantity {
		return nil, &InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: req.Quantity,
			Available: totalStock,
		}
	}

	cart, err := s.GetCart(ownerID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}

	cart.Items[idx].Quantity = req.Quantity
	return s.saveCart(cart)
}

// RemoveFromCart drops the line if present. Removing an absent product is a
// no-op.
func (s *CartService) RemoveFromCart(ownerID, productID uuid.UUID) (*models.Cart, error) {
	unlock := s.carts.Lock(ownerID)
	defer unlock()

	cart, err := s.GetCart(ownerID)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items

	return s.saveCart(cart)
}

// ClearCart empties the cart. The cart record itself is kept.
func (s *CartService) ClearCart(ownerID uuid.UUID) (*models.Cart, error) {
	unlock := s.carts.Lock(ownerID)
	defer unlock()

	cart, err := s.GetCart(ownerID)
	if err != nil {
		return nil, err
	}

	cart.Items = models.CartItemList{}
	return s.saveCart(cart)
}

func (s *CartService) saveCart(cart *models.Cart) (*models.Cart, error) {
	cart.RecomputeTotal()
	if err := s.db.Model(cart).Updates(map[string]interface{}{
		"items": cart.Items,
		"total": cart.Total,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}
