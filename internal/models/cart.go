// internal/models/cart.go
package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// CartItem is a staged line: quantity plus the selling price snapshotted at
// add time. The snapshot is deliberate state, not a live reference. Carts
// keep the price the customer saw; it refreshes only when the line is
// re-added.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

type CartItemList []CartItem

func (l CartItemList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(CartItemList{})
	}
	return json.Marshal(l)
}

func (l *CartItemList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}

	return json.Unmarshal(bytes, l)
}

// Cart is a per-customer staging area. Lines are unique by product id.
// Total is recomputed on every mutation before persistence, never lazily on
// read.
type Cart struct {
	BaseModel
	OwnerID uuid.UUID    `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex"`
	Items   CartItemList `json:"items" gorm:"type:jsonb"`
	Total   float64      `json:"total" gorm:"type:decimal(10,2);not null;default:0"`
}

// RecomputeTotal restores the invariant total == sum of price * quantity.
func (c *Cart) RecomputeTotal() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.Total = total
}

// FindItem returns the index of the line for productID, or -1.
func (c *Cart) FindItem(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
