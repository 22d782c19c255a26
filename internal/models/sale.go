// internal/models/sale.go
package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// SaleItem is immutable once the sale is committed. Price is the selling
// price captured at sale time.
type SaleItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

type SaleItemList []SaleItem

func (l SaleItemList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(SaleItemList{})
	}
	return json.Marshal(l)
}

func (l *SaleItemList) Scan(value interface{}) error {
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

// Sale is a direct in-store transaction recorded at the counter, bypassing
// the cart. Profit is the sum of (selling - purchased) * quantity with the purchase
// price captured at sale time.
type Sale struct {
	BaseModel
	ReceiptNumber string       `json:"receipt_number" gorm:"size:32;uniqueIndex;not null"`
	Items         SaleItemList `json:"items" gorm:"type:jsonb"`
	Total         float64      `json:"total" gorm:"type:decimal(10,2);not null"`
	Profit        float64      `json:"profit" gorm:"type:decimal(10,2);not null"`
	CustomerName  string       `json:"customer_name,omitempty" gorm:"size:255"`
	OwnerID       uuid.UUID    `json:"owner_id" gorm:"type:uuid;not null;index"`
}
