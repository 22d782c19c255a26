// internal/models/product.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrInsufficientStock is returned by ApplyStockDelta when a deduction
// exceeds the product's aggregate stock. No variant is mutated in that case.
var ErrInsufficientStock = errors.New("insufficient stock")

// DefaultVariantID names the synthetic variant materialized from the
// product's base fields the first time stock is adjusted on a variant-less
// product.
const DefaultVariantID = "default"

// Variant is a purchasable configuration of a product (color/RAM/storage)
// carrying its own stock and pricing.
type Variant struct {
	ID             string  `json:"id"`
	Color          string  `json:"color,omitempty"`
	RAM            string  `json:"ram,omitempty"`
	Storage        string  `json:"storage,omitempty"`
	PurchasedPrice float64 `json:"purchased_price"`
	SellingPrice   float64 `json:"selling_price"`
	Stock          int     `json:"stock"`
}

// VariantList is stored as a JSONB column; variant order is significant
// (deductions sweep left to right).
type VariantList []Variant

func (v VariantList) Value() (driver.Value, error) {
	if v == nil {
		return json.Marshal(VariantList{})
	}
	return json.Marshal(v)
}

func (v *VariantList) Scan(value interface{}) error {
	if value == nil {
		*v = nil
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

	return json.Unmarshal(bytes, v)
}

type Product struct {
	BaseModel
	Name             string         `json:"name" gorm:"size:255;not null;index"`
	Brand            string         `json:"brand" gorm:"size:100;not null"`
	BasePrice        float64        `json:"base_price" gorm:"type:decimal(10,2);not null"`
	PurchasedPrice   float64        `json:"purchased_price" gorm:"type:decimal(10,2);not null"`
	SellingPrice     float64        `json:"selling_price" gorm:"type:decimal(10,2);not null"`
	PromotionalPrice *float64       `json:"promotional_price,omitempty" gorm:"type:decimal(10,2)"`
	MainCategory     string         `json:"main_category" gorm:"size:100;not null;index"`
	SubCategory      string         `json:"sub_category,omitempty" gorm:"size:100"`
	SubSubCategory   string         `json:"sub_sub_category,omitempty" gorm:"size:100"`
	Description      string         `json:"description" gorm:"type:text"`
	Images           pq.StringArray `json:"images" gorm:"type:text[]"`
	Specifications   JSONB          `json:"specifications" gorm:"type:jsonb"`
	AvailableOptions JSONB          `json:"available_options" gorm:"type:jsonb"`
	Variants         VariantList    `json:"variants" gorm:"type:jsonb"`
	OwnerID          uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Owner User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}

// AggregateStock sums stock across all variants. A variant-less product
// has zero stock until a default variant is materialized.
func (p *Product) AggregateStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// DefaultSellingPrice is the first variant's selling price when any variant
// exists, else the product's base selling price. Used wherever a single
// representative price is needed.
func (p *Product) DefaultSellingPrice() float64 {
	if len(p.Variants) > 0 {
		return p.Variants[0].SellingPrice
	}
	return p.SellingPrice
}

// DefaultPurchasedPrice mirrors DefaultSellingPrice for the cost side.
func (p *Product) DefaultPurchasedPrice() float64 {
	if len(p.Variants) > 0 {
		return p.Variants[0].PurchasedPrice
	}
	return p.PurchasedPrice
}

// EnsureDefaultVariant materializes the implicit "default" variant from the
// product's base fields. Cart, order and sale paths all go through the
// variant list, so a variant-less product behaves the same everywhere.
func (p *Product) EnsureDefaultVariant() {
	if len(p.Variants) == 0 {
		p.Variants = VariantList{{
			ID:             DefaultVariantID,
			PurchasedPrice: p.PurchasedPrice,
			SellingPrice:   p.SellingPrice,
			Stock:          0,
		}}
	}
}

// ApplyStockDelta deducts (delta < 0) or restocks (delta > 0) variant stock.
//
// Deductions sweep variants left to right, depleting each before moving to
// the next. If the requested quantity exceeds aggregate stock no variant is
// touched and ErrInsufficientStock is returned. Restocks go to the first
// variant, materializing the default variant when the product has none.
func (p *Product) ApplyStockDelta(delta int) error {
	p.EnsureDefaultVariant()

	if delta >= 0 {
		p.Variants[0].Stock += delta
		return nil
	}

	remaining := -delta
	if remaining > p.AggregateStock() {
		return ErrInsufficientStock
	}

	for i := range p.Variants {
		if remaining <= 0 {
			break
		}
		take := p.Variants[i].Stock
		if take > remaining {
			take = remaining
		}
		p.Variants[i].Stock -= take
		remaining -= take
	}
	return nil
}
