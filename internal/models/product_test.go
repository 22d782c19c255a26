// internal/models/product_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func variantProduct() *Product {
	return &Product{
		Name:           "Galaxy A54",
		Brand:          "Samsung",
		PurchasedPrice: 80000,
		SellingPrice:   95000,
		Variants: VariantList{
			{ID: "black-128", Color: "Black", Storage: "128GB", PurchasedPrice: 80000, SellingPrice: 95000, Stock: 3},
			{ID: "white-128", Color: "White", Storage: "128GB", PurchasedPrice: 80000, SellingPrice: 95000, Stock: 2},
			{ID: "black-256", Color: "Black", Storage: "256GB", PurchasedPrice: 90000, SellingPrice: 105000, Stock: 4},
		},
	}
}

func TestAggregateStock(t *testing.T) {
	p := variantProduct()
	assert.Equal(t, 9, p.AggregateStock())

	empty := &Product{SellingPrice: 100}
	assert.Equal(t, 0, empty.AggregateStock())
}

func TestEnsureDefaultVariantMaterializesBaseFields(t *testing.T) {
	p := &Product{
		Name:           "USB-C Cable",
		PurchasedPrice: 300,
		SellingPrice:   500,
	}

	p.EnsureDefaultVariant()

	assert.Len(t, p.Variants, 1)
	assert.Equal(t, DefaultVariantID, p.Variants[0].ID)
	assert.Equal(t, 300.0, p.Variants[0].PurchasedPrice)
	assert.Equal(t, 500.0, p.Variants[0].SellingPrice)
	assert.Equal(t, 0, p.Variants[0].Stock)

	// Idempotent: a second call must not add another variant.
	p.EnsureDefaultVariant()
	assert.Len(t, p.Variants, 1)
}

func TestEnsureDefaultVariantKeepsExistingVariants(t *testing.T) {
	p := variantProduct()
	p.EnsureDefaultVariant()
	assert.Len(t, p.Variants, 3)
}

func TestApplyStockDeltaDeductsFirstFit(t *testing.T) {
	p := variantProduct()

	// 3 + 2 = 5 drains the first two variants in declaration order.
	err := p.ApplyStockDelta(-5)
	assert.NoError(t, err)
	assert.Equal(t, 0, p.Variants[0].Stock)
	assert.Equal(t, 0, p.Variants[1].Stock)
	assert.Equal(t, 4, p.Variants[2].Stock)
	assert.Equal(t, 4, p.AggregateStock())
}

func TestApplyStockDeltaPartialSweep(t *testing.T) {
	p := variantProduct()

	err := p.ApplyStockDelta(-4)
	assert.NoError(t, err)
	assert.Equal(t, 0, p.Variants[0].Stock)
	assert.Equal(t, 1, p.Variants[1].Stock)
	assert.Equal(t, 4, p.Variants[2].Stock)
}

func TestApplyStockDeltaAllOrNothing(t *testing.T) {
	p := variantProduct()

	err := p.ApplyStockDelta(-10)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// No variant was touched.
	assert.Equal(t, 3, p.Variants[0].Stock)
	assert.Equal(t, 2, p.Variants[1].Stock)
	assert.Equal(t, 4, p.Variants[2].Stock)
}

func TestApplyStockDeltaExactDrain(t *testing.T) {
	p := variantProduct()

	err := p.ApplyStockDelta(-9)
	assert.NoError(t, err)
	assert.Equal(t, 0, p.AggregateStock())

	err = p.ApplyStockDelta(-1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestApplyStockDeltaRestock(t *testing.T) {
	p := &Product{SellingPrice: 500, PurchasedPrice: 300}

	err := p.ApplyStockDelta(7)
	assert.NoError(t, err)
	assert.Equal(t, 7, p.AggregateStock())
	assert.Equal(t, DefaultVariantID, p.Variants[0].ID)

	// Restock always lands on the first variant.
	pv := variantProduct()
	err = pv.ApplyStockDelta(5)
	assert.NoError(t, err)
	assert.Equal(t, 8, pv.Variants[0].Stock)
	assert.Equal(t, 14, pv.AggregateStock())
}

func TestDefaultPrices(t *testing.T) {
	p := variantProduct()
	assert.Equal(t, 95000.0, p.DefaultSellingPrice())
	assert.Equal(t, 80000.0, p.DefaultPurchasedPrice())

	plain := &Product{SellingPrice: 1200, PurchasedPrice: 900}
	assert.Equal(t, 1200.0, plain.DefaultSellingPrice())
	assert.Equal(t, 900.0, plain.DefaultPurchasedPrice())
}
