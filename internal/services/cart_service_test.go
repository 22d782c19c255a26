// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellcare/pos-backend/internal/models"
)

func TestGetCartCreatesEmptyCart(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ownerID := uuid.New()

	cart, err := svc.GetCart(ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, cart.OwnerID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total)

	// Second call returns the same cart, not a new one.
	again, err := svc.GetCart(ownerID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddToCartNewLine(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ownerID := uuid.New()
	product := seedProduct(t, db, ownerID, "screen-protector", 200, 350, 10)

	cart, err := svc.AddToCart(ownerID, &AddToCartRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 350.0, cart.Items[0].Price)
	assert.Equal(t, 1050.0, cart.Total)
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ownerID := uuid.New()
	product := seedProduct(t, db, ownerID, "charger", 900, 1500, 10)

	_, err := svc.AddToCart(ownerID, &AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.AddToCart(ownerID, &AddToCartRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 7500.0, cart.Total)
}

func TestAddToCartValidatesAggregateStock(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ownerID := uuid.New()
	product := seedProduct(t, db, ownerID, "earbuds", 3000, 4500, 5)

	_, err := svc.AddToCart(ownerID, &AddToCartRequest{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)

	// Line already stages all 5 units; one more must fail.
	_, err = svc.AddToCart(ownerID, &AddToCartRequest{ProductID: product.ID, Quantity: 1})
	assert.True(t, IsInsufficientStock(err))

	// No stock was deducted by staging.
	assert.Equal(t, 5, reloadProduct(t, db, product.ID).AggregateStock())
}

func TestAddToCartUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)

	_, err := svc.AddToCart(uuid.New(), &AddToCartRequest{ProductID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddToCartCrossOwnerIsNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	product := seedProduct(t, db, uuid.New(), "case", 400, 800, 10)

	_, err := svc.AddToCart(uuid.New(), &AddToCartRequest{ProductID: product.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddToCartRefreshesPriceSnapshotOnReAdd(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ownerID := uuid.New()
	product := seedProduct(t, db, ownerID, "power-bank", 2500, 4000, 10)

	_, err := svc.AddToCart(ownerID, &AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	// Price change after staging does not touch the existing line.
	repriced := models.VariantList{{ID: models.DefaultVariantID, PurchasedPrice: 2500, SellingPrice: 3500, Stock: 10}}
	require.NoError(t, db.Model(product).Update("variants", repriced).Error)
	cart, err := svc.GetCart(ownerID)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, cart.Items[0].Price)

	// Re-adding refreshes the snapshot for the whole line.
	cart, err = svc.AddToCart(ownerID, &AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 3500.0, cart.Items[0].Price)
	assert.Equal(t, 7000.0, cart.Total)
}

func TestUpdateCartItemAbsoluteQuantity(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ownerID := uuid.New()
	product := seedProduct(t, db, ownerID, "sim-tool", 50, 120, 8)

	_, err := svc.AddToCart(ownerID, &AddToCartRequest{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)

	cart, err := svc.UpdateCartItem(ownerID, product.ID, &UpdateCartItemRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 240.0, cart.Total)

	_, err = svc.UpdateCartItem(ownerID, product.ID, &UpdateCartItemRequest{Quantity: 9})
	assert.True(t, IsInsufficientStock(err))
}

func TestUpdateCartItemMissingLine(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ownerID := uuid.New()
	product := seedProduct(t, db, ownerID, "tempered-glass", 150, 300, 5)

	_, err := svc.UpdateCartItem(ownerID, product.ID, &UpdateCartItemRequest{Quantity: 1})
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestRemoveFromCart(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ownerID := uuid.New()
	keep := seedProduct(t, db, ownerID, "keep", 100, 200, 5)
	drop := seedProduct(t, db, ownerID, "drop", 100, 300, 5)

	_, err := svc.AddToCart(ownerID, &AddToCartRequest{ProductID: keep.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddToCart(ownerID, &AddToCartRequest{ProductID: drop.ID, Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.RemoveFromCart(ownerID, drop.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, keep.ID, cart.Items[0].ProductID)
	assert.Equal(t, 200.0, cart.Total)

	// Removing an absent product is a no-op, not an error.
	cart, err = svc.RemoveFromCart(ownerID, uuid.New())
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestClearCart(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ownerID := uuid.New()
	product := seedProduct(t, db, ownerID, "cable", 200, 450, 6)

	_, err := svc.AddToCart(ownerID, &AddToCartRequest{ProductID: product.ID, Quantity: 4})
	require.NoError(t, err)

	cart, err := svc.ClearCart(ownerID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.Total)

	// The cart record survives clearing.
	again, err := svc.GetCart(ownerID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}
