// internal/services/service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cellcare/pos-backend/internal/config"
	"github.com/cellcare/pos-backend/internal/models"
)

// openTestDB opens an in-memory sqlite database shared by a single
// connection so concurrent goroutines see one store.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.Order{},
		&models.Sale{},
	))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func testStore() config.StoreConfig {
	return config.StoreConfig{
		Name:    "CellCare (PVT) LTD",
		Address: "No. 123, Main Street, Colombo",
		Phone:   "+94 11 234 5678",
		TaxRate: 0,
	}
}

// seedProduct creates a variant-less product with the given base stock.
func seedProduct(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, purchased, selling float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:           name,
		Brand:          "Generic",
		BasePrice:      purchased,
		PurchasedPrice: purchased,
		SellingPrice:   selling,
		MainCategory:   "Accessories",
		Description:    name,
		Images:         []string{"https://example.com/" + name + ".jpg"},
	}
	product.OwnerID = ownerID
	if stock > 0 {
		require.NoError(t, product.ApplyStockDelta(stock))
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// seedVariantProduct creates a product whose stock is spread over variants.
func seedVariantProduct(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, variants models.VariantList) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:           name,
		Brand:          "Generic",
		BasePrice:      variants[0].PurchasedPrice,
		PurchasedPrice: variants[0].PurchasedPrice,
		SellingPrice:   variants[0].SellingPrice,
		MainCategory:   "Phones",
		Description:    name,
		Images:         []string{"https://example.com/" + name + ".jpg"},
		Variants:       variants,
		OwnerID:        ownerID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func reloadProduct(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Product {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return &product
}
