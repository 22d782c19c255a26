// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The model DDL must stay portable: the same AutoMigrate set runs against
// Postgres in production and SQLite in tests, so BaseModel cannot lean on a
// database default expression for its primary key.
func TestAutoMigrateOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, db.AutoMigrate(
		&User{},
		&Category{},
		&Product{},
		&Cart{},
		&Order{},
		&Sale{},
	))

	product := &Product{
		Name:           "screen protector",
		Brand:          "Generic",
		PurchasedPrice: 100,
		SellingPrice:   150,
		MainCategory:   "Accessories",
		Description:    "migration fixture",
		Images:         []string{"https://example.com/x.jpg"},
		OwnerID:        uuid.New(),
	}
	require.NoError(t, db.Create(product).Error)
	assert.NotEqual(t, uuid.Nil, product.ID)

	var reloaded Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, product.ID, reloaded.ID)
}
