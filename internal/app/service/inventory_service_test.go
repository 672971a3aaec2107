package service

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/app/repository"
	"github.com/tuffwear/tuff-backend/internal/db"
	"gorm.io/gorm"
)

func setupInventoryServiceTest(t *testing.T) (InventoryService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	alertRepo := repository.NewInventoryAlertRepository(testDB)
	return NewInventoryService(productRepo, alertRepo, 5), testDB
}

func stockedProduct(sku string, stock int) *model.Product {
	return &model.Product{
		Name:           "Test " + sku,
		Price:          10000,
		SKU:            sku,
		Category:       "tees",
		Sizes:          pq.StringArray{"M"},
		InventoryCount: stock,
		IsActive:       true,
	}
}

func TestInventoryService_Sweep_RaisesAlert(t *testing.T) {
	service, testDB := setupInventoryServiceTest(t)

	require.NoError(t, testDB.Create(stockedProduct("LOW-001", 2)).Error)
	require.NoError(t, testDB.Create(stockedProduct("OK-001", 50)).Error)

	require.NoError(t, service.Sweep())

	alerts, err := service.ListAlerts()
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "LOW-001", alerts[0].Product.SKU)
	assert.Equal(t, 5, alerts[0].Threshold)
	assert.False(t, alerts[0].IsResolved)
}

func TestInventoryService_Sweep_NoDuplicateAlerts(t *testing.T) {
	service, testDB := setupInventoryServiceTest(t)

	require.NoError(t, testDB.Create(stockedProduct("LOW-002", 1)).Error)

	require.NoError(t, service.Sweep())
	require.NoError(t, service.Sweep())

	alerts, err := service.ListAlerts()
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestInventoryService_Sweep_ResolvesOnRestock(t *testing.T) {
	service, testDB := setupInventoryServiceTest(t)

	product := stockedProduct("LOW-003", 1)
	require.NoError(t, testDB.Create(product).Error)
	require.NoError(t, service.Sweep())

	require.NoError(t, testDB.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Update("inventory_count", 20).Error)
	require.NoError(t, service.Sweep())

	alerts, err := service.ListAlerts()
	require.NoError(t, err)
	assert.Empty(t, alerts)

	// The resolved alert is kept for history.
	var count int64
	testDB.Model(&model.InventoryAlert{}).Where("product_id = ? AND is_resolved = ?", product.ID, true).Count(&count)
	assert.Equal(t, int64(1), count)
}
