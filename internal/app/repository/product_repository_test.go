package repository

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuffwear/tuff-backend/internal/app/model"
	"github.com/tuffwear/tuff-backend/internal/db"
)

func setupProductRepositoryTest(t *testing.T) ProductRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewProductRepository(testDB)
}

func repoProduct(sku string, price float64, stock int) *model.Product {
	return &model.Product{
		Name:           "Product " + sku,
		Price:          price,
		SKU:            sku,
		Category:       "tees",
		Sizes:          pq.StringArray{"M"},
		InventoryCount: stock,
		IsActive:       true,
	}
}

func TestProductRepository_FindBySKU(t *testing.T) {
	repo := setupProductRepositoryTest(t)

	require.NoError(t, repo.Create(repoProduct("TUFF-RP-001", 10000, 5)))

	found, err := repo.FindBySKU("TUFF-RP-001")
	require.NoError(t, err)
	assert.Equal(t, "Product TUFF-RP-001", found.Name)

	_, err = repo.FindBySKU("TUFF-RP-MISSING")
	assert.Error(t, err)
}

func TestProductRepository_FindWithFilter_Sorting(t *testing.T) {
	repo := setupProductRepositoryTest(t)

	require.NoError(t, repo.Create(repoProduct("TUFF-RP-002", 30000, 5)))
	require.NoError(t, repo.Create(repoProduct("TUFF-RP-003", 10000, 5)))
	require.NoError(t, repo.Create(repoProduct("TUFF-RP-004", 20000, 5)))

	ascending, err := repo.FindWithFilter(ProductFilter{SortBy: ProductSortPrice, SortAscending: true})
	require.NoError(t, err)
	require.Len(t, ascending, 3)
	assert.Equal(t, float64(10000), ascending[0].Price)
	assert.Equal(t, float64(30000), ascending[2].Price)

	descending, err := repo.FindWithFilter(ProductFilter{SortBy: ProductSortPrice})
	require.NoError(t, err)
	assert.Equal(t, float64(30000), descending[0].Price)
}

func TestProductRepository_FindWithFilter_Pagination(t *testing.T) {
	repo := setupProductRepositoryTest(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(repoProduct(fmt.Sprintf("TUFF-RP-1%02d", i), 10000, 5)))
	}

	page, err := repo.FindWithFilter(ProductFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestProductRepository_FindBelowStock(t *testing.T) {
	repo := setupProductRepositoryTest(t)

	require.NoError(t, repo.Create(repoProduct("TUFF-RP-200", 10000, 2)))
	require.NoError(t, repo.Create(repoProduct("TUFF-RP-201", 10000, 5)))
	require.NoError(t, repo.Create(repoProduct("TUFF-RP-202", 10000, 50)))

	low, err := repo.FindBelowStock(5)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "TUFF-RP-200", low[0].SKU)
}
