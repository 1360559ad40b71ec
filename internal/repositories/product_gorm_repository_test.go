package repositories_test

import (
	"fmt"
	"testing"

	"katalog/internal/database"
	"katalog/internal/models"
	"katalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRepo opens a fresh in-memory SQLite database with the schema and
// sequence in place. Each test gets its own named database so state never
// leaks between tests.
func setupRepo(t *testing.T) *repositories.GORMProductRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))

	idGen := repositories.NewGORMSequenceGenerator(db)
	return repositories.NewGORMProductRepository(db, idGen)
}

func newTestProduct(name string, price float64, stock int, category string) *models.Product {
	return &models.Product{
		Name:           name,
		Price:          price,
		StockAvailable: stock,
		Category:       category,
	}
}

func TestGORMSequenceGenerator_MintsUniqueIncreasingIDs(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	idGen := repositories.NewGORMSequenceGenerator(db)

	seen := make(map[int]bool)
	prev := repositories.ProductIDSequenceStart
	for i := 0; i < 25; i++ {
		id, err := idGen.NextProductID()
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		assert.False(t, seen[id], "ID %d minted twice", id)
		seen[id] = true
		prev = id
	}

	// The first minted value sits just above the configured start.
	assert.True(t, seen[repositories.ProductIDSequenceStart+1])
}

func TestGORMSequenceGenerator_MissingSequenceRow(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	// Schema exists but the sequence row was never seeded.
	require.NoError(t, db.AutoMigrate(&models.Sequence{}))

	idGen := repositories.NewGORMSequenceGenerator(db)
	_, err = idGen.NextProductID()
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestGORMProductRepository_CreateMintsIDAndTimestamps(t *testing.T) {
	repo := setupRepo(t)

	product := newTestProduct("Widget", 9.99, 5, "Tools")
	require.NoError(t, repo.Create(product))

	assert.Greater(t, product.ProductID, repositories.ProductIDSequenceStart)
	assert.False(t, product.CreatedAt.IsZero())
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)

	// A second product gets a different ID.
	other := newTestProduct("Gadget", 19.99, 3, "Tools")
	require.NoError(t, repo.Create(other))
	assert.NotEqual(t, product.ProductID, other.ProductID)

	fetched, err := repo.GetByID(product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", fetched.Name)
	assert.Equal(t, 5, fetched.StockAvailable)
}

func TestGORMProductRepository_CreateKeepsExplicitID(t *testing.T) {
	repo := setupRepo(t)

	product := newTestProduct("Fixed", 1.50, 1, "Tools")
	product.ProductID = 42
	require.NoError(t, repo.Create(product))

	fetched, err := repo.GetByID(42)
	require.NoError(t, err)
	assert.Equal(t, "Fixed", fetched.Name)
}

func TestGORMProductRepository_GetByIDNotFound(t *testing.T) {
	repo := setupRepo(t)

	product, err := repo.GetByID(999999)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "999999")
}

func TestGORMProductRepository_UpdateRefreshesUpdatedAt(t *testing.T) {
	repo := setupRepo(t)

	product := newTestProduct("Widget", 9.99, 5, "Tools")
	require.NoError(t, repo.Create(product))
	createdAt := product.CreatedAt

	product.Name = "Widget v2"
	require.NoError(t, repo.Update(product))

	fetched, err := repo.GetByID(product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", fetched.Name)
	assert.Equal(t, createdAt.Unix(), fetched.CreatedAt.Unix())
	assert.False(t, fetched.UpdatedAt.Before(fetched.CreatedAt))
}

func TestGORMProductRepository_UpdateNotFound(t *testing.T) {
	repo := setupRepo(t)

	missing := newTestProduct("Ghost", 1.0, 1, "Tools")
	missing.ProductID = 999999
	err := repo.Update(missing)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// The failed update must not have inserted anything.
	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGORMProductRepository_DeleteIsIdempotentInEffect(t *testing.T) {
	repo := setupRepo(t)

	product := newTestProduct("Widget", 9.99, 5, "Tools")
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.Delete(product.ProductID))
	err := repo.Delete(product.ProductID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.GetByID(product.ProductID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGORMProductRepository_DecrementStock(t *testing.T) {
	repo := setupRepo(t)

	product := newTestProduct("Widget", 9.99, 5, "Tools")
	require.NoError(t, repo.Create(product))

	ok, err := repo.DecrementStock(product.ProductID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	fetched, err := repo.GetByID(product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.StockAvailable)

	// Insufficient stock fails the whole operation and leaves the row alone.
	ok, err = repo.DecrementStock(product.ProductID, 100)
	require.NoError(t, err)
	assert.False(t, ok)

	fetched, err = repo.GetByID(product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.StockAvailable)

	// Unknown product also fails.
	ok, err = repo.DecrementStock(999999, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGORMProductRepository_DecrementThenAddRestoresStock(t *testing.T) {
	repo := setupRepo(t)

	product := newTestProduct("Widget", 9.99, 8, "Tools")
	require.NoError(t, repo.Create(product))

	ok, err := repo.DecrementStock(product.ProductID, 6)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.AddToStock(product.ProductID, 6)
	require.NoError(t, err)
	require.True(t, ok)

	fetched, err := repo.GetByID(product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 8, fetched.StockAvailable)
}

func TestGORMProductRepository_AddToStockUnknownProduct(t *testing.T) {
	repo := setupRepo(t)

	ok, err := repo.AddToStock(999999, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGORMProductRepository_UpdateStock(t *testing.T) {
	repo := setupRepo(t)

	product := newTestProduct("Widget", 9.99, 5, "Tools")
	require.NoError(t, repo.Create(product))

	ok, err := repo.UpdateStock(product.ProductID, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	fetched, err := repo.GetByID(product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, 0, fetched.StockAvailable)

	ok, err = repo.UpdateStock(999999, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGORMProductRepository_GetByCategory(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Create(newTestProduct("Zeta Wrench", 12.0, 4, "Tools")))
	require.NoError(t, repo.Create(newTestProduct("Alpha Hammer", 8.0, 2, "Tools")))
	require.NoError(t, repo.Create(newTestProduct("Couch", 300.0, 1, "Furniture")))

	// Case-insensitive match, ordered by name ascending.
	products, err := repo.GetByCategory("TOOLS")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Alpha Hammer", products[0].Name)
	assert.Equal(t, "Zeta Wrench", products[1].Name)

	products, err = repo.GetByCategory("nonexistent")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGORMProductRepository_GetWithStock(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Create(newTestProduct("B Item", 1.0, 3, "Tools")))
	require.NoError(t, repo.Create(newTestProduct("A Item", 1.0, 0, "Tools")))
	require.NoError(t, repo.Create(newTestProduct("C Item", 1.0, 7, "Tools")))

	products, err := repo.GetWithStock()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "B Item", products[0].Name)
	assert.Equal(t, "C Item", products[1].Name)
}

func TestGORMProductRepository_GetWithLowStock(t *testing.T) {
	repo := setupRepo(t)

	require.NoError(t, repo.Create(newTestProduct("Out", 1.0, 0, "Tools")))
	require.NoError(t, repo.Create(newTestProduct("Scarce", 1.0, 2, "Tools")))
	require.NoError(t, repo.Create(newTestProduct("Edge", 1.0, 10, "Tools")))
	require.NoError(t, repo.Create(newTestProduct("Plenty", 1.0, 11, "Tools")))

	products, err := repo.GetWithLowStock(10)
	require.NoError(t, err)
	require.Len(t, products, 2)

	// Neither zero-stock nor above-threshold products may appear, and the
	// result is ordered by stock ascending.
	assert.Equal(t, "Scarce", products[0].Name)
	assert.Equal(t, "Edge", products[1].Name)
	for _, p := range products {
		assert.Greater(t, p.StockAvailable, 0)
		assert.LessOrEqual(t, p.StockAvailable, 10)
	}
}

func TestGORMProductRepository_Exists(t *testing.T) {
	repo := setupRepo(t)

	product := newTestProduct("Widget", 9.99, 5, "Tools")
	require.NoError(t, repo.Create(product))

	exists, err := repo.Exists(product.ProductID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(999999)
	require.NoError(t, err)
	assert.False(t, exists)
}
