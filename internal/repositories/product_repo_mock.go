package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"katalog/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It mirrors the GORM implementation's semantics, including atomic stock
// decrements, so tests and driverless runs behave the same way.
type MockProductRepository struct {
	products map[int]models.Product
	nextID   int64
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[int]models.Product),
		nextID:   ProductIDSequenceStart,
	}
}

// NextProductID advances the in-memory counter. The mock doubles as its own
// ProductIDGenerator.
func (r *MockProductRepository) NextProductID() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	return int(r.nextID), nil
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id int) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
	}
	return &product, nil
}

// GetByCategory returns products matching the category case-insensitively,
// ordered by name.
func (r *MockProductRepository) GetByCategory(category string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for _, p := range r.products {
		if strings.EqualFold(p.Category, category) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].Name < productList[j].Name
	})
	return productList, nil
}

// GetWithStock returns products with stock available, ordered by name.
func (r *MockProductRepository) GetWithStock() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for _, p := range r.products {
		if p.StockAvailable > 0 {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].Name < productList[j].Name
	})
	return productList, nil
}

// GetWithLowStock returns products with 0 < stock <= threshold, ordered by
// stock ascending.
func (r *MockProductRepository) GetWithLowStock(threshold int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var productList []models.Product
	for _, p := range r.products {
		if p.StockAvailable > 0 && p.StockAvailable <= threshold {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool {
		return productList[i].StockAvailable < productList[j].StockAvailable
	})
	return productList, nil
}

// Create adds a new product, minting an ID when none is set.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ProductID == 0 {
		r.nextID++
		product.ProductID = int(r.nextID)
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	r.products[product.ProductID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ProductID]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", product.ProductID, models.ErrNotFound)
	}
	product.UpdatedAt = time.Now().UTC()
	r.products[product.ProductID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// UpdateStock overwrites the stock level of a product.
func (r *MockProductRepository) UpdateStock(id, newStock int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return false, nil
	}
	product.StockAvailable = newStock
	product.UpdatedAt = time.Now().UTC()
	r.products[id] = product
	return true, nil
}

// DecrementStock subtracts quantity from the product's stock. The check and
// the write happen under one lock, matching the single-statement atomicity of
// the GORM implementation.
func (r *MockProductRepository) DecrementStock(id, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.StockAvailable < quantity {
		return false, nil
	}
	product.StockAvailable -= quantity
	product.UpdatedAt = time.Now().UTC()
	r.products[id] = product
	return true, nil
}

// AddToStock adds quantity to the product's stock.
func (r *MockProductRepository) AddToStock(id, quantity int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return false, nil
	}
	product.StockAvailable += quantity
	product.UpdatedAt = time.Now().UTC()
	r.products[id] = product
	return true, nil
}

// Exists reports whether a product with the given ID is stored.
func (r *MockProductRepository) Exists(id int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}
