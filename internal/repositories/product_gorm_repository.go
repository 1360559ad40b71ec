package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"katalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db    *gorm.DB
	idGen ProductIDGenerator
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB, idGen ProductIDGenerator) *GORMProductRepository {
	return &GORMProductRepository{
		db:    db,
		idGen: idGen,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id int) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetByCategory retrieves products whose category matches case-insensitively,
// ordered by name.
func (r *GORMProductRepository) GetByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("LOWER(category) = LOWER(?)", category).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products in category %s: %w", category, err)
	}
	return products, nil
}

// GetWithStock retrieves products with stock available, ordered by name.
func (r *GORMProductRepository) GetWithStock() ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("stock_available > 0").
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products with stock: %w", err)
	}
	return products, nil
}

// GetWithLowStock retrieves products with 0 < stock <= threshold, ordered by
// stock ascending so the scarcest items come first.
func (r *GORMProductRepository) GetWithLowStock(threshold int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("stock_available > 0 AND stock_available <= ?", threshold).
		Order("stock_available ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products with low stock: %w", err)
	}
	return products, nil
}

// Create inserts a new product. When ProductID is zero a fresh one is minted
// from the ID sequence. Timestamps are set server-side unconditionally;
// caller-supplied values are ignored.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ProductID == 0 {
		id, err := r.idGen.NextProductID()
		if err != nil {
			return err
		}
		product.ProductID = id
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites an existing product row. The caller is responsible for
// having merged the desired changes into the full entity.
func (r *GORMProductRepository) Update(product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()
	res := r.db.Save(product) // Save updates all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not report ErrRecordNotFound for a missing row, so we
		// check RowsAffected instead.
		return fmt.Errorf("product with ID %d: %w", product.ProductID, models.ErrNotFound)
	}
	return nil
}

// Delete removes a product row by its ID. Hard delete, no tombstone.
func (r *GORMProductRepository) Delete(id int) error {
	res := r.db.Delete(&models.Product{}, "product_id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// UpdateStock overwrites the stock level of a product. Returns false if the
// product does not exist.
func (r *GORMProductRepository) UpdateStock(id, newStock int) (bool, error) {
	res := r.db.Model(&models.Product{}).
		Where("product_id = ?", id).
		Updates(map[string]interface{}{
			"stock_available": newStock,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update stock for product %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DecrementStock subtracts quantity from the product's stock as a single
// conditional UPDATE. The WHERE guard makes the check-and-decrement atomic:
// no other reader can observe a partial decrement, and stock never goes
// negative. Returns false if the product is missing or stock is insufficient.
func (r *GORMProductRepository) DecrementStock(id, quantity int) (bool, error) {
	res := r.db.Model(&models.Product{}).
		Where("product_id = ? AND stock_available >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock_available": gorm.Expr("stock_available - ?", quantity),
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement stock for product %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AddToStock adds quantity to the product's stock in a single UPDATE.
// Returns false only if the product does not exist.
func (r *GORMProductRepository) AddToStock(id, quantity int) (bool, error) {
	res := r.db.Model(&models.Product{}).
		Where("product_id = ?", id).
		Updates(map[string]interface{}{
			"stock_available": gorm.Expr("stock_available + ?", quantity),
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to add stock for product %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether a product with the given ID is persisted.
func (r *GORMProductRepository) Exists(id int) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("product_id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existence of product %d: %w", id, err)
	}
	return count > 0, nil
}
