package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"katalog/internal/models"
	"katalog/internal/repositories"
)

// ProductService handles business logic related to products. Business rules
// run here independently of the request-shape validation in the handlers, so
// invalid values never reach the repository.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// validateProduct enforces the business rules shared by create and update.
func validateProduct(product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("product name is required: %w", models.ErrInvalidArgument)
	}
	if product.Price <= 0 {
		return fmt.Errorf("product price must be greater than zero: %w", models.ErrInvalidArgument)
	}
	if product.StockAvailable < 0 {
		return fmt.Errorf("stock available cannot be negative: %w", models.ErrInvalidArgument)
	}
	return nil
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id int) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetProductsByCategory retrieves products in a category, matched
// case-insensitively.
func (s *ProductService) GetProductsByCategory(category string) ([]models.Product, error) {
	return s.repo.GetByCategory(category)
}

// GetProductsWithStock retrieves products with stock available.
func (s *ProductService) GetProductsWithStock() ([]models.Product, error) {
	return s.repo.GetWithStock()
}

// GetProductsWithLowStock retrieves products whose stock is above zero but at
// or below the threshold.
func (s *ProductService) GetProductsWithLowStock(threshold int) ([]models.Product, error) {
	return s.repo.GetWithLowStock(threshold)
}

// CreateProduct validates and persists a new product. The repository mints
// the ProductID and sets both timestamps.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.repo.Create(product); err != nil {
		log.Printf("Error creating product %q: %v", product.Name, err)
		return err
	}
	log.Printf("Product created with ID %d", product.ProductID)
	return nil
}

// UpdateProduct overwrites every mutable field of an existing product from
// the given values. Partial updates are not supported. Returns ErrNotFound
// when the target does not exist.
func (s *ProductService) UpdateProduct(id int, product *models.Product) (*models.Product, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Printf("Product with ID %d not found for update", id)
		}
		return nil, err
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.StockAvailable = product.StockAvailable
	existing.Category = product.Category

	if err := s.repo.Update(existing); err != nil {
		log.Printf("Error updating product with ID %d: %v", id, err)
		return nil, err
	}
	return existing, nil
}

// DeleteProduct removes a product. Returns false without error when the
// product does not exist, so deleting twice is safe.
func (s *ProductService) DeleteProduct(id int) (bool, error) {
	err := s.repo.Delete(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Printf("Product with ID %d not found for deletion", id)
			return false, nil
		}
		log.Printf("Error deleting product with ID %d: %v", id, err)
		return false, err
	}
	return true, nil
}

// DecrementStock subtracts quantity from a product's stock. The quantity must
// be positive; the repository's conditional update reports false when the
// product is missing or stock is insufficient.
func (s *ProductService) DecrementStock(id, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("quantity must be greater than zero: %w", models.ErrInvalidArgument)
	}
	ok, err := s.repo.DecrementStock(id, quantity)
	if err != nil {
		log.Printf("Error decrementing stock for product %d: %v", id, err)
		return false, err
	}
	if !ok {
		log.Printf("Failed to decrement stock for product %d: insufficient stock or product not found", id)
	}
	return ok, nil
}

// AddToStock adds quantity to a product's stock. The quantity must be
// positive; false means the product does not exist.
func (s *ProductService) AddToStock(id, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("quantity must be greater than zero: %w", models.ErrInvalidArgument)
	}
	ok, err := s.repo.AddToStock(id, quantity)
	if err != nil {
		log.Printf("Error adding stock for product %d: %v", id, err)
		return false, err
	}
	if !ok {
		log.Printf("Failed to add stock for product %d: product not found", id)
	}
	return ok, nil
}

// ProductExists reports whether a product with the given ID exists.
func (s *ProductService) ProductExists(id int) (bool, error) {
	return s.repo.Exists(id)
}
