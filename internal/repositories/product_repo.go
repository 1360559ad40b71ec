package repositories

import (
	"katalog/internal/models"
)

// ProductRepository defines the interface for product data access. It is the
// only component allowed to mutate persisted product state.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id int) (*models.Product, error)
	GetByCategory(category string) ([]models.Product, error)
	GetWithStock() ([]models.Product, error)
	GetWithLowStock(threshold int) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id int) error
	UpdateStock(id, newStock int) (bool, error)
	DecrementStock(id, quantity int) (bool, error)
	AddToStock(id, quantity int) (bool, error)
	Exists(id int) (bool, error)
}

// ProductIDGenerator mints unique product identifiers. Every call advances a
// shared monotonic counter held in the data store; values are never cached or
// pre-allocated in process, so IDs stay unique across service instances.
type ProductIDGenerator interface {
	NextProductID() (int, error)
}
