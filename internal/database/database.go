package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"katalog/internal/models"
	"katalog/internal/repositories"
)

// Open connects to the configured database and prepares the schema. driver is
// "postgres" or "sqlite"; dsn is driver-specific (a connection string or a
// file path).
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the products and sequences tables and seeds the product ID
// sequence. Safe to run on every startup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}, &models.Sequence{}); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	if err := repositories.EnsureSequence(db); err != nil {
		return err
	}
	return nil
}

// Seed populates an empty catalog with an initial set of products, minting
// each ID through the sequence. A non-empty table is left untouched.
func Seed(repo repositories.ProductRepository) error {
	existing, err := repo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to check for existing products: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "iPhone 15 Pro", Description: "Latest Apple smartphone with A17 Pro chip", Price: 999.99, StockAvailable: 50, Category: "Electronics"},
		{Name: "MacBook Pro 16\"", Description: "Powerful laptop for professionals with M3 chip", Price: 2499.99, StockAvailable: 25, Category: "Electronics"},
		{Name: "AirPods Pro", Description: "Wireless earbuds with active noise cancellation", Price: 249.99, StockAvailable: 100, Category: "Electronics"},
		{Name: "Office Chair Pro", Description: "Ergonomic office chair with lumbar support", Price: 299.99, StockAvailable: 30, Category: "Furniture"},
		{Name: "Standing Desk", Description: "Height adjustable standing desk", Price: 599.99, StockAvailable: 15, Category: "Furniture"},
		{Name: "Gaming Mouse", Description: "High-precision gaming mouse with RGB lighting", Price: 79.99, StockAvailable: 75, Category: "Gaming"},
		{Name: "Mechanical Keyboard", Description: "Cherry MX switches mechanical keyboard", Price: 149.99, StockAvailable: 40, Category: "Gaming"},
		{Name: "Coffee Maker", Description: "Programmable drip coffee maker", Price: 89.99, StockAvailable: 60, Category: "Appliances"},
		{Name: "Blender Pro", Description: "High-speed blender for smoothies and soups", Price: 199.99, StockAvailable: 35, Category: "Appliances"},
		{Name: "Yoga Mat", Description: "Non-slip yoga mat with carrying strap", Price: 29.99, StockAvailable: 80, Category: "Fitness"},
	}

	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", products[i].Name, err)
		}
		log.Printf("Seeded product: %s (ID: %d)", products[i].Name, products[i].ProductID)
	}
	return nil
}
