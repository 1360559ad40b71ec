package models

import "time"

// Product represents a catalog item with its current stock level.
type Product struct {
	ProductID      int       `json:"productId" gorm:"column:product_id;primaryKey;autoIncrement:false"`
	Name           string    `json:"name" gorm:"type:varchar(200);not null"`
	Description    string    `json:"description" gorm:"type:varchar(1000)"`
	Price          float64   `json:"price" gorm:"not null"`
	StockAvailable int       `json:"stockAvailable" gorm:"not null"`
	Category       string    `json:"category" gorm:"type:varchar(100);not null"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Sequence is a named monotonic counter row. Product IDs are minted from the
// "product_id" sequence so they can be pre-allocated independently of the
// products table's own auto-increment.
type Sequence struct {
	Name  string `gorm:"primaryKey;type:varchar(64)"`
	Value int64  `gorm:"not null"`
}
