package repositories

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"katalog/internal/models"
)

// ProductIDSequenceName is the sequence row that backs product ID minting.
const ProductIDSequenceName = "product_id"

// ProductIDSequenceStart is the value the sequence is seeded with; the first
// minted ID is ProductIDSequenceStart+1, well above any seed-data range.
const ProductIDSequenceStart = 100000

// GORMSequenceGenerator mints product IDs from a sequence row in the
// database. The counter is advanced with a single UPDATE ... RETURNING
// statement, so concurrent callers never observe the same value; statement
// level atomicity is all the uniqueness guarantee relies on.
type GORMSequenceGenerator struct {
	db *gorm.DB
}

// NewGORMSequenceGenerator creates a generator backed by the given database.
func NewGORMSequenceGenerator(db *gorm.DB) *GORMSequenceGenerator {
	return &GORMSequenceGenerator{db: db}
}

// EnsureSequence creates the sequence row if it does not exist yet. Safe to
// call on every startup.
func EnsureSequence(db *gorm.DB) error {
	seq := models.Sequence{Name: ProductIDSequenceName, Value: ProductIDSequenceStart}
	res := db.Where(models.Sequence{Name: ProductIDSequenceName}).FirstOrCreate(&seq)
	if res.Error != nil {
		log.Printf("Error ensuring sequence %s: %v", ProductIDSequenceName, res.Error)
		return fmt.Errorf("failed to ensure sequence %s: %w", ProductIDSequenceName, models.ErrStoreUnavailable)
	}
	return nil
}

// NextProductID returns the next value of the product ID sequence. A store
// failure propagates as ErrStoreUnavailable; it is never swallowed.
func (g *GORMSequenceGenerator) NextProductID() (int, error) {
	var next int64
	res := g.db.Raw(
		"UPDATE sequences SET value = value + 1 WHERE name = ? RETURNING value",
		ProductIDSequenceName,
	).Scan(&next)
	if res.Error != nil {
		log.Printf("Error advancing sequence %s: %v", ProductIDSequenceName, res.Error)
		return 0, fmt.Errorf("failed to generate next product ID: %w", models.ErrStoreUnavailable)
	}
	if res.RowsAffected == 0 || next == 0 {
		log.Printf("Sequence %s is missing; was EnsureSequence run?", ProductIDSequenceName)
		return 0, fmt.Errorf("sequence %s not initialized: %w", ProductIDSequenceName, models.ErrStoreUnavailable)
	}
	return int(next), nil
}
