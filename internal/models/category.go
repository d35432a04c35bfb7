package models

import "time"

// Category is a top-level product grouping (seed data).
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClothingCategory is the category whose listings carry size, color and
// sub-category attributes. Filters on those attributes only apply to it.
const ClothingCategory = "Clothing"
