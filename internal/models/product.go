package models

import (
	"time"

	"gorm.io/gorm"
)

// Product lifecycle states. Soft deletion is tracked separately via DeletedAt.
const (
	ProductStatusAvailable = "available"
	ProductStatusSold      = "sold"
)

// Accepted product conditions, best to worst.
var ProductConditions = []string{"New", "Like New", "Good", "Fair"}

// ValidCondition reports whether c is one of the accepted condition labels.
func ValidCondition(c string) bool {
	for _, v := range ProductConditions {
		if v == c {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a settable product status.
func ValidStatus(s string) bool {
	return s == ProductStatusAvailable || s == ProductStatusSold
}

// Product represents a listing offered by a seller.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Condition   string    `gorm:"not null" json:"condition"`
	Status      string    `gorm:"not null;default:'available';index" json:"status"`
	Location    string    `json:"location"`
	Size        string    `json:"size,omitempty"`
	Color       string    `json:"color,omitempty"`
	SubCategory string    `json:"subCategory,omitempty"`
	SellerID    uint      `gorm:"not null;index" json:"sellerId"`
	Seller      *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CategoryID  uint      `gorm:"not null;index" json:"categoryId"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	// SaveCount is not persisted; computed at query time. The migration
	// exclusion keeps AutoMigrate from creating a physical column that would
	// shadow the computed alias in ORDER BY.
	SaveCount int            `gorm:"-:migration;->" json:"saveCount"`
	Images    []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductImage is one photo attached to a product. Position 0 is the cover.
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"productId"`
	URL       string    `gorm:"not null" json:"url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}
