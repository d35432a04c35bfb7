package models

import "time"

// SavedItem represents a user bookmarking a product.
// The combination of UserID and ProductID must be unique.
type SavedItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_user_product" json:"productId"`
	CreatedAt time.Time `json:"createdAt"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
