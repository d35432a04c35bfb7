// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// University represents a campus whose students may register.
// Registration email addresses must belong to the university's Domain.
type University struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	Domain    string    `gorm:"unique;not null" json:"domain"`
	CreatedAt time.Time `json:"createdAt"`
}

// User represents a registered marketplace member.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FullName     string         `gorm:"not null" json:"fullName"`
	Username     string         `gorm:"unique;not null" json:"username"`
	Email        string         `gorm:"unique;not null" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	Bio          string         `json:"bio"`
	Avatar       string         `json:"avatar"`
	Phone        string         `json:"phone"`
	UniversityID uint           `gorm:"not null;index" json:"universityId"`
	University   *University    `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Products     []Product      `gorm:"foreignKey:SellerID" json:"products,omitempty"`
}
