package domain

import "time"

// Product Model
type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`  // Primary key
	Name        string  `gorm:"not null" json:"name"`  // Display name
	Description string  `json:"description"`           // Free-form description
	Price       float64 `gorm:"not null" json:"price"` // Current catalog price, >= 0
	Category    string  `gorm:"index" json:"category"`
	Subcategory string  `json:"subcategory"`
	InStock     bool    `gorm:"default:true" json:"in_stock"`
	Discount    float64 `json:"discount"` // Percentage 0-100
	Rating      float64 `json:"rating"`
	Tags        string  `json:"tags"` // Comma-separated, searched with LIKE
	IsActive    bool    `gorm:"default:true" json:"is_active"` // Inactive products are hidden and unorderable
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
